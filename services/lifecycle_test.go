package services

import (
	"testing"

	"grant-portal-api/models"

	"github.com/stretchr/testify/assert"
)

func TestIsValidProposalStatus(t *testing.T) {
	for _, s := range []string{
		ProposalStatusSubmitted, ProposalStatusUnderReview, ProposalStatusApproved,
		ProposalStatusRejected, ProposalStatusRevisionRequested,
	} {
		assert.True(t, IsValidProposalStatus(s), s)
	}
	assert.False(t, IsValidProposalStatus("draft"))
	assert.False(t, IsValidProposalStatus(""))
	assert.False(t, IsValidProposalStatus("Approved"))
}

func TestCanTransitionProposal(t *testing.T) {
	allowed := []struct{ from, to string }{
		{ProposalStatusSubmitted, ProposalStatusUnderReview},
		{ProposalStatusUnderReview, ProposalStatusRevisionRequested},
		{ProposalStatusUnderReview, ProposalStatusApproved},
		{ProposalStatusUnderReview, ProposalStatusRejected},
		{ProposalStatusRevisionRequested, ProposalStatusApproved},
		{ProposalStatusRevisionRequested, ProposalStatusRejected},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransitionProposal(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		// no skipping review
		{ProposalStatusSubmitted, ProposalStatusApproved},
		{ProposalStatusSubmitted, ProposalStatusRejected},
		{ProposalStatusSubmitted, ProposalStatusRevisionRequested},
		// terminal statuses stay terminal
		{ProposalStatusApproved, ProposalStatusRejected},
		{ProposalStatusApproved, ProposalStatusUnderReview},
		{ProposalStatusRejected, ProposalStatusApproved},
		{ProposalStatusRejected, ProposalStatusUnderReview},
		// no going backwards
		{ProposalStatusUnderReview, ProposalStatusSubmitted},
		{ProposalStatusRevisionRequested, ProposalStatusSubmitted},
		{ProposalStatusRevisionRequested, ProposalStatusUnderReview},
		// self transitions are not a thing
		{ProposalStatusUnderReview, ProposalStatusUnderReview},
	}
	for _, tt := range denied {
		assert.False(t, CanTransitionProposal(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionProposalRejectsInvalidTarget(t *testing.T) {
	p := &models.Proposal{ProposalID: 1, Status: ProposalStatusSubmitted}

	err := TransitionProposal(nil, p, "archived", 1, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = TransitionProposal(nil, p, ProposalStatusApproved, 1, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// the proposal is untouched on a rejected transition
	assert.Equal(t, ProposalStatusSubmitted, p.Status)
}

func TestNormalizeAwardStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"approved", AwardStatusApproved, true},
		{"declined", AwardStatusDeclined, true},
		{"rejected", AwardStatusDeclined, true},
		{"REJECTED", AwardStatusDeclined, true},
		{" pending ", AwardStatusPending, true},
		{"maybe", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeAwardStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSetProposalArchivedRequiresComment(t *testing.T) {
	p := &models.Proposal{ProposalID: 7, Status: ProposalStatusUnderReview}

	err := SetProposalArchived(nil, p, true, "   ", 3)
	assert.ErrorContains(t, err, "comment")
	assert.False(t, p.IsArchived)
}
