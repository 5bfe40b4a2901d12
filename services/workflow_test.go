package services

import (
	"testing"

	"grant-portal-api/models"

	"github.com/stretchr/testify/assert"
)

func TestSaveReviewProgressGuards(t *testing.T) {
	completed := &models.Review{Status: ReviewStatusCompleted}
	err := SaveReviewProgress(nil, completed, nil, nil)
	assert.ErrorIs(t, err, ErrReviewImmutable)

	inProgress := &models.Review{Status: ReviewStatusInProgress}
	err = SaveReviewProgress(nil, inProgress, map[string]string{"vibes": "9"}, nil)
	assert.ErrorContains(t, err, "unknown rubric criterion")
}

func TestSubmitReviewGuards(t *testing.T) {
	completed := &models.Review{Status: ReviewStatusCompleted}
	err := SubmitReview(nil, completed, 1)
	assert.ErrorIs(t, err, ErrReviewImmutable)

	// incomplete scoring never reaches the database
	incomplete := &models.Review{Status: ReviewStatusInProgress}
	incomplete.SetCriterionScore("relevance", 8)
	err = SubmitReview(nil, incomplete, 1)
	assert.Error(t, err)
	assert.Equal(t, ReviewStatusInProgress, incomplete.Status)
	assert.Nil(t, incomplete.CompletedAt)
}

func TestDecideAwardGuards(t *testing.T) {
	funding := 250000.0
	negative := -1.0

	tests := []struct {
		name    string
		award   models.Award
		status  string
		amount  *float64
		feedbak string
		wantErr string
	}{
		{
			name:    "unknown status",
			award:   models.Award{Status: AwardStatusPending},
			status:  "maybe",
			feedbak: "x",
			wantErr: "invalid decision status",
		},
		{
			name:    "pending is not a decision",
			award:   models.Award{Status: AwardStatusPending},
			status:  "pending",
			feedbak: "x",
			wantErr: "invalid decision status",
		},
		{
			name:    "already decided",
			award:   models.Award{Status: AwardStatusApproved},
			status:  "declined",
			feedbak: "x",
			wantErr: "already been decided",
		},
		{
			name:    "feedback required",
			award:   models.Award{Status: AwardStatusPending},
			status:  "approved",
			amount:  &funding,
			wantErr: "feedback",
		},
		{
			name:    "whitespace feedback rejected",
			award:   models.Award{Status: AwardStatusPending},
			status:  "approved",
			amount:  &funding,
			feedbak: " \t\n ",
			wantErr: "feedback",
		},
		{
			name:    "approval requires funding",
			award:   models.Award{Status: AwardStatusPending},
			status:  "approved",
			feedbak: "great proposal",
			wantErr: "funding amount",
		},
		{
			name:    "negative funding rejected",
			award:   models.Award{Status: AwardStatusPending},
			status:  "approved",
			amount:  &negative,
			feedbak: "great proposal",
			wantErr: "funding amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			award := tt.award
			proposal := models.Proposal{ProposalID: 1, Status: ProposalStatusUnderReview}
			err := DecideAward(nil, &award, &proposal, tt.status, tt.amount, tt.feedbak, 3)
			assert.ErrorContains(t, err, tt.wantErr)
			// guard failures leave both records unchanged
			assert.Equal(t, tt.award.Status, award.Status)
			assert.Equal(t, ProposalStatusUnderReview, proposal.Status)
		})
	}
}

func TestMaxRound(t *testing.T) {
	assert.Equal(t, 1, maxRound(nil))
	assert.Equal(t, 2, maxRound([]models.Review{{ReviewRound: 1}, {ReviewRound: 2}}))
}
