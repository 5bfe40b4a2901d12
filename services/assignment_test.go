package services

import (
	"testing"
	"time"

	"grant-portal-api/models"

	"github.com/stretchr/testify/assert"
)

func TestAssignFirstRoundReviewsRequiresSubmittedStatus(t *testing.T) {
	for _, status := range []string{
		ProposalStatusUnderReview, ProposalStatusApproved,
		ProposalStatusRejected, ProposalStatusRevisionRequested,
	} {
		p := &models.Proposal{ProposalID: 5, Status: status}
		_, err := AssignFirstRoundReviews(nil, p, 2, time.Now().AddDate(0, 0, 14), 3)
		assert.ErrorContains(t, err, "not awaiting assignment", status)
	}
}

func TestReassignReviewGuards(t *testing.T) {
	completed := &models.Review{ReviewID: 1, ReviewerID: 2, Status: ReviewStatusCompleted}
	err := ReassignReview(nil, completed, 4)
	assert.ErrorContains(t, err, "completed reviews cannot be reassigned")

	superseded := &models.Review{ReviewID: 2, ReviewerID: 2, Status: ReviewStatusInProgress, Superseded: true}
	err = ReassignReview(nil, superseded, 4)
	assert.ErrorContains(t, err, "superseded")

	same := &models.Review{ReviewID: 3, ReviewerID: 2, Status: ReviewStatusInProgress}
	err = ReassignReview(nil, same, 2)
	assert.ErrorContains(t, err, "already assigned")

	// guard failures never change the assignment
	assert.Equal(t, 2, completed.ReviewerID)
	assert.Equal(t, 2, superseded.ReviewerID)
}
