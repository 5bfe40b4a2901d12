package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"grant-portal-api/models"

	"gorm.io/gorm"
)

// ErrReviewImmutable is returned when a completed review is written to.
var ErrReviewImmutable = errors.New("completed reviews are immutable")

// SaveReviewProgress applies a partial score/comment update to an in-progress
// review. Raw score values clamp to their criterion bounds.
func SaveReviewProgress(db *gorm.DB, review *models.Review, scores map[string]string, comments *string) error {
	if review.Status == ReviewStatusCompleted {
		return ErrReviewImmutable
	}

	for key, raw := range scores {
		max := CriterionMax(key)
		if max < 0 {
			return fmt.Errorf("unknown rubric criterion '%s'", key)
		}
		review.SetCriterionScore(key, ParseScore(raw, max))
	}
	if comments != nil {
		review.Comments = comments
	}
	if total, ok := ReviewTotal(review); ok {
		review.TotalScore = &total
	}

	now := time.Now()
	review.UpdateAt = &now
	if err := db.Save(review).Error; err != nil {
		return fmt.Errorf("failed to save review progress: %w", err)
	}
	return nil
}

// SubmitReview marks a review completed after enforcing the completion guard,
// stamps the total, and advances the proposal workflow.
func SubmitReview(db *gorm.DB, review *models.Review, changedBy int) error {
	if review.Status == ReviewStatusCompleted {
		return ErrReviewImmutable
	}
	if err := ValidateReviewComplete(review); err != nil {
		return err
	}

	total, _ := ReviewTotal(review)
	now := time.Now()
	review.TotalScore = &total
	review.Status = ReviewStatusCompleted
	review.CompletedAt = &now
	review.UpdateAt = &now

	// The completion write and the lifecycle advance commit together: if the
	// evaluation cannot finish (no reconciliation reviewer available, history
	// write refused) the submission rolls back and stays re-submittable.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return fmt.Errorf("failed to submit review: %w", err)
		}
		return EvaluateProposalReviews(tx, review.ProposalID, changedBy)
	})
	if err != nil {
		review.Status = ReviewStatusInProgress
		review.CompletedAt = nil
		return err
	}
	return nil
}

// EvaluateProposalReviews inspects a proposal's active reviews after a
// completion and advances the lifecycle:
//   - reconciliation completed -> final score from reconciliation, award opened;
//   - all first-round reviews completed without discrepancy -> final score from
//     their mean, award opened;
//   - first-round discrepancy -> reconciliation review created, first-round
//     reviews superseded, proposal moves to revision_requested.
func EvaluateProposalReviews(db *gorm.DB, proposalID int, changedBy int) error {
	var proposal models.Proposal
	if err := db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&proposal).Error; err != nil {
		return fmt.Errorf("failed to load proposal %d: %w", proposalID, err)
	}

	var reviews []models.Review
	if err := db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Order("review_id ASC").
		Find(&reviews).Error; err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	for i := range reviews {
		r := &reviews[i]
		if r.ReviewType == ReviewTypeReconciliation && !r.Superseded && r.Status == ReviewStatusCompleted {
			final := float64(*r.TotalScore)
			return openPendingAward(db, &proposal, final)
		}
	}

	var firstRound []models.Review
	for i := range reviews {
		r := reviews[i]
		if r.ReviewType != ReviewTypeReconciliation && !r.Superseded {
			firstRound = append(firstRound, r)
		}
	}
	if len(firstRound) == 0 {
		return nil
	}
	for _, r := range firstRound {
		if r.Status != ReviewStatusCompleted {
			return nil // still waiting on a first-round review
		}
	}

	if discrepancies := DetectDiscrepancies(firstRound); len(discrepancies) > 0 {
		return openReconciliation(db, &proposal, firstRound, changedBy)
	}

	final, err := AggregateFinalScore(firstRound)
	if err != nil {
		return err
	}
	return openPendingAward(db, &proposal, final)
}

func openPendingAward(db *gorm.DB, proposal *models.Proposal, finalScore float64) error {
	var existing models.Award
	err := db.Where("proposal_id = ? AND delete_at IS NULL", proposal.ProposalID).First(&existing).Error
	now := time.Now()
	switch {
	case err == nil:
		// Award already open; refresh the aggregated score while it is pending.
		if existing.Status != AwardStatusPending {
			return nil
		}
		if err := db.Model(&existing).
			Updates(map[string]interface{}{"final_score": finalScore, "update_at": now}).Error; err != nil {
			return fmt.Errorf("failed to refresh award score: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		award := models.Award{
			ProposalID: proposal.ProposalID,
			Status:     AwardStatusPending,
			FinalScore: &finalScore,
			CreateAt:   &now,
			UpdateAt:   &now,
		}
		if err := db.Create(&award).Error; err != nil {
			return fmt.Errorf("failed to open award: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to check existing award: %w", err)
	}
}

func openReconciliation(db *gorm.DB, proposal *models.Proposal, firstRound []models.Review, changedBy int) error {
	reviewer, err := AutoSelectReviewer(db, proposal)
	if err != nil {
		return fmt.Errorf("failed to pick reconciliation reviewer: %w", err)
	}

	now := time.Now()
	due := now.AddDate(0, 0, 14)
	reconciliation := models.Review{
		ProposalID:  proposal.ProposalID,
		ReviewerID:  reviewer.UserID,
		ReviewType:  ReviewTypeReconciliation,
		Status:      ReviewStatusInProgress,
		ReviewRound: maxRound(firstRound) + 1,
		DueDate:     &due,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reconciliation).Error; err != nil {
			return fmt.Errorf("failed to create reconciliation review: %w", err)
		}
		for i := range firstRound {
			if err := tx.Model(&firstRound[i]).
				Updates(map[string]interface{}{"superseded": true, "update_at": now}).Error; err != nil {
				return fmt.Errorf("failed to supersede review %d: %w", firstRound[i].ReviewID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return TransitionProposal(db, proposal, ProposalStatusRevisionRequested, changedBy, "reviewer scores diverged; reconciliation opened")
}

func maxRound(reviews []models.Review) int {
	round := 1
	for _, r := range reviews {
		if r.ReviewRound > round {
			round = r.ReviewRound
		}
	}
	return round
}

// DecideAward applies the one-shot admin funding decision. Approval requires a
// funding amount; every decision requires feedback for the applicant. The
// proposal transitions to its terminal status in the same operation.
func DecideAward(db *gorm.DB, award *models.Award, proposal *models.Proposal, status string, fundingAmount *float64, feedback string, decidedBy int) error {
	normalized, ok := NormalizeAwardStatus(status)
	if !ok || normalized == AwardStatusPending {
		return fmt.Errorf("invalid decision status '%s'", status)
	}
	if award.Status != AwardStatusPending {
		return errors.New("award has already been decided")
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return errors.New("feedback comments are required")
	}
	if normalized == AwardStatusApproved {
		if fundingAmount == nil || *fundingAmount < 0 {
			return errors.New("an approved award requires a funding amount")
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":            normalized,
		"feedback_comments": feedback,
		"decided_by":        decidedBy,
		"decided_at":        now,
		"update_at":         now,
	}
	if normalized == AwardStatusApproved {
		updates["funding_amount"] = *fundingAmount
	}

	if err := db.Model(award).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	award.Status = normalized
	award.FeedbackComments = &feedback
	award.DecidedBy = &decidedBy
	award.DecidedAt = &now
	if normalized == AwardStatusApproved {
		award.FundingAmount = fundingAmount
	}

	proposalStatus := ProposalStatusApproved
	if normalized == AwardStatusDeclined {
		proposalStatus = ProposalStatusRejected
	}
	return TransitionProposal(db, proposal, proposalStatus, decidedBy, "funding decision recorded")
}
