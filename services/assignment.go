package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"grant-portal-api/models"

	"gorm.io/gorm"
)

// ReviewerLoad pairs a reviewer with their count of in-progress reviews.
type ReviewerLoad struct {
	Reviewer models.User `json:"reviewer"`
	Load     int         `json:"load"`
}

// EligibleReviewers lists active reviewers who may take a review on the given
// proposal: reviewer role, not the submitter, not already holding an active
// review on the proposal. Results are ordered by current load, ties by user ID.
func EligibleReviewers(db *gorm.DB, proposal *models.Proposal) ([]ReviewerLoad, error) {
	var assignedIDs []int
	if err := db.Model(&models.Review{}).
		Where("proposal_id = ? AND superseded = ? AND delete_at IS NULL", proposal.ProposalID, false).
		Pluck("reviewer_id", &assignedIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load assigned reviewers: %w", err)
	}

	excluded := map[int]bool{proposal.UserID: true}
	for _, id := range assignedIDs {
		excluded[id] = true
	}

	var reviewers []models.User
	if err := db.Where("role_id = ? AND is_active = ? AND delete_at IS NULL", models.RoleReviewer, true).
		Order("user_id ASC").
		Find(&reviewers).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewers: %w", err)
	}

	type loadRow struct {
		ReviewerID int
		Count      int
	}
	var loads []loadRow
	if err := db.Model(&models.Review{}).
		Select("reviewer_id, COUNT(*) as count").
		Where("status = ? AND superseded = ? AND delete_at IS NULL", ReviewStatusInProgress, false).
		Group("reviewer_id").
		Scan(&loads).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewer workloads: %w", err)
	}
	loadByID := make(map[int]int, len(loads))
	for _, l := range loads {
		loadByID[l.ReviewerID] = l.Count
	}

	out := make([]ReviewerLoad, 0, len(reviewers))
	for _, r := range reviewers {
		if excluded[r.UserID] {
			continue
		}
		out = append(out, ReviewerLoad{Reviewer: r, Load: loadByID[r.UserID]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Load != out[j].Load {
			return out[i].Load < out[j].Load
		}
		return out[i].Reviewer.UserID < out[j].Reviewer.UserID
	})
	return out, nil
}

// AutoSelectReviewer picks the eligible reviewer with the lowest current load.
func AutoSelectReviewer(db *gorm.DB, proposal *models.Proposal) (*models.User, error) {
	candidates, err := EligibleReviewers(db, proposal)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New("no eligible reviewers available")
	}
	return &candidates[0].Reviewer, nil
}

// AssignFirstRoundReviews creates the human and AI review records for a
// submitted proposal and moves it under review. The AI review carries
// reviewer ID 0 until an automated scorer is wired in; operationally an admin
// completes it through the regular review endpoints (admins may read and
// score any review) or reassigns it to a person with ReassignReview.
func AssignFirstRoundReviews(db *gorm.DB, proposal *models.Proposal, humanReviewerID int, dueDate time.Time, changedBy int) ([]models.Review, error) {
	if proposal.Status != ProposalStatusSubmitted {
		return nil, fmt.Errorf("proposal %d is not awaiting assignment (status %s)", proposal.ProposalID, proposal.Status)
	}

	var existing int64
	if err := db.Model(&models.Review{}).
		Where("proposal_id = ? AND superseded = ? AND delete_at IS NULL", proposal.ProposalID, false).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing reviews: %w", err)
	}
	if existing > 0 {
		return nil, errors.New("proposal already has active reviews")
	}

	now := time.Now()
	reviews := []models.Review{
		{
			ProposalID:  proposal.ProposalID,
			ReviewerID:  humanReviewerID,
			ReviewType:  ReviewTypeHuman,
			Status:      ReviewStatusInProgress,
			ReviewRound: 1,
			DueDate:     &dueDate,
			CreateAt:    &now,
			UpdateAt:    &now,
		},
		{
			ProposalID:  proposal.ProposalID,
			ReviewType:  ReviewTypeAI,
			Status:      ReviewStatusInProgress,
			ReviewRound: 1,
			DueDate:     &dueDate,
			CreateAt:    &now,
			UpdateAt:    &now,
		},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range reviews {
			if err := tx.Create(&reviews[i]).Error; err != nil {
				return fmt.Errorf("failed to create %s review: %w", reviews[i].ReviewType, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := TransitionProposal(db, proposal, ProposalStatusUnderReview, changedBy, "reviewers assigned"); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReassignReview swaps the reviewer on an incomplete review without touching
// scores already entered. The proposal's status is never changed here.
func ReassignReview(db *gorm.DB, review *models.Review, newReviewerID int) error {
	if review.Status == ReviewStatusCompleted {
		return errors.New("completed reviews cannot be reassigned")
	}
	if review.Superseded {
		return errors.New("superseded reviews cannot be reassigned")
	}
	if newReviewerID == review.ReviewerID {
		return errors.New("review is already assigned to this reviewer")
	}

	var reviewer models.User
	if err := db.Where("user_id = ? AND role_id = ? AND is_active = ? AND delete_at IS NULL",
		newReviewerID, models.RoleReviewer, true).First(&reviewer).Error; err != nil {
		return fmt.Errorf("reviewer %d is not eligible: %w", newReviewerID, err)
	}

	now := time.Now()
	if err := db.Model(review).
		Updates(map[string]interface{}{"reviewer_id": newReviewerID, "update_at": now}).Error; err != nil {
		return fmt.Errorf("failed to reassign review: %w", err)
	}
	review.ReviewerID = newReviewerID
	review.UpdateAt = &now
	return nil
}
