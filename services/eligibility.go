package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"grant-portal-api/models"

	"gorm.io/gorm"
)

// Stage deadline defaults, overridable via FULL_PROPOSAL_DEADLINE and
// FINAL_SUBMISSION_DEADLINE (2006-01-02).
var (
	defaultFullProposalDeadline    = time.Date(2026, time.October, 31, 23, 59, 59, 0, time.Local)
	defaultFinalSubmissionDeadline = time.Date(2027, time.March, 31, 23, 59, 59, 0, time.Local)
)

// StageGate is the eligibility contract for the second and third funding
// stages. The upload form may be offered only when CanSubmit is true; each
// false flag carries its own denial reason.
type StageGate struct {
	IsApproved       bool    `json:"is_approved"`
	HasSubmitted     bool    `json:"has_submitted"`
	IsWithinDeadline bool    `json:"is_within_deadline"`
	DaysRemaining    int     `json:"days_remaining"`
	ReviewComments   *string `json:"review_comments,omitempty"`
}

// CanSubmit reports whether all three gate conditions hold.
func (g StageGate) CanSubmit() bool {
	return g.IsApproved && !g.HasSubmitted && g.IsWithinDeadline
}

// DenialReason names the first failed condition, or empty when submission is allowed.
func (g StageGate) DenialReason(stage string) string {
	switch {
	case !g.IsApproved:
		return fmt.Sprintf("the previous stage has not been approved, so the %s cannot be submitted", stage)
	case g.HasSubmitted:
		return fmt.Sprintf("a %s has already been submitted for this proposal", stage)
	case !g.IsWithinDeadline:
		return fmt.Sprintf("the %s deadline has passed", stage)
	}
	return ""
}

// FullProposalDeadline resolves the second-stage deadline.
func FullProposalDeadline() time.Time {
	return stageDeadline("FULL_PROPOSAL_DEADLINE", defaultFullProposalDeadline)
}

// FinalSubmissionDeadline resolves the third-stage deadline.
func FinalSubmissionDeadline() time.Time {
	return stageDeadline("FINAL_SUBMISSION_DEADLINE", defaultFinalSubmissionDeadline)
}

func stageDeadline(envKey string, fallback time.Time) time.Time {
	raw := os.Getenv(envKey)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return fallback
	}
	// Deadline is inclusive of the named day.
	return parsed.AddDate(0, 0, 1).Add(-time.Second)
}

// FullProposalGate evaluates second-stage eligibility: concept-note award
// approved, no prior full proposal, deadline not passed.
func FullProposalGate(db *gorm.DB, proposalID int, now time.Time) (StageGate, error) {
	gate := StageGate{}

	var award models.Award
	err := db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&award).Error
	switch {
	case err == nil:
		gate.IsApproved = award.Status == AwardStatusApproved
		gate.ReviewComments = award.FeedbackComments
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no award yet; gate stays closed
	default:
		return gate, fmt.Errorf("failed to load award: %w", err)
	}

	var count int64
	if err := db.Model(&models.FullProposal{}).
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Count(&count).Error; err != nil {
		return gate, fmt.Errorf("failed to check full proposal: %w", err)
	}
	gate.HasSubmitted = count > 0

	applyDeadline(&gate, FullProposalDeadline(), now)
	return gate, nil
}

// FinalSubmissionGate evaluates third-stage eligibility: full proposal
// approved, no prior final submission, deadline not passed.
func FinalSubmissionGate(db *gorm.DB, proposalID int, now time.Time) (StageGate, error) {
	gate := StageGate{}

	var fullProposal models.FullProposal
	err := db.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&fullProposal).Error
	switch {
	case err == nil:
		gate.IsApproved = fullProposal.Status == ProposalStatusApproved
		gate.ReviewComments = fullProposal.ReviewComments
	case errors.Is(err, gorm.ErrRecordNotFound):
		// second stage not submitted; gate stays closed
	default:
		return gate, fmt.Errorf("failed to load full proposal: %w", err)
	}

	var count int64
	if err := db.Model(&models.FinalSubmission{}).
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Count(&count).Error; err != nil {
		return gate, fmt.Errorf("failed to check final submission: %w", err)
	}
	gate.HasSubmitted = count > 0

	applyDeadline(&gate, FinalSubmissionDeadline(), now)
	return gate, nil
}

func applyDeadline(gate *StageGate, deadline, now time.Time) {
	gate.IsWithinDeadline = now.Before(deadline)
	if gate.IsWithinDeadline {
		gate.DaysRemaining = int(deadline.Sub(now).Hours() / 24)
	}
}
