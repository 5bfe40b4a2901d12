package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"grant-portal-api/models"

	"gorm.io/gorm"
)

// Proposal lifecycle statuses (exact match with proposals.status).
const (
	ProposalStatusSubmitted         = "submitted"
	ProposalStatusUnderReview       = "under_review"
	ProposalStatusApproved          = "approved"
	ProposalStatusRejected          = "rejected"
	ProposalStatusRevisionRequested = "revision_requested"
)

// Award statuses.
const (
	AwardStatusPending  = "pending"
	AwardStatusApproved = "approved"
	AwardStatusDeclined = "declined"
)

// Review types and statuses.
const (
	ReviewTypeHuman          = "human"
	ReviewTypeAI             = "ai"
	ReviewTypeReconciliation = "reconciliation"

	ReviewStatusInProgress = "in_progress"
	ReviewStatusCompleted  = "completed"
	ReviewStatusOverdue    = "overdue"
)

// ErrInvalidTransition is returned when a proposal status change is not
// permitted by the lifecycle table.
var ErrInvalidTransition = errors.New("invalid proposal status transition")

// proposalTransitions is the full lifecycle table. A proposal enters as
// submitted; approved and rejected are terminal.
var proposalTransitions = map[string][]string{
	ProposalStatusSubmitted:         {ProposalStatusUnderReview},
	ProposalStatusUnderReview:       {ProposalStatusRevisionRequested, ProposalStatusApproved, ProposalStatusRejected},
	ProposalStatusRevisionRequested: {ProposalStatusApproved, ProposalStatusRejected},
}

// IsValidProposalStatus reports whether s is a known lifecycle status.
func IsValidProposalStatus(s string) bool {
	switch s {
	case ProposalStatusSubmitted, ProposalStatusUnderReview, ProposalStatusApproved,
		ProposalStatusRejected, ProposalStatusRevisionRequested:
		return true
	}
	return false
}

// CanTransitionProposal reports whether the lifecycle table permits from -> to.
func CanTransitionProposal(from, to string) bool {
	for _, next := range proposalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionProposal applies a guarded status change and appends a history row.
// The proposal row and the history row are written in one transaction.
func TransitionProposal(db *gorm.DB, proposal *models.Proposal, newStatus string, changedBy int, reason string) error {
	if !IsValidProposalStatus(newStatus) {
		return fmt.Errorf("%w: unknown status '%s'", ErrInvalidTransition, newStatus)
	}
	if !CanTransitionProposal(proposal.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, proposal.Status, newStatus)
	}

	oldStatus := proposal.Status
	now := time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(proposal).
			Updates(map[string]interface{}{"status": newStatus, "update_at": now}).Error; err != nil {
			return fmt.Errorf("failed to update proposal status: %w", err)
		}
		proposal.Status = newStatus
		proposal.UpdateAt = &now

		history := models.ProposalStatusHistory{
			ProposalID: proposal.ProposalID,
			OldStatus:  &oldStatus,
			NewStatus:  newStatus,
			ChangedBy:  changedBy,
			CreatedAt:  now,
		}
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			history.Reason = &trimmed
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
}

// NormalizeAwardStatus maps incoming decision vocabulary onto the canonical
// award statuses. The legacy 'rejected' spelling is accepted for declined.
func NormalizeAwardStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case AwardStatusApproved:
		return AwardStatusApproved, true
	case AwardStatusDeclined, "rejected":
		return AwardStatusDeclined, true
	case AwardStatusPending:
		return AwardStatusPending, true
	}
	return "", false
}

// SetProposalArchived toggles the orthogonal archive flag. Archiving requires
// a non-empty comment; unarchiving may omit it. Status is never touched.
func SetProposalArchived(db *gorm.DB, proposal *models.Proposal, archive bool, comment string, changedBy int) error {
	trimmed := strings.TrimSpace(comment)
	if archive && trimmed == "" {
		return errors.New("archive comment is required")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_archived": archive,
		"update_at":   now,
	}
	if archive {
		updates["archive_comment"] = trimmed
		updates["archived_by"] = changedBy
		updates["archived_at"] = now
	} else {
		if trimmed != "" {
			updates["archive_comment"] = trimmed
		}
		updates["archived_by"] = nil
		updates["archived_at"] = nil
	}

	if err := db.Model(proposal).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update archive flag: %w", err)
	}

	proposal.IsArchived = archive
	proposal.UpdateAt = &now
	if archive {
		proposal.ArchiveComment = &trimmed
		proposal.ArchivedBy = &changedBy
		proposal.ArchivedAt = &now
	} else {
		proposal.ArchivedBy = nil
		proposal.ArchivedAt = nil
	}
	return nil
}
