package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"grant-portal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openWorkflowDB gives each test its own sqlite database with the workflow
// tables migrated.
func openWorkflowDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "workflow.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Proposal{},
		&models.Review{},
		&models.Award{},
		&models.ProposalStatusHistory{},
	))
	return db
}

func seedReviewer(t *testing.T, db *gorm.DB, id int) models.User {
	t.Helper()

	u := models.User{
		UserID:    id,
		UserFname: "Reviewer",
		UserLname: fmt.Sprintf("Number%d", id),
		Email:     fmt.Sprintf("reviewer%d@example.edu", id),
		RoleID:    models.RoleReviewer,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedUnderReviewProposal(t *testing.T, db *gorm.DB) *models.Proposal {
	t.Helper()

	owner := models.User{
		UserID:    10,
		UserFname: "Paula",
		UserLname: "Ruiz",
		Email:     "p.ruiz@example.edu",
		RoleID:    models.RoleResearcher,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&owner).Error)

	p := models.Proposal{
		ProposalID:    100,
		UserID:        owner.UserID,
		FacultyID:     1,
		DepartmentID:  1,
		ProjectTitle:  "Groundwater sensing network",
		SubmitterType: models.SubmitterStaff,
		Status:        ProposalStatusUnderReview,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func reviewFixture(proposalID, reviewerID int, reviewType string, round int, status string, scores map[string]int) models.Review {
	r := models.Review{
		ProposalID:  proposalID,
		ReviewerID:  reviewerID,
		ReviewType:  reviewType,
		Status:      status,
		ReviewRound: round,
	}
	for key, value := range scores {
		r.SetCriterionScore(key, value)
	}
	comments := "assessed against the rubric"
	r.Comments = &comments
	if total, ok := ReviewTotal(&r); ok {
		r.TotalScore = &total
	}
	if status == ReviewStatusCompleted {
		now := time.Now()
		r.CompletedAt = &now
	}
	return r
}

// passingScores stays within every criterion bound and totals 80.
func passingScores() map[string]int {
	return map[string]int{
		"relevance":            8,
		"originality":          12,
		"clarity":              8,
		"methodology":          12,
		"literature_review":    8,
		"team_composition":     8,
		"feasibility":          8,
		"budget_justification": 8,
		"expected_outcomes":    4,
		"sustainability":       4,
	}
}

func TestSubmitReviewOpensAwardWhenScoresAgree(t *testing.T) {
	db := openWorkflowDB(t)
	proposal := seedUnderReviewProposal(t, db)
	seedReviewer(t, db, 11)
	seedReviewer(t, db, 12)

	done := reviewFixture(proposal.ProposalID, 11, ReviewTypeHuman, 1, ReviewStatusCompleted, passingScores())
	require.NoError(t, db.Create(&done).Error)
	last := reviewFixture(proposal.ProposalID, 12, ReviewTypeHuman, 1, ReviewStatusInProgress, passingScores())
	require.NoError(t, db.Create(&last).Error)

	require.NoError(t, SubmitReview(db, &last, 99))

	var award models.Award
	require.NoError(t, db.Where("proposal_id = ?", proposal.ProposalID).First(&award).Error)
	assert.Equal(t, AwardStatusPending, award.Status)
	require.NotNil(t, award.FinalScore)
	assert.InDelta(t, 80.0, *award.FinalScore, 0.001)

	// The funding decision, not the aggregation, moves the proposal on.
	var fromDB models.Proposal
	require.NoError(t, db.First(&fromDB, proposal.ProposalID).Error)
	assert.Equal(t, ProposalStatusUnderReview, fromDB.Status)
}

func TestSubmitReviewOpensReconciliationOnDiscrepancy(t *testing.T) {
	db := openWorkflowDB(t)
	proposal := seedUnderReviewProposal(t, db)
	seedReviewer(t, db, 11)
	seedReviewer(t, db, 12)
	spare := seedReviewer(t, db, 13)

	done := reviewFixture(proposal.ProposalID, 11, ReviewTypeHuman, 1, ReviewStatusCompleted, passingScores())
	require.NoError(t, db.Create(&done).Error)

	diverging := passingScores()
	diverging["literature_review"] = 2
	last := reviewFixture(proposal.ProposalID, 12, ReviewTypeHuman, 1, ReviewStatusInProgress, diverging)
	require.NoError(t, db.Create(&last).Error)

	require.NoError(t, SubmitReview(db, &last, 99))

	var recon models.Review
	require.NoError(t, db.Where("proposal_id = ? AND review_type = ?", proposal.ProposalID, ReviewTypeReconciliation).
		First(&recon).Error)
	assert.Equal(t, spare.UserID, recon.ReviewerID)
	assert.Equal(t, ReviewStatusInProgress, recon.Status)
	assert.Equal(t, 2, recon.ReviewRound)
	assert.False(t, recon.Superseded)

	var superseded int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("proposal_id = ? AND review_type = ? AND superseded = ?", proposal.ProposalID, ReviewTypeHuman, true).
		Count(&superseded).Error)
	assert.EqualValues(t, 2, superseded)

	var fromDB models.Proposal
	require.NoError(t, db.First(&fromDB, proposal.ProposalID).Error)
	assert.Equal(t, ProposalStatusRevisionRequested, fromDB.Status)

	var history models.ProposalStatusHistory
	require.NoError(t, db.Where("proposal_id = ? AND new_status = ?", proposal.ProposalID, ProposalStatusRevisionRequested).
		First(&history).Error)
	assert.Equal(t, 99, history.ChangedBy)

	var awards int64
	require.NoError(t, db.Model(&models.Award{}).Where("proposal_id = ?", proposal.ProposalID).Count(&awards).Error)
	assert.Zero(t, awards)
}

func TestSubmitReviewRollsBackWhenReconciliationUnstaffed(t *testing.T) {
	db := openWorkflowDB(t)
	proposal := seedUnderReviewProposal(t, db)
	seedReviewer(t, db, 11)
	seedReviewer(t, db, 12)

	done := reviewFixture(proposal.ProposalID, 11, ReviewTypeHuman, 1, ReviewStatusCompleted, passingScores())
	require.NoError(t, db.Create(&done).Error)

	diverging := passingScores()
	diverging["literature_review"] = 2
	last := reviewFixture(proposal.ProposalID, 12, ReviewTypeHuman, 1, ReviewStatusInProgress, diverging)
	require.NoError(t, db.Create(&last).Error)

	// Both reviewers already hold first-round reviews, so nobody can take
	// the reconciliation and the whole submission must roll back.
	err := SubmitReview(db, &last, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no eligible reviewers")
	assert.Equal(t, ReviewStatusInProgress, last.Status)

	var fromDB models.Review
	require.NoError(t, db.First(&fromDB, last.ReviewID).Error)
	assert.Equal(t, ReviewStatusInProgress, fromDB.Status)
	assert.Nil(t, fromDB.CompletedAt)

	var proposalDB models.Proposal
	require.NoError(t, db.First(&proposalDB, proposal.ProposalID).Error)
	assert.Equal(t, ProposalStatusUnderReview, proposalDB.Status)

	var recons int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("proposal_id = ? AND review_type = ?", proposal.ProposalID, ReviewTypeReconciliation).
		Count(&recons).Error)
	assert.Zero(t, recons)

	// Staffing up lets the same review be submitted again.
	seedReviewer(t, db, 13)
	require.NoError(t, SubmitReview(db, &last, 99))

	require.NoError(t, db.Model(&models.Review{}).
		Where("proposal_id = ? AND review_type = ?", proposal.ProposalID, ReviewTypeReconciliation).
		Count(&recons).Error)
	assert.EqualValues(t, 1, recons)

	require.NoError(t, db.First(&proposalDB, proposal.ProposalID).Error)
	assert.Equal(t, ProposalStatusRevisionRequested, proposalDB.Status)
}

func TestEvaluateProposalReviewsPrefersReconciliationTotal(t *testing.T) {
	db := openWorkflowDB(t)
	proposal := seedUnderReviewProposal(t, db)
	require.NoError(t, db.Model(proposal).Update("status", ProposalStatusRevisionRequested).Error)
	seedReviewer(t, db, 11)
	seedReviewer(t, db, 12)
	seedReviewer(t, db, 13)

	for _, reviewerID := range []int{11, 12} {
		r := reviewFixture(proposal.ProposalID, reviewerID, ReviewTypeHuman, 1, ReviewStatusCompleted, passingScores())
		r.Superseded = true
		require.NoError(t, db.Create(&r).Error)
	}

	settled := passingScores()
	settled["clarity"] = 5
	recon := reviewFixture(proposal.ProposalID, 13, ReviewTypeReconciliation, 2, ReviewStatusCompleted, settled)
	require.NoError(t, db.Create(&recon).Error)

	// A stale pending award from an earlier aggregation gets its score
	// refreshed rather than duplicated.
	stale := 50.0
	award := models.Award{ProposalID: proposal.ProposalID, Status: AwardStatusPending, FinalScore: &stale}
	require.NoError(t, db.Create(&award).Error)

	require.NoError(t, EvaluateProposalReviews(db, proposal.ProposalID, 99))

	var awards []models.Award
	require.NoError(t, db.Where("proposal_id = ?", proposal.ProposalID).Find(&awards).Error)
	require.Len(t, awards, 1)
	assert.Equal(t, AwardStatusPending, awards[0].Status)
	require.NotNil(t, awards[0].FinalScore)
	assert.InDelta(t, 77.0, *awards[0].FinalScore, 0.001)
}
