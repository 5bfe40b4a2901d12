package controllers

import (
	"net/http"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetFacultySubmissionAnalytics breaks submissions down per faculty with a
// status distribution per row.
func GetFacultySubmissionAnalytics(c *gin.Context) {
	type facultyRow struct {
		FacultyID         int    `json:"faculty_id"`
		FacultyName       string `json:"faculty_name"`
		TotalSubmissions  int    `json:"total_submissions"`
		Approved          int    `json:"approved"`
		Rejected          int    `json:"rejected"`
		UnderReview       int    `json:"under_review"`
		RevisionRequested int    `json:"revision_requested"`
	}

	var rows []facultyRow
	err := config.DB.Model(&models.Faculty{}).
		Select(`faculties.faculty_id, faculties.faculty_name,
			COUNT(proposals.proposal_id) AS total_submissions,
			SUM(CASE WHEN proposals.status = 'approved' THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN proposals.status = 'rejected' THEN 1 ELSE 0 END) AS rejected,
			SUM(CASE WHEN proposals.status = 'under_review' THEN 1 ELSE 0 END) AS under_review,
			SUM(CASE WHEN proposals.status = 'revision_requested' THEN 1 ELSE 0 END) AS revision_requested`).
		Joins("LEFT JOIN proposals ON proposals.faculty_id = faculties.faculty_id AND proposals.delete_at IS NULL AND proposals.is_archived = false").
		Where("faculties.delete_at IS NULL").
		Group("faculties.faculty_id, faculties.faculty_name").
		Order("total_submissions DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submission analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"faculties": rows,
		"total":     len(rows),
	})
}

// GetApprovedAwardAnalytics returns the approved awards with their count and
// total approved budget.
func GetApprovedAwardAnalytics(c *gin.Context) {
	var awards []models.Award
	if err := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").
		Where("status = ? AND delete_at IS NULL", services.AwardStatusApproved).
		Order("decided_at DESC").
		Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approved awards"})
		return
	}

	var totalBudget float64
	for _, award := range awards {
		if award.FundingAmount != nil {
			totalBudget += *award.FundingAmount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"awards":       awards,
		"total":        len(awards),
		"total_budget": totalBudget,
	})
}

// GetApprovedFullProposalAnalytics lists full proposals that passed the second
// stage, with scores.
func GetApprovedFullProposalAnalytics(c *gin.Context) {
	var fullProposals []models.FullProposal
	if err := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").
		Where("status = ? AND delete_at IS NULL", services.ProposalStatusApproved).
		Order("decided_at DESC").
		Find(&fullProposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approved full proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"full_proposals": fullProposals,
		"total":          len(fullProposals),
	})
}
