package controllers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetProposalsForDecision lists proposals whose awards await or carry a
// funding decision.
func GetProposalsForDecision(c *gin.Context) {
	var awards []models.Award
	query := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").
		Where("awards.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		normalized, ok := services.NormalizeAwardStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid award status filter"})
			return
		}
		query = query.Where("status = ?", normalized)
	}

	if err := query.Order("create_at ASC").Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch awards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"awards": awards,
		"total":  len(awards),
	})
}

// DecideProposal records the one-shot admin funding decision for a proposal's
// pending award. Approval requires a funding amount; every decision requires
// feedback comments.
func DecideProposal(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req struct {
		Status           string   `json:"status" binding:"required"`
		FundingAmount    *float64 `json:"funding_amount"`
		FeedbackComments string   `json:"feedback_comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var proposal models.Proposal
	if err := config.DB.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	var award models.Award
	if err := config.DB.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&award).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No award is open for this proposal"})
		return
	}

	userID, _ := c.Get("userID")
	if err := services.DecideAward(config.DB, &award, &proposal, req.Status, req.FundingAmount, req.FeedbackComments, userID.(int)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Decision recorded",
		"award":    award,
		"proposal": proposal,
	})
}

// NotifyApplicants emails every decided, not-yet-notified-or-renotified
// applicant. Re-running re-sends decisions and bumps each award's counter.
func NotifyApplicants(c *gin.Context) {
	var req struct {
		ProposalIDs []int `json:"proposal_ids"` // empty means all decided awards
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	query := config.DB.Preload("Proposal").Preload("Proposal.User").
		Where("status IN ? AND delete_at IS NULL", []string{services.AwardStatusApproved, services.AwardStatusDeclined})
	if len(req.ProposalIDs) > 0 {
		query = query.Where("proposal_id IN ?", req.ProposalIDs)
	}

	var awards []models.Award
	if err := query.Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch awards"})
		return
	}

	notified := 0
	var failures []string
	for i := range awards {
		award := &awards[i]
		if award.Proposal == nil {
			continue
		}
		if err := services.NotifyDecision(config.DB, award, award.Proposal, &award.Proposal.User); err != nil {
			log.Printf("Failed to notify applicant for proposal %d: %v", award.ProposalID, err)
			failures = append(failures, fmt.Sprintf("proposal %d: %v", award.ProposalID, err))
			continue
		}
		notified++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Notified %d applicant(s)", notified),
		"notified": notified,
		"failed":   failures,
	})
}

// ExportDecisionsReport streams the decided awards as a CSV report.
func ExportDecisionsReport(c *gin.Context) {
	var awards []models.Award
	if err := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").
		Where("status IN ? AND delete_at IS NULL", []string{services.AwardStatusApproved, services.AwardStatusDeclined}).
		Order("decided_at ASC").
		Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch awards"})
		return
	}

	filename := fmt.Sprintf("decisions_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{
		"proposal_id", "project_title", "applicant", "faculty",
		"final_score", "decision", "funding_amount", "decided_at",
	})

	for _, award := range awards {
		if award.Proposal == nil {
			continue
		}
		finalScore := ""
		if award.FinalScore != nil {
			finalScore = strconv.FormatFloat(*award.FinalScore, 'f', 2, 64)
		}
		amount := ""
		if award.FundingAmount != nil {
			amount = strconv.FormatFloat(*award.FundingAmount, 'f', 2, 64)
		}
		decidedAt := ""
		if award.DecidedAt != nil {
			decidedAt = award.DecidedAt.Format("2006-01-02")
		}
		writer.Write([]string{
			strconv.Itoa(award.ProposalID),
			award.Proposal.ProjectTitle,
			award.Proposal.User.FullName(),
			award.Proposal.Faculty.FacultyName,
			finalScore,
			award.Status,
			amount,
			decidedAt,
		})
	}
}
