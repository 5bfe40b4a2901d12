package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"
	"grant-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetFinalSubmissionStatus returns the third-stage eligibility gate for a
// proposal owned by the caller.
func GetFinalSubmissionStatus(c *gin.Context) {
	proposal, ok := loadOwnedProposal(c)
	if !ok {
		return
	}

	gate, err := services.FinalSubmissionGate(config.DB, proposal.ProposalID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate eligibility"})
		return
	}

	response := gin.H{
		"gate":       gate,
		"can_submit": gate.CanSubmit(),
		"deadline":   services.FinalSubmissionDeadline().Format("2006-01-02"),
	}
	if reason := gate.DenialReason("final submission"); reason != "" {
		response["denial_reason"] = reason
	}
	c.JSON(http.StatusOK, response)
}

// SubmitFinalSubmission uploads the third-stage document behind the gate.
func SubmitFinalSubmission(c *gin.Context) {
	proposal, ok := loadOwnedProposal(c)
	if !ok {
		return
	}

	gate, err := services.FinalSubmissionGate(config.DB, proposal.ProposalID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate eligibility"})
		return
	}
	if !gate.CanSubmit() {
		c.JSON(http.StatusForbidden, gin.H{"error": gate.DenialReason("final submission")})
		return
	}

	file, err := c.FormFile("final_submission")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Final submission file is required"})
		return
	}
	if err := utils.RuleFinalSubmission.Validate(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, proposal.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	fileUpload, err := storeProposalFile(c, user, proposal, models.DocumentKindFinalSubmission, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save final submission"})
		return
	}

	now := time.Now()
	finalSubmission := models.FinalSubmission{
		ProposalID:  proposal.ProposalID,
		Status:      services.ProposalStatusSubmitted,
		FileID:      &fileUpload.FileID,
		SubmittedAt: &now,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&finalSubmission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record final submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Final submission received",
		"final_submission": finalSubmission,
	})
}

// GetFinalSubmissionsForDecision lists third-stage submissions for admins.
func GetFinalSubmissionsForDecision(c *gin.Context) {
	var finalSubmissions []models.FinalSubmission
	query := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").Preload("File").
		Where("final_submissions.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("submitted_at ASC").Find(&finalSubmissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch final submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"final_submissions": finalSubmissions,
		"total":             len(finalSubmissions),
	})
}

// UpdateFinalSubmissionStatus renders the third-stage decision.
func UpdateFinalSubmissionStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid final submission ID"})
		return
	}

	var finalSubmission models.FinalSubmission
	if err := config.DB.Where("final_submission_id = ? AND delete_at IS NULL", id).First(&finalSubmission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Final submission not found"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		Score          *int   `json:"score"`
		ReviewComments string `json:"review_comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Status != services.ProposalStatusApproved && req.Status != services.ProposalStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'approved' or 'rejected'"})
		return
	}
	req.ReviewComments = strings.TrimSpace(req.ReviewComments)
	if req.ReviewComments == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review comments are required"})
		return
	}
	if req.Score != nil && (*req.Score < 1 || *req.Score > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 100"})
		return
	}
	if finalSubmission.Status == services.ProposalStatusApproved || finalSubmission.Status == services.ProposalStatusRejected {
		c.JSON(http.StatusConflict, gin.H{"error": "Final submission has already been decided"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	updates := map[string]interface{}{
		"status":          req.Status,
		"review_comments": req.ReviewComments,
		"decided_by":      userID,
		"decided_at":      now,
		"update_at":       now,
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if err := config.DB.Model(&finalSubmission).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	finalSubmission.Status = req.Status
	finalSubmission.ReviewComments = &req.ReviewComments

	c.JSON(http.StatusOK, gin.H{
		"message":          "Decision recorded",
		"final_submission": finalSubmission,
	})
}

// NotifyFinalSubmissionApplicants emails decided third-stage applicants.
func NotifyFinalSubmissionApplicants(c *gin.Context) {
	var finalSubmissions []models.FinalSubmission
	if err := config.DB.Preload("Proposal").Preload("Proposal.User").
		Where("status IN ? AND delete_at IS NULL",
			[]string{services.ProposalStatusApproved, services.ProposalStatusRejected}).
		Find(&finalSubmissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch final submissions"})
		return
	}

	notified := 0
	for _, fs := range finalSubmissions {
		if fs.Proposal == nil {
			continue
		}
		applicant := fs.Proposal.User
		outcome := "approved"
		if fs.Status == services.ProposalStatusRejected {
			outcome = "rejected"
		}
		comments := ""
		if fs.ReviewComments != nil {
			comments = *fs.ReviewComments
		}
		body := fmt.Sprintf("<p>Dear %s,</p><p>Your final submission for <b>%s</b> has been %s.</p><p>%s</p>",
			applicant.FullName(), fs.Proposal.ProjectTitle, outcome, comments)
		if err := config.SendMail([]string{applicant.Email},
			fmt.Sprintf("Final submission decision for \"%s\"", fs.Proposal.ProjectTitle), body); err != nil {
			log.Printf("Failed to notify final submission applicant %s: %v", applicant.Email, err)
			continue
		}
		services.CreateNotification(config.DB, applicant.UserID,
			"Final submission decision",
			fmt.Sprintf("Your final submission for \"%s\" has been %s.", fs.Proposal.ProjectTitle, outcome),
			"info", &fs.ProposalID)
		notified++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Notified %d applicant(s)", notified),
		"notified": notified,
	})
}
