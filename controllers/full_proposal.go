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

// GetFullProposalStatus returns the second-stage eligibility gate for a
// proposal owned by the caller.
func GetFullProposalStatus(c *gin.Context) {
	proposal, ok := loadOwnedProposal(c)
	if !ok {
		return
	}

	gate, err := services.FullProposalGate(config.DB, proposal.ProposalID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate eligibility"})
		return
	}

	response := gin.H{
		"gate":       gate,
		"can_submit": gate.CanSubmit(),
		"deadline":   services.FullProposalDeadline().Format("2006-01-02"),
	}
	if reason := gate.DenialReason("full proposal"); reason != "" {
		response["denial_reason"] = reason
	}
	c.JSON(http.StatusOK, response)
}

// SubmitFullProposal uploads the second-stage document. The eligibility gate
// is re-checked server-side; the form is only a convenience.
func SubmitFullProposal(c *gin.Context) {
	proposal, ok := loadOwnedProposal(c)
	if !ok {
		return
	}

	gate, err := services.FullProposalGate(config.DB, proposal.ProposalID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate eligibility"})
		return
	}
	if !gate.CanSubmit() {
		c.JSON(http.StatusForbidden, gin.H{"error": gate.DenialReason("full proposal")})
		return
	}

	file, err := c.FormFile("full_proposal")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full proposal file is required"})
		return
	}
	if err := utils.RuleFullProposal.Validate(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, proposal.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	fileUpload, err := storeProposalFile(c, user, proposal, models.DocumentKindFullProposal, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save full proposal"})
		return
	}

	now := time.Now()
	fullProposal := models.FullProposal{
		ProposalID:  proposal.ProposalID,
		Status:      services.ProposalStatusSubmitted,
		FileID:      &fileUpload.FileID,
		SubmittedAt: &now,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&fullProposal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record full proposal"})
		return
	}

	services.ClearDraft(config.DB, proposal.UserID, "full_proposal")

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Full proposal submitted",
		"full_proposal": fullProposal,
	})
}

// GetFullProposalsForDecision lists second-stage submissions for admin review.
func GetFullProposalsForDecision(c *gin.Context) {
	var fullProposals []models.FullProposal
	query := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").Preload("File").
		Where("full_proposals.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("submitted_at ASC").Find(&fullProposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch full proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"full_proposals": fullProposals,
		"total":          len(fullProposals),
	})
}

// AssignFullProposalScore records the admin's 1-100 score for a submitted
// full proposal and moves it under review.
func AssignFullProposalScore(c *gin.Context) {
	fullProposal, ok := loadFullProposal(c)
	if !ok {
		return
	}

	var req struct {
		Score int `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Score < 1 || req.Score > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 100"})
		return
	}

	if fullProposal.Status != services.ProposalStatusSubmitted && fullProposal.Status != services.ProposalStatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Full proposal has already been decided"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(fullProposal).Updates(map[string]interface{}{
		"score":     req.Score,
		"status":    services.ProposalStatusUnderReview,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign score"})
		return
	}
	fullProposal.Score = &req.Score
	fullProposal.Status = services.ProposalStatusUnderReview

	c.JSON(http.StatusOK, gin.H{
		"message":       "Score assigned",
		"full_proposal": fullProposal,
	})
}

// EditFullProposalScore adjusts a score before the decision is rendered.
func EditFullProposalScore(c *gin.Context) {
	fullProposal, ok := loadFullProposal(c)
	if !ok {
		return
	}

	var req struct {
		Score int `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Score < 1 || req.Score > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 100"})
		return
	}

	if fullProposal.Status != services.ProposalStatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Score can only be edited while under review"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(fullProposal).Updates(map[string]interface{}{
		"score":     req.Score,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit score"})
		return
	}
	fullProposal.Score = &req.Score

	c.JSON(http.StatusOK, gin.H{
		"message":       "Score updated",
		"full_proposal": fullProposal,
	})
}

// UpdateFullProposalStatus renders the second-stage decision. Approval
// unlocks the final-submission stage.
func UpdateFullProposalStatus(c *gin.Context) {
	fullProposal, ok := loadFullProposal(c)
	if !ok {
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
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
	if fullProposal.Status != services.ProposalStatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Full proposal must be scored before a decision"})
		return
	}
	if fullProposal.Score == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A score must be assigned before the decision"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	if err := config.DB.Model(fullProposal).Updates(map[string]interface{}{
		"status":          req.Status,
		"review_comments": req.ReviewComments,
		"decided_by":      userID,
		"decided_at":      now,
		"update_at":       now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	fullProposal.Status = req.Status
	fullProposal.ReviewComments = &req.ReviewComments

	c.JSON(http.StatusOK, gin.H{
		"message":       "Decision recorded",
		"full_proposal": fullProposal,
	})
}

// NotifyFullProposalApplicants emails decided second-stage applicants.
func NotifyFullProposalApplicants(c *gin.Context) {
	var fullProposals []models.FullProposal
	if err := config.DB.Preload("Proposal").Preload("Proposal.User").
		Where("status IN ? AND delete_at IS NULL",
			[]string{services.ProposalStatusApproved, services.ProposalStatusRejected}).
		Find(&fullProposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch full proposals"})
		return
	}

	notified := 0
	for _, fp := range fullProposals {
		if fp.Proposal == nil {
			continue
		}
		applicant := fp.Proposal.User
		outcome := "approved"
		if fp.Status == services.ProposalStatusRejected {
			outcome = "rejected"
		}
		comments := ""
		if fp.ReviewComments != nil {
			comments = *fp.ReviewComments
		}
		body := fmt.Sprintf("<p>Dear %s,</p><p>Your full proposal for <b>%s</b> has been %s.</p><p>%s</p>",
			applicant.FullName(), fp.Proposal.ProjectTitle, outcome, comments)
		if err := config.SendMail([]string{applicant.Email},
			fmt.Sprintf("Full proposal decision for \"%s\"", fp.Proposal.ProjectTitle), body); err != nil {
			log.Printf("Failed to notify full proposal applicant %s: %v", applicant.Email, err)
			continue
		}
		services.CreateNotification(config.DB, applicant.UserID,
			"Full proposal decision",
			fmt.Sprintf("Your full proposal for \"%s\" has been %s.", fp.Proposal.ProjectTitle, outcome),
			"info", &fp.ProposalID)
		notified++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Notified %d applicant(s)", notified),
		"notified": notified,
	})
}

// loadOwnedProposal fetches the proposal in the path, restricted to the owner
// for non-admin callers.
func loadOwnedProposal(c *gin.Context) (*models.Proposal, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return nil, false
	}

	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var proposal models.Proposal
	query := config.DB.Where("proposal_id = ? AND delete_at IS NULL", id)
	if roleID.(int) != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return nil, false
	}
	return &proposal, true
}

func loadFullProposal(c *gin.Context) (*models.FullProposal, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid full proposal ID"})
		return nil, false
	}

	var fullProposal models.FullProposal
	if err := config.DB.Where("full_proposal_id = ? AND delete_at IS NULL", id).First(&fullProposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Full proposal not found"})
		return nil, false
	}
	return &fullProposal, true
}
