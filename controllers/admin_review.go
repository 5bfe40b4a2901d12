package controllers

import (
	"net/http"
	"strconv"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
)

// AssignReviewers creates the first-round human and AI reviews for a
// submitted proposal and moves it under review.
func AssignReviewers(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req struct {
		ReviewerID int    `json:"reviewer_id"`
		DueDate    string `json:"due_date"` // 2006-01-02; defaults to 14 days out
		Auto       bool   `json:"auto"`
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

	reviewerID := req.ReviewerID
	if req.Auto {
		reviewer, err := services.AutoSelectReviewer(config.DB, &proposal)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		reviewerID = reviewer.UserID
	}
	if reviewerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reviewer must be selected"})
		return
	}

	dueDate := time.Now().AddDate(0, 0, 14)
	if req.DueDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date"})
			return
		}
		dueDate = parsed
	}

	userID, _ := c.Get("userID")
	reviews, err := services.AssignFirstRoundReviews(config.DB, &proposal, reviewerID, dueDate, userID.(int))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reviewers assigned",
		"reviews": reviews,
	})
}

// GetEligibleReviewers lists reviewers who may take a review on the given
// proposal, ordered by current load.
func GetEligibleReviewers(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var proposal models.Proposal
	if err := config.DB.Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	candidates, err := services.EligibleReviewers(config.DB, &proposal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch eligible reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviewers": candidates,
		"total":     len(candidates),
	})
}

// ReassignReview swaps the reviewer on an incomplete review. Scores already
// entered are preserved and the proposal's status never changes. With
// auto=true the system picks the lowest-loaded eligible reviewer.
func ReassignReview(c *gin.Context) {
	review, ok := loadAdminReview(c)
	if !ok {
		return
	}

	var req struct {
		ReviewerID int  `json:"reviewer_id"`
		Auto       bool `json:"auto"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reviewerID := req.ReviewerID
	if req.Auto {
		var proposal models.Proposal
		if err := config.DB.Where("proposal_id = ? AND delete_at IS NULL", review.ProposalID).First(&proposal).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
			return
		}
		reviewer, err := services.AutoSelectReviewer(config.DB, &proposal)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		reviewerID = reviewer.UserID
	}
	if reviewerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reviewer must be selected"})
		return
	}

	if err := services.ReassignReview(config.DB, review, reviewerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review reassigned",
		"review":  review,
	})
}

// GetProposalReviewDetails returns a proposal's reviews together with the
// per-criterion discrepancy breakdown across completed first-round reviews.
func GetProposalReviewDetails(c *gin.Context) {
	proposalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || proposalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var proposal models.Proposal
	if err := config.DB.Preload("User").Preload("Award").
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("proposal_id = ? AND delete_at IS NULL", proposalID).
		Order("review_round ASC, review_id ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	var completedFirstRound []models.Review
	for _, r := range reviews {
		if r.ReviewType != services.ReviewTypeReconciliation && r.Status == services.ReviewStatusCompleted {
			completedFirstRound = append(completedFirstRound, r)
		}
	}
	discrepancies := services.DetectDiscrepancies(completedFirstRound)

	c.JSON(http.StatusOK, gin.H{
		"proposal": proposal,
		"reviews":  reviews,
		"discrepancy_info": gin.H{
			"has_discrepancy": len(discrepancies) > 0,
			"threshold":       services.DiscrepancyThreshold,
			"criteria":        discrepancies,
		},
	})
}

func loadAdminReview(c *gin.Context) (*models.Review, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return nil, false
	}

	var review models.Review
	if err := config.DB.Where("review_id = ? AND delete_at IS NULL", id).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return nil, false
	}
	return &review, true
}
