package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetRubric returns the fixed scoring rubric so clients never hard-code maxima.
func GetRubric(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"criteria":              services.RubricCriteria,
		"discrepancy_threshold": services.DiscrepancyThreshold,
	})
}

// GetMyReviews lists the reviews assigned to the authenticated reviewer.
func GetMyReviews(c *gin.Context) {
	userID, _ := c.Get("userID")

	var reviews []models.Review
	query := config.DB.Preload("Proposal").Preload("Proposal.User").Preload("Proposal.Faculty").
		Where("reviewer_id = ? AND superseded = ? AND delete_at IS NULL", userID, false)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("due_date ASC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetReview returns one review. Reviewers see only their own; admins see all.
func GetReview(c *gin.Context) {
	review, ok := loadReviewForCaller(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

type reviewScoresRequest struct {
	Scores   map[string]interface{} `json:"scores"`
	Comments *string                `json:"comments"`
}

// SaveReviewProgress stores a partial score/comment update without completing
// the review.
func SaveReviewProgress(c *gin.Context) {
	review, ok := loadReviewForCaller(c)
	if !ok {
		return
	}

	var req reviewScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := services.SaveReviewProgress(config.DB, review, coerceScores(req.Scores), req.Comments); err != nil {
		if errors.Is(err, services.ErrReviewImmutable) {
			c.JSON(http.StatusConflict, gin.H{"error": "Review has already been submitted"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Progress saved",
		"review":  review,
	})
}

// SubmitReview completes a review. Every criterion must be scored and
// comments provided; afterwards the proposal workflow advances.
func SubmitReview(c *gin.Context) {
	review, ok := loadReviewForCaller(c)
	if !ok {
		return
	}

	var req reviewScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Scores) > 0 || req.Comments != nil {
		if err := services.SaveReviewProgress(config.DB, review, coerceScores(req.Scores), req.Comments); err != nil {
			if errors.Is(err, services.ErrReviewImmutable) {
				c.JSON(http.StatusConflict, gin.H{"error": "Review has already been submitted"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	userID, _ := c.Get("userID")
	if err := services.SubmitReview(config.DB, review, userID.(int)); err != nil {
		if errors.Is(err, services.ErrReviewImmutable) {
			c.JSON(http.StatusConflict, gin.H{"error": "Review has already been submitted"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review submitted",
		"review":  review,
	})
}

// loadReviewForCaller fetches the review named in the path and enforces
// ownership for non-admin callers. It writes the error response itself.
func loadReviewForCaller(c *gin.Context) (*models.Review, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return nil, false
	}

	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var review models.Review
	query := config.DB.Preload("Proposal").Where("review_id = ? AND delete_at IS NULL", id)
	if roleID.(int) != models.RoleAdmin {
		query = query.Where("reviewer_id = ?", userID)
	}

	if err := query.First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return nil, false
	}
	return &review, true
}

// coerceScores turns JSON score values (numbers or strings) into the raw
// string form the scoring service parses. Anything else parses as 0.
func coerceScores(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case string:
			out[key] = strings.TrimSpace(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[key] = ""
		}
	}
	return out
}
