package controllers

import (
	"net/http"
	"strconv"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"
	"grant-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const invitationTTL = 14 * 24 * time.Hour

// GetAllReviewers lists reviewer accounts with their active invitations.
func GetAllReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.Where("role_id = ? AND delete_at IS NULL", models.RoleReviewer).
		Order("user_lname ASC").
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	var invitations []models.ReviewerInvitation
	if err := config.DB.Where("delete_at IS NULL").
		Order("create_at DESC").
		Find(&invitations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	// Stale pending invitations read back as expired.
	now := time.Now()
	for i := range invitations {
		if invitations[i].IsExpired(now) {
			invitations[i].Status = models.InvitationExpired
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reviewers":   reviewers,
		"invitations": invitations,
		"total":       len(reviewers),
	})
}

// InviteReviewer creates a pending invitation and emails the accept link.
func InviteReviewer(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	var existingUser int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", req.Email).Count(&existingUser)
	if existingUser > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}

	var existingInvitation int64
	config.DB.Model(&models.ReviewerInvitation{}).
		Where("email = ? AND status = ? AND expires_at > ? AND delete_at IS NULL",
			req.Email, models.InvitationPending, time.Now()).
		Count(&existingInvitation)
	if existingInvitation > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A pending invitation already exists for this email"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	invitation := models.ReviewerInvitation{
		Email:     utils.SanitizeInput(req.Email),
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Token:     uuid.New().String(),
		Status:    models.InvitationPending,
		InvitedBy: userID.(int),
		ExpiresAt: now.Add(invitationTTL),
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	if err := services.SendReviewerInvitation(config.DB, &invitation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invitation created but email delivery failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Invitation sent",
		"invitation": invitation,
	})
}

// ResendReviewerInvitation re-sends a pending invitation with a fresh expiry.
func ResendReviewerInvitation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	var invitation models.ReviewerInvitation
	if err := config.DB.Where("invitation_id = ? AND delete_at IS NULL", id).First(&invitation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	if invitation.Status == models.InvitationAccepted || invitation.Status == models.InvitationAdded {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation has already been accepted"})
		return
	}

	now := time.Now()
	invitation.Status = models.InvitationPending
	invitation.ExpiresAt = now.Add(invitationTTL)
	invitation.ResendCount++
	if err := config.DB.Model(&invitation).Updates(map[string]interface{}{
		"status":       models.InvitationPending,
		"expires_at":   invitation.ExpiresAt,
		"resend_count": invitation.ResendCount,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh invitation"})
		return
	}

	if err := services.SendReviewerInvitation(config.DB, &invitation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invitation refreshed but email delivery failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation re-sent",
		"invitation": invitation,
	})
}

// AcceptInvitation is the public endpoint behind the emailed link. It creates
// the reviewer account with the supplied password.
func AcceptInvitation(c *gin.Context) {
	token := c.Param("token")

	var req struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.ReviewerInvitation
	if err := config.DB.Where("token = ? AND delete_at IS NULL", token).First(&invitation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	now := time.Now()
	if invitation.Status != models.InvitationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation is no longer open"})
		return
	}
	if invitation.IsExpired(now) {
		config.DB.Model(&invitation).Updates(map[string]interface{}{"status": models.InvitationExpired, "update_at": now})
		c.JSON(http.StatusGone, gin.H{"error": "Invitation has expired"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		UserFname: invitation.FirstName,
		UserLname: invitation.LastName,
		Email:     invitation.Email,
		Password:  hashed,
		RoleID:    models.RoleReviewer,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reviewer account"})
		return
	}

	config.DB.Model(&invitation).Updates(map[string]interface{}{
		"status":      models.InvitationAccepted,
		"accepted_at": now,
		"update_at":   now,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created, you can now sign in",
		"user":    user,
	})
}

// AddReviewerProfile creates a reviewer account directly without the
// invitation round-trip; credentials are emailed.
func AddReviewerProfile(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", req.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}

	temporaryPassword, err := utils.GenerateTemporaryPassword()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate credentials"})
		return
	}
	hashed, err := utils.HashPassword(temporaryPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()
	user := models.User{
		UserFname: utils.SanitizeInput(req.FirstName),
		UserLname: utils.SanitizeInput(req.LastName),
		Email:     utils.SanitizeInput(req.Email),
		Password:  hashed,
		RoleID:    models.RoleReviewer,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reviewer"})
		return
	}

	invitation := models.ReviewerInvitation{
		Email:     user.Email,
		FirstName: user.UserFname,
		LastName:  user.UserLname,
		Token:     uuid.New().String(),
		Status:    models.InvitationAdded,
		InvitedBy: userID.(int),
		ExpiresAt: now,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	config.DB.Create(&invitation)

	if err := services.SendResearcherCredentials(&user, temporaryPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reviewer created but credential email failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Reviewer added and credentials emailed",
		"reviewer": user,
	})
}

// DeleteReviewer soft-deletes a reviewer account. Reviews already completed
// are untouched; in-progress reviews must be reassigned first.
func DeleteReviewer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reviewer ID"})
		return
	}

	var reviewer models.User
	if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
		id, models.RoleReviewer).First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	var open int64
	config.DB.Model(&models.Review{}).
		Where("reviewer_id = ? AND status = ? AND superseded = ? AND delete_at IS NULL",
			id, services.ReviewStatusInProgress, false).
		Count(&open)
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewer has in-progress reviews; reassign them first"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&reviewer).Updates(map[string]interface{}{
		"delete_at": now,
		"is_active": false,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reviewer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reviewer removed"})
}
