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
)

func loadResearcher(c *gin.Context) (*models.User, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid researcher ID"})
		return nil, false
	}

	var researcher models.User
	if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
		id, models.RoleResearcher).First(&researcher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Researcher not found"})
		return nil, false
	}
	return &researcher, true
}

func issueCredentials(c *gin.Context, researcher *models.User, message string) {
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

	now := time.Now()
	if err := config.DB.Model(researcher).Updates(map[string]interface{}{
		"password":  hashed,
		"is_active": true,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store credentials"})
		return
	}

	if err := services.SendResearcherCredentials(researcher, temporaryPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Credentials stored but email delivery failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"email":   researcher.Email,
	})
}

// SendResearcherCredentials provisions a temporary password for a researcher
// account and emails it. The stored hash is replaced.
func SendResearcherCredentials(c *gin.Context) {
	researcher, ok := loadResearcher(c)
	if !ok {
		return
	}
	issueCredentials(c, researcher, "Credentials emailed to researcher")
}

// ResendResearcherCredentials regenerates the temporary password and re-sends
// it. The previous temporary password stops working.
func ResendResearcherCredentials(c *gin.Context) {
	researcher, ok := loadResearcher(c)
	if !ok {
		return
	}
	issueCredentials(c, researcher, "Credentials regenerated and re-sent")
}
