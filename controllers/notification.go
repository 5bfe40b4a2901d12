package controllers

import (
	"net/http"
	"strconv"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the caller's in-app notifications, newest first.
// ?unread_only=true narrows to unread ones.
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	query := config.DB.Where("user_id = ?", userID).Order("create_at DESC")
	if c.Query("unread_only") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 && limit <= 200 {
		query = query.Limit(limit)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// GetUnreadNotificationCount returns how many unread notifications the caller has.
func GetUnreadNotificationCount(c *gin.Context) {
	userID, _ := c.Get("userID")

	var count int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notification models.Notification
	if err := config.DB.Where("notification_id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if !notification.IsRead {
		now := time.Now()
		if err := config.DB.Model(&notification).Updates(map[string]interface{}{
			"is_read":   true,
			"update_at": now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
			return
		}
		notification.IsRead = true
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// MarkAllNotificationsRead marks every unread notification of the caller as read.
func MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}
