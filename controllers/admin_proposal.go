package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetAdminProposals lists proposals for the admin views. Archived proposals
// are excluded unless include_archived=true is passed.
func GetAdminProposals(c *gin.Context) {
	var proposals []models.Proposal
	query := config.DB.Preload("User").Preload("Faculty").Preload("Department").
		Preload("Award").
		Where("proposals.delete_at IS NULL")

	if c.Query("include_archived") != "true" {
		query = query.Where("is_archived = ?", false)
	}

	if status := c.Query("status"); status != "" {
		if !services.IsValidProposalStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	if faculty := c.Query("faculty_id"); faculty != "" {
		query = query.Where("faculty_id = ?", faculty)
	}

	if submitter := c.Query("submitter_type"); submitter != "" {
		query = query.Where("submitter_type = ?", submitter)
	}

	if err := query.Order("submitted_at DESC").Find(&proposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// ToggleProposalArchive archives or unarchives a proposal. Archiving requires
// a comment; proposals are never hard-deleted.
func ToggleProposalArchive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proposal ID"})
		return
	}

	var req struct {
		Archive bool   `json:"archive"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var proposal models.Proposal
	if err := config.DB.Where("proposal_id = ? AND delete_at IS NULL", id).First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	if proposal.IsArchived == req.Archive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Proposal is already in the requested archive state"})
		return
	}

	userID, _ := c.Get("userID")
	if err := services.SetProposalArchived(config.DB, &proposal, req.Archive, req.Comment, userID.(int)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := "unarchived"
	if req.Archive {
		action = "archived"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Proposal " + action,
		"proposal": proposal,
	})
}

// GetFacultiesWithProposals lists faculties together with their proposal counts.
func GetFacultiesWithProposals(c *gin.Context) {
	type facultyRow struct {
		FacultyID     int    `json:"faculty_id"`
		FacultyName   string `json:"faculty_name"`
		ProposalCount int    `json:"proposal_count"`
	}

	var rows []facultyRow
	err := config.DB.Model(&models.Faculty{}).
		Select("faculties.faculty_id, faculties.faculty_name, COUNT(proposals.proposal_id) AS proposal_count").
		Joins("JOIN proposals ON proposals.faculty_id = faculties.faculty_id AND proposals.delete_at IS NULL AND proposals.is_archived = false").
		Where("faculties.delete_at IS NULL").
		Group("faculties.faculty_id, faculties.faculty_name").
		Order("faculties.faculty_name ASC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch faculties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"faculties": rows,
		"total":     len(rows),
	})
}

// GetProposalStatusHistory returns the audit trail of lifecycle transitions.
func GetProposalStatusHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var history []models.ProposalStatusHistory
	if err := config.DB.Where("proposal_id = ?", id).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"total":   len(history),
	})
}
