package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"
	"grant-portal-api/services"
	"grant-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateProposal handles the concept-note submission form (multipart).
// A valid concept note file is mandatory; staff submitters also attach a CV.
func CreateProposal(c *gin.Context) {
	userID, _ := c.Get("userID")

	projectTitle := utils.SanitizeInput(c.PostForm("project_title"))
	submitterType := utils.SanitizeInput(c.PostForm("submitter_type"))
	if projectTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project title is required"})
		return
	}
	if submitterType != models.SubmitterStaff && submitterType != models.SubmitterMasterStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Submitter type must be 'staff' or 'master_student'"})
		return
	}

	estimatedBudget, err := strconv.ParseFloat(c.PostForm("estimated_budget"), 64)
	if err != nil || estimatedBudget < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimated budget"})
		return
	}

	facultyID, err := strconv.Atoi(c.PostForm("faculty_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty"})
		return
	}
	departmentID, err := strconv.Atoi(c.PostForm("department_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department"})
		return
	}

	var faculty models.Faculty
	if err := config.DB.Where("faculty_id = ? AND delete_at IS NULL", facultyID).First(&faculty).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faculty not found"})
		return
	}
	var department models.Department
	if err := config.DB.Where("department_id = ? AND faculty_id = ? AND delete_at IS NULL",
		departmentID, facultyID).First(&department).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department not found in faculty"})
		return
	}

	// Validate files before any row is written.
	conceptNoteRule := utils.RuleConceptNote
	draftKey := "concept_note"
	if submitterType == models.SubmitterMasterStudent {
		conceptNoteRule = utils.RuleMastersConceptNote
		draftKey = "masters_concept_note"
	}

	conceptNote, err := c.FormFile("concept_note")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Concept note file is required"})
		return
	}
	if err := conceptNoteRule.Validate(conceptNote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cv *multipart.FileHeader
	if submitterType == models.SubmitterStaff {
		cv, err = c.FormFile("cv")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CV file is required for staff submissions"})
			return
		}
		if err := utils.RuleCV.Validate(cv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	proposal := models.Proposal{
		UserID:          userID.(int),
		FacultyID:       facultyID,
		DepartmentID:    departmentID,
		ProjectTitle:    projectTitle,
		SubmitterType:   submitterType,
		Status:          services.ProposalStatusSubmitted,
		EstimatedBudget: estimatedBudget,
		SubmittedAt:     &now,
		CreateAt:        &now,
		UpdateAt:        &now,
	}

	if err := config.DB.Create(&proposal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create proposal"})
		return
	}

	if _, err := storeProposalFile(c, user, &proposal, models.DocumentKindConceptNote, conceptNote); err != nil {
		config.DB.Delete(&proposal)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save concept note"})
		return
	}
	if cv != nil {
		if _, err := storeProposalFile(c, user, &proposal, models.DocumentKindCV, cv); err != nil {
			config.DB.Delete(&proposal)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save CV"})
			return
		}
	}

	history := models.ProposalStatusHistory{
		ProposalID: proposal.ProposalID,
		NewStatus:  services.ProposalStatusSubmitted,
		ChangedBy:  userID.(int),
		CreatedAt:  now,
	}
	config.DB.Create(&history)

	// Successful submit clears the autosaved draft.
	services.ClearDraft(config.DB, userID.(int), draftKey)

	config.DB.Preload("User").Preload("Faculty").Preload("Department").First(&proposal)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Proposal submitted successfully",
		"proposal": proposal,
	})
}

// GetMyProposals returns the authenticated researcher's proposals.
func GetMyProposals(c *gin.Context) {
	userID, _ := c.Get("userID")

	var proposals []models.Proposal
	query := config.DB.Preload("Faculty").Preload("Department").Preload("Award").
		Where("user_id = ? AND delete_at IS NULL", userID)

	if status := c.Query("status"); status != "" {
		if !services.IsValidProposalStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
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

// GetProposal returns a single proposal; owners see their own, admins see all.
func GetProposal(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var proposal models.Proposal
	query := config.DB.Preload("User").Preload("Faculty").Preload("Department").
		Preload("Award").Preload("FullProposal").Preload("FinalSubmission").
		Where("proposal_id = ? AND delete_at IS NULL", id)

	if roleID.(int) != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.First(&proposal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposal": proposal,
	})
}

// SaveProposalDraft upserts the autosaved form payload for a form key.
func SaveProposalDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	formKey := c.Param("form_key")

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Draft payload must be valid JSON"})
		return
	}

	draft, err := services.SaveDraft(config.DB, userID.(int), formKey, payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// GetProposalDraft returns the live autosaved payload, if any.
func GetProposalDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	formKey := c.Param("form_key")

	if !services.IsValidDraftKey(formKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown draft form key"})
		return
	}

	draft, err := services.GetDraft(config.DB, userID.(int), formKey)
	if err == services.ErrDraftNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "No draft saved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteProposalDraft discards the autosaved payload.
func DeleteProposalDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	formKey := c.Param("form_key")

	if !services.IsValidDraftKey(formKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown draft form key"})
		return
	}

	if err := services.ClearDraft(config.DB, userID.(int), formKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft cleared"})
}

// storeProposalFile saves an uploaded file under the user's folder and records
// the FileUpload + ProposalDocument rows. The file is unlinked if either row fails.
func storeProposalFile(c *gin.Context, user models.User, proposal *models.Proposal, kind string, file *multipart.FileHeader) (*models.FileUpload, error) {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}

	userFolder, err := utils.UserFolderPath(user, uploadPath)
	if err != nil {
		return nil, err
	}
	stageFolder, err := utils.StageFolderPath(userFolder, proposal.ProposalID, kind)
	if err != nil {
		return nil, err
	}

	storedName := utils.UniqueFilename(file.Filename)
	fullPath := filepath.Join(stageFolder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return nil, err
	}

	now := time.Now()
	fileUpload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		IsPublic:     false,
		UploadedBy:   user.UserID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := config.DB.Create(&fileUpload).Error; err != nil {
		os.Remove(fullPath)
		return nil, err
	}

	document := models.ProposalDocument{
		ProposalID:       proposal.ProposalID,
		FileID:           fileUpload.FileID,
		DocumentKind:     kind,
		UploadedBy:       user.UserID,
		OriginalFilename: file.Filename,
		StoredFilename:   storedName,
		UploadedAt:       &now,
		CreateAt:         &now,
		UpdateAt:         &now,
	}
	if err := config.DB.Create(&document).Error; err != nil {
		os.Remove(fullPath)
		config.DB.Delete(&fileUpload)
		return nil, err
	}

	return &fileUpload, nil
}
