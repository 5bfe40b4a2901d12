package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grant-portal-api/models"

	"gorm.io/gorm"
)

// DraftTTL is how long an autosaved form draft survives without updates.
const DraftTTL = 14 * 24 * time.Hour

// ErrDraftNotFound is returned when no live draft exists for the key.
var ErrDraftNotFound = errors.New("draft not found")

// Form keys accepted for draft autosave.
var draftFormKeys = map[string]bool{
	"concept_note":         true,
	"masters_concept_note": true,
	"full_proposal":        true,
}

// IsValidDraftKey reports whether the form key is known.
func IsValidDraftKey(key string) bool {
	return draftFormKeys[key]
}

// SaveDraft upserts the draft payload for (user, form key) and refreshes its TTL.
func SaveDraft(db *gorm.DB, userID int, formKey string, payload json.RawMessage) (*models.FormDraft, error) {
	if !IsValidDraftKey(formKey) {
		return nil, fmt.Errorf("unknown draft form key '%s'", formKey)
	}
	if !json.Valid(payload) {
		return nil, errors.New("draft payload is not valid JSON")
	}

	now := time.Now()
	expires := now.Add(DraftTTL)

	var draft models.FormDraft
	err := db.Where("user_id = ? AND form_key = ?", userID, formKey).First(&draft).Error
	switch {
	case err == nil:
		if err := db.Model(&draft).Updates(map[string]interface{}{
			"payload":    string(payload),
			"expires_at": expires,
			"update_at":  now,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update draft: %w", err)
		}
		draft.Payload = string(payload)
		draft.ExpiresAt = expires
		draft.UpdateAt = &now
		return &draft, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		draft = models.FormDraft{
			UserID:    userID,
			FormKey:   formKey,
			Payload:   string(payload),
			ExpiresAt: expires,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		if err := db.Create(&draft).Error; err != nil {
			return nil, fmt.Errorf("failed to create draft: %w", err)
		}
		return &draft, nil
	default:
		return nil, fmt.Errorf("failed to look up draft: %w", err)
	}
}

// GetDraft returns the live draft for (user, form key). Expired drafts are
// deleted on read and reported as missing.
func GetDraft(db *gorm.DB, userID int, formKey string) (*models.FormDraft, error) {
	var draft models.FormDraft
	err := db.Where("user_id = ? AND form_key = ?", userID, formKey).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	if time.Now().After(draft.ExpiresAt) {
		if err := db.Delete(&draft).Error; err != nil {
			return nil, fmt.Errorf("failed to clear expired draft: %w", err)
		}
		return nil, ErrDraftNotFound
	}
	return &draft, nil
}

// ClearDraft removes the draft for (user, form key), typically after a
// successful submission. Missing drafts are not an error.
func ClearDraft(db *gorm.DB, userID int, formKey string) error {
	if err := db.Where("user_id = ? AND form_key = ?", userID, formKey).
		Delete(&models.FormDraft{}).Error; err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
