package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grant-portal-api/models"

	"github.com/google/uuid"
)

// UserFolderPath returns (and creates if missing) the upload folder for a user.
func UserFolderPath(user models.User, uploadRoot string) (string, error) {
	folder := fmt.Sprintf("user_%d_%s", user.UserID, sanitizeFolderName(user.UserLname))
	path := filepath.Join(uploadRoot, folder)
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create user folder: %w", err)
	}
	return path, nil
}

// StageFolderPath returns (and creates if missing) the per-proposal subfolder
// for one submission stage, e.g. proposal_42/concept_note.
func StageFolderPath(userFolder string, proposalID int, documentKind string) (string, error) {
	path := filepath.Join(userFolder, fmt.Sprintf("proposal_%d", proposalID), documentKind)
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create stage folder: %w", err)
	}
	return path, nil
}

// UniqueFilename keeps the original name but suffixes a short unique token so
// repeated uploads never collide.
func UniqueFilename(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	return fmt.Sprintf("%s_%s%s", sanitizeFolderName(base), uuid.New().String()[:8], ext)
}

// GenerateTemporaryPassword returns a random password for credential provisioning.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func sanitizeFolderName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_", ":", "_")
	name = replacer.Replace(name)
	if name == "" {
		name = "unnamed"
	}
	return name
}
