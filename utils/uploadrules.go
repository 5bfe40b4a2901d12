package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Document MIME types accepted for every submission form.
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UploadRule is a parameterized validator for one upload form: the shared
// document MIME allow-list plus a per-form size ceiling.
type UploadRule struct {
	Name     string
	MaxBytes int64
}

// Upload rules per form, ceilings as published to applicants.
var (
	RuleCV                 = UploadRule{Name: "CV", MaxBytes: 2 * 1024 * 1024}
	RuleConceptNote        = UploadRule{Name: "concept note", MaxBytes: 3 * 1024 * 1024}
	RuleMastersConceptNote = UploadRule{Name: "master's concept note", MaxBytes: 5 * 1024 * 1024}
	RuleFullProposal       = UploadRule{Name: "full proposal", MaxBytes: 10 * 1024 * 1024}
	RuleFinalSubmission    = UploadRule{Name: "final submission", MaxBytes: 15 * 1024 * 1024}
)

// MaxMB returns the ceiling in whole megabytes for error messages.
func (r UploadRule) MaxMB() int64 {
	return r.MaxBytes / (1024 * 1024)
}

// Validate checks a multipart file against the rule. Type is judged from the
// declared Content-Type with the file extension as fallback; size violations
// report the exact ceiling.
func (r UploadRule) Validate(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("no %s file uploaded", r.Name)
	}

	contentType := strings.TrimSpace(strings.Split(file.Header.Get("Content-Type"), ";")[0])
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = allowedExtensions[ext]
	}
	if !allowedDocumentTypes[contentType] {
		return fmt.Errorf("file type not allowed for %s: only PDF and Word documents are accepted", r.Name)
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("file extension not allowed for %s: only .pdf, .doc and .docx are accepted", r.Name)
	}

	if file.Size > r.MaxBytes {
		return fmt.Errorf("%s file exceeds the %dMB limit", r.Name, r.MaxMB())
	}
	return nil
}
