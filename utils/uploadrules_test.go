package utils

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Header:   header,
		Size:     size,
	}
}

func TestUploadRuleAcceptsDocuments(t *testing.T) {
	tests := []struct {
		name string
		file *multipart.FileHeader
	}{
		{"pdf", fileHeader("note.pdf", "application/pdf", 1024)},
		{"doc", fileHeader("note.doc", "application/msword", 1024)},
		{"docx", fileHeader("note.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024)},
		{"content type with charset", fileHeader("note.pdf", "application/pdf; charset=binary", 1024)},
		{"octet-stream falls back to extension", fileHeader("note.pdf", "application/octet-stream", 1024)},
		{"missing content type falls back to extension", fileHeader("note.docx", "", 1024)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, RuleConceptNote.Validate(tt.file))
		})
	}
}

func TestUploadRuleRejectsWrongTypes(t *testing.T) {
	// a PNG is rejected for every form regardless of size
	for _, rule := range []UploadRule{RuleCV, RuleConceptNote, RuleMastersConceptNote, RuleFullProposal, RuleFinalSubmission} {
		err := rule.Validate(fileHeader("img.png", "image/png", 10))
		assert.ErrorContains(t, err, "not allowed", rule.Name)
	}

	// declared document type with a mismatched extension is still rejected
	err := RuleConceptNote.Validate(fileHeader("note.exe", "application/pdf", 10))
	assert.ErrorContains(t, err, "extension not allowed")

	// no file at all
	err = RuleConceptNote.Validate(nil)
	assert.ErrorContains(t, err, "no concept note file uploaded")
}

func TestUploadRuleCeilings(t *testing.T) {
	tests := []struct {
		rule  UploadRule
		maxMB int64
	}{
		{RuleCV, 2},
		{RuleConceptNote, 3},
		{RuleMastersConceptNote, 5},
		{RuleFullProposal, 10},
		{RuleFinalSubmission, 15},
	}
	for _, tt := range tests {
		t.Run(tt.rule.Name, func(t *testing.T) {
			assert.Equal(t, tt.maxMB, tt.rule.MaxMB())

			// exactly at the ceiling passes
			at := fileHeader("doc.pdf", "application/pdf", tt.rule.MaxBytes)
			assert.NoError(t, tt.rule.Validate(at))

			// one byte over fails, naming the exact ceiling
			over := fileHeader("doc.pdf", "application/pdf", tt.rule.MaxBytes+1)
			err := tt.rule.Validate(over)
			assert.ErrorContains(t, err, fmt.Sprintf("%dMB limit", tt.maxMB))
		})
	}
}
