package models

import "time"

// FileUpload represents the file_uploads table
type FileUpload struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	IsPublic     bool       `gorm:"column:is_public" json:"is_public"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// Document kinds attached to a proposal.
const (
	DocumentKindCV              = "cv"
	DocumentKindConceptNote     = "concept_note"
	DocumentKindFullProposal    = "full_proposal"
	DocumentKindFinalSubmission = "final_submission"
)

// ProposalDocument links an uploaded file to a proposal under a document kind.
type ProposalDocument struct {
	DocumentID       int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	ProposalID       int        `gorm:"column:proposal_id" json:"proposal_id"`
	FileID           int        `gorm:"column:file_id" json:"file_id"`
	DocumentKind     string     `gorm:"column:document_kind" json:"document_kind"`
	UploadedBy       int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	OriginalFilename string     `gorm:"column:original_filename" json:"original_filename"`
	StoredFilename   string     `gorm:"column:stored_filename" json:"stored_filename"`
	UploadedAt       *time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// TableName overrides
func (FileUpload) TableName() string {
	return "file_uploads"
}

func (ProposalDocument) TableName() string {
	return "proposal_documents"
}

func (f *FileUpload) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}
