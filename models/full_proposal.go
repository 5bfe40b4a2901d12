package models

import "time"

// FullProposal is the second-stage document submitted after concept-note approval.
type FullProposal struct {
	FullProposalID int        `gorm:"primaryKey;column:full_proposal_id" json:"full_proposal_id"`
	ProposalID     int        `gorm:"column:proposal_id" json:"proposal_id"`
	Status         string     `gorm:"column:status" json:"status"`
	Score          *int       `gorm:"column:score" json:"score,omitempty"`
	ReviewComments *string    `gorm:"column:review_comments" json:"review_comments,omitempty"`
	FileID         *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedBy      *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Proposal *Proposal   `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
	File     *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// FinalSubmission is the third-stage document submitted after full-proposal approval.
type FinalSubmission struct {
	FinalSubmissionID int        `gorm:"primaryKey;column:final_submission_id" json:"final_submission_id"`
	ProposalID        int        `gorm:"column:proposal_id" json:"proposal_id"`
	Status            string     `gorm:"column:status" json:"status"`
	Score             *int       `gorm:"column:score" json:"score,omitempty"`
	ReviewComments    *string    `gorm:"column:review_comments" json:"review_comments,omitempty"`
	FileID            *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	SubmittedAt       *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedBy         *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt         *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreateAt          *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Proposal *Proposal   `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
	File     *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

// TableName overrides
func (FullProposal) TableName() string {
	return "full_proposals"
}

func (FinalSubmission) TableName() string {
	return "final_submissions"
}
