package models

import "time"

// Submitter types accepted on concept-note submission.
const (
	SubmitterStaff         = "staff"
	SubmitterMasterStudent = "master_student"
)

type Proposal struct {
	ProposalID      int        `gorm:"primaryKey;column:proposal_id" json:"proposal_id"`
	UserID          int        `gorm:"column:user_id" json:"user_id"`
	FacultyID       int        `gorm:"column:faculty_id" json:"faculty_id"`
	DepartmentID    int        `gorm:"column:department_id" json:"department_id"`
	ProjectTitle    string     `gorm:"column:project_title" json:"project_title"`
	SubmitterType   string     `gorm:"column:submitter_type" json:"submitter_type"`
	Status          string     `gorm:"column:status" json:"status"`
	EstimatedBudget float64    `gorm:"column:estimated_budget" json:"estimated_budget"`
	IsArchived      bool       `gorm:"column:is_archived" json:"is_archived"`
	ArchiveComment  *string    `gorm:"column:archive_comment" json:"archive_comment,omitempty"`
	ArchivedBy      *int       `gorm:"column:archived_by" json:"archived_by,omitempty"`
	ArchivedAt      *time.Time `gorm:"column:archived_at" json:"archived_at,omitempty"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User            User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Faculty         Faculty          `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Department      Department       `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Reviews         []Review         `gorm:"foreignKey:ProposalID" json:"reviews,omitempty"`
	Award           *Award           `gorm:"foreignKey:ProposalID" json:"award,omitempty"`
	FullProposal    *FullProposal    `gorm:"foreignKey:ProposalID" json:"full_proposal,omitempty"`
	FinalSubmission *FinalSubmission `gorm:"foreignKey:ProposalID" json:"final_submission,omitempty"`
}

// ProposalStatusHistory tracks every lifecycle transition applied to a proposal.
type ProposalStatusHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProposalID int       `gorm:"column:proposal_id" json:"proposal_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Reason     *string   `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Proposal) TableName() string {
	return "proposals"
}

func (ProposalStatusHistory) TableName() string {
	return "proposal_status_history"
}
