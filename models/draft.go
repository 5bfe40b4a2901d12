package models

import "time"

// FormDraft holds an autosaved submission-form payload per user and form key.
// Drafts expire after a TTL and are cleared on successful submit.
type FormDraft struct {
	DraftID   int        `gorm:"primaryKey;column:draft_id" json:"draft_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	FormKey   string     `gorm:"column:form_key" json:"form_key"`
	Payload   string     `gorm:"column:payload;type:text" json:"payload"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName specifies the table name for FormDraft.
func (FormDraft) TableName() string {
	return "form_drafts"
}
