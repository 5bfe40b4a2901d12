package models

import "time"

// Award is the funding-decision record attached to a proposal. It opens as
// pending once review scores are aggregated and transitions exactly once on
// an admin decision; notifications may be re-sent afterwards.
type Award struct {
	AwardID           int        `gorm:"primaryKey;column:award_id" json:"award_id"`
	ProposalID        int        `gorm:"column:proposal_id" json:"proposal_id"`
	Status            string     `gorm:"column:status" json:"status"`
	FundingAmount     *float64   `gorm:"column:funding_amount" json:"funding_amount,omitempty"`
	FeedbackComments  *string    `gorm:"column:feedback_comments" json:"feedback_comments,omitempty"`
	FinalScore        *float64   `gorm:"column:final_score" json:"final_score,omitempty"`
	NotificationCount int        `gorm:"column:notification_count" json:"notification_count"`
	LastNotifiedAt    *time.Time `gorm:"column:last_notified_at" json:"last_notified_at,omitempty"`
	DecidedBy         *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt         *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreateAt          *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Proposal *Proposal `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
	Decider  *User     `gorm:"foreignKey:DecidedBy" json:"decider,omitempty"`
}

// TableName specifies the table name for Award.
func (Award) TableName() string {
	return "awards"
}
