package models

import "time"

// Reviewer invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
	InvitationRejected = "rejected"
	InvitationAdded    = "added"
)

// ReviewerInvitation is an email invitation for an external reviewer to join
// the portal, identified by an opaque token.
type ReviewerInvitation struct {
	InvitationID int        `gorm:"primaryKey;column:invitation_id" json:"invitation_id"`
	Email        string     `gorm:"column:email" json:"email"`
	FirstName    string     `gorm:"column:first_name" json:"first_name"`
	LastName     string     `gorm:"column:last_name" json:"last_name"`
	Token        string     `gorm:"column:token;unique" json:"-"`
	Status       string     `gorm:"column:status" json:"status"`
	InvitedBy    int        `gorm:"column:invited_by" json:"invited_by"`
	ResendCount  int        `gorm:"column:resend_count" json:"resend_count"`
	LastSentAt   *time.Time `gorm:"column:last_sent_at" json:"last_sent_at,omitempty"`
	ExpiresAt    time.Time  `gorm:"column:expires_at" json:"expires_at"`
	AcceptedAt   *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Inviter *User `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// TableName specifies the table name for ReviewerInvitation.
func (ReviewerInvitation) TableName() string {
	return "reviewer_invitations"
}

// IsExpired reports whether the invitation has passed its expiry without
// being accepted.
func (i *ReviewerInvitation) IsExpired(now time.Time) bool {
	return i.Status == InvitationPending && now.After(i.ExpiresAt)
}
