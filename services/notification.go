package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"grant-portal-api/config"
	"grant-portal-api/models"

	"gorm.io/gorm"
)

// CreateNotification inserts an in-app notification for a user.
func CreateNotification(db *gorm.DB, userID int, title, message, notifType string, proposalID *int) error {
	n := models.Notification{
		UserID:   uint(userID),
		Title:    title,
		Message:  message,
		Type:     notifType,
		CreateAt: time.Now(),
	}
	if proposalID != nil {
		pid := uint(*proposalID)
		n.RelatedProposalID = &pid
	}
	if err := db.Create(&n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyDecision emails an applicant about a decided award, records an in-app
// notification, and bumps the award's notification counter. Calling it again
// re-sends the same decision; the counter tracks how many times.
func NotifyDecision(db *gorm.DB, award *models.Award, proposal *models.Proposal, applicant *models.User) error {
	if award.Status == AwardStatusPending {
		return fmt.Errorf("award %d has no decision to notify", award.AwardID)
	}

	subject := fmt.Sprintf("Funding decision for \"%s\"", proposal.ProjectTitle)
	outcome := "approved for funding"
	notifType := "success"
	if award.Status == AwardStatusDeclined {
		outcome = "not selected for funding"
		notifType = "warning"
	}

	feedback := ""
	if award.FeedbackComments != nil {
		feedback = *award.FeedbackComments
	}
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your research proposal <b>%s</b> has been %s.</p><p>%s</p><p>%s</p>",
		applicant.FullName(), proposal.ProjectTitle, outcome, feedback, portalFooter())

	if err := config.SendMail([]string{applicant.Email}, subject, body); err != nil {
		return fmt.Errorf("failed to email applicant %s: %w", applicant.Email, err)
	}

	if err := CreateNotification(db, applicant.UserID, subject,
		fmt.Sprintf("Your proposal \"%s\" has been %s.", proposal.ProjectTitle, outcome),
		notifType, &proposal.ProposalID); err != nil {
		// the email went out; log and keep going
		log.Printf("Warning: in-app notification failed for user %d: %v", applicant.UserID, err)
	}

	now := time.Now()
	if err := db.Model(award).Updates(map[string]interface{}{
		"notification_count": gorm.Expr("notification_count + 1"),
		"last_notified_at":   now,
		"update_at":          now,
	}).Error; err != nil {
		return fmt.Errorf("failed to update notification counter: %w", err)
	}
	award.NotificationCount++
	award.LastNotifiedAt = &now
	return nil
}

// SendReviewerInvitation emails the invitation link and stamps the send.
func SendReviewerInvitation(db *gorm.DB, invitation *models.ReviewerInvitation) error {
	link := fmt.Sprintf("%s/invitations/%s/accept", portalBaseURL(), invitation.Token)
	body := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>You have been invited to join the research grant portal as a reviewer.</p>"+
			"<p><a href=\"%s\">Accept the invitation</a> before %s.</p><p>%s</p>",
		invitation.FirstName, invitation.LastName, link,
		invitation.ExpiresAt.Format("2 January 2006"), portalFooter())

	if err := config.SendMail([]string{invitation.Email}, "Reviewer invitation", body); err != nil {
		return fmt.Errorf("failed to email invitation: %w", err)
	}

	now := time.Now()
	if err := db.Model(invitation).Updates(map[string]interface{}{
		"resend_count": invitation.ResendCount,
		"last_sent_at": now,
		"update_at":    now,
	}).Error; err != nil {
		return fmt.Errorf("failed to stamp invitation send: %w", err)
	}
	invitation.LastSentAt = &now
	return nil
}

// SendResearcherCredentials emails a freshly generated temporary password.
func SendResearcherCredentials(user *models.User, temporaryPassword string) error {
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>An account has been prepared for you on the research grant portal.</p>"+
			"<p>Email: <b>%s</b><br>Temporary password: <b>%s</b></p>"+
			"<p>Please sign in at %s and change your password.</p><p>%s</p>",
		user.FullName(), user.Email, temporaryPassword, portalBaseURL(), portalFooter())

	if err := config.SendMail([]string{user.Email}, "Your research grant portal account", body); err != nil {
		return fmt.Errorf("failed to email credentials: %w", err)
	}
	return nil
}

func portalBaseURL() string {
	if base := os.Getenv("PORTAL_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

func portalFooter() string {
	return "Regards,<br>Office of Research Affairs"
}
