package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := User{UserFname: "Ada", UserLname: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())
}

func TestReviewCriterionScores(t *testing.T) {
	r := Review{}

	assert.True(t, r.SetCriterionScore("methodology", 12))
	assert.False(t, r.SetCriterionScore("nonsense", 1))

	score := r.CriterionScore("methodology")
	if assert.NotNil(t, score) {
		assert.Equal(t, 12, *score)
	}
	assert.Nil(t, r.CriterionScore("relevance"))
	assert.Nil(t, r.CriterionScore("nonsense"))
}

func TestInvitationIsExpired(t *testing.T) {
	now := time.Now()

	pending := ReviewerInvitation{Status: InvitationPending, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, pending.IsExpired(now))

	stale := ReviewerInvitation{Status: InvitationPending, ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, stale.IsExpired(now))

	// acceptance freezes the invitation; expiry no longer applies
	accepted := ReviewerInvitation{Status: InvitationAccepted, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, accepted.IsExpired(now))
}
