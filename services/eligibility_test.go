package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageGateCanSubmit(t *testing.T) {
	tests := []struct {
		name string
		gate StageGate
		want bool
	}{
		{"all conditions hold", StageGate{IsApproved: true, HasSubmitted: false, IsWithinDeadline: true}, true},
		{"previous stage not approved", StageGate{IsApproved: false, IsWithinDeadline: true}, false},
		{"already submitted", StageGate{IsApproved: true, HasSubmitted: true, IsWithinDeadline: true}, false},
		{"deadline passed", StageGate{IsApproved: true, IsWithinDeadline: false}, false},
		{"everything wrong", StageGate{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.CanSubmit())
		})
	}
}

func TestStageGateDenialReason(t *testing.T) {
	open := StageGate{IsApproved: true, IsWithinDeadline: true}
	assert.Empty(t, open.DenialReason("full proposal"))

	notApproved := StageGate{IsWithinDeadline: true}
	assert.Contains(t, notApproved.DenialReason("full proposal"), "has not been approved")

	submitted := StageGate{IsApproved: true, HasSubmitted: true, IsWithinDeadline: true}
	assert.Contains(t, submitted.DenialReason("full proposal"), "already been submitted")

	late := StageGate{IsApproved: true}
	assert.Contains(t, late.DenialReason("final submission"), "deadline has passed")
}

func TestStageDeadlineEnvOverride(t *testing.T) {
	t.Setenv("FULL_PROPOSAL_DEADLINE", "2026-12-01")
	deadline := FullProposalDeadline()
	assert.Equal(t, 2026, deadline.Year())
	assert.Equal(t, time.December, deadline.Month())
	assert.Equal(t, 1, deadline.Day())
	// the named day is inclusive
	assert.Equal(t, 23, deadline.Hour())

	t.Setenv("FULL_PROPOSAL_DEADLINE", "not-a-date")
	assert.Equal(t, defaultFullProposalDeadline, FullProposalDeadline())

	t.Setenv("FINAL_SUBMISSION_DEADLINE", "")
	assert.Equal(t, defaultFinalSubmissionDeadline, FinalSubmissionDeadline())
}

func TestApplyDeadline(t *testing.T) {
	deadline := time.Date(2026, time.October, 31, 23, 59, 59, 0, time.Local)

	early := StageGate{}
	applyDeadline(&early, deadline, deadline.AddDate(0, 0, -10))
	assert.True(t, early.IsWithinDeadline)
	assert.Equal(t, 10, early.DaysRemaining)

	late := StageGate{}
	applyDeadline(&late, deadline, deadline.Add(time.Hour))
	assert.False(t, late.IsWithinDeadline)
	assert.Equal(t, 0, late.DaysRemaining)
}
