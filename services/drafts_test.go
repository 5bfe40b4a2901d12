package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDraftKey(t *testing.T) {
	assert.True(t, IsValidDraftKey("concept_note"))
	assert.True(t, IsValidDraftKey("masters_concept_note"))
	assert.True(t, IsValidDraftKey("full_proposal"))

	assert.False(t, IsValidDraftKey("final_submission"))
	assert.False(t, IsValidDraftKey(""))
	assert.False(t, IsValidDraftKey("Concept_Note"))
}

func TestSaveDraftRejectsBadInput(t *testing.T) {
	_, err := SaveDraft(nil, 1, "unknown_form", json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "unknown draft form key")

	_, err = SaveDraft(nil, 1, "concept_note", json.RawMessage(`{"title":`))
	assert.ErrorContains(t, err, "not valid JSON")
}
