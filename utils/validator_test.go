package utils

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("researcher@university.edu"))
	assert.True(t, ValidateEmail("first.last+tag@dept.university.ac.uk"))

	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("@university.edu"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("longenough")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short")
	assert.False(t, ok)
	assert.Contains(t, msg, "8 characters")
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "hello", SanitizeInput("he\x00llo"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestUniqueFilename(t *testing.T) {
	a := UniqueFilename("concept note.pdf")
	b := UniqueFilename("concept note.pdf")

	assert.NotEqual(t, a, b)
	assert.Equal(t, ".pdf", filepath.Ext(a))
	assert.True(t, strings.HasPrefix(a, "concept_note_"))
	assert.NotContains(t, a, " ")
}

func TestGenerateTemporaryPassword(t *testing.T) {
	p1, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	p2, err := GenerateTemporaryPassword()
	require.NoError(t, err)

	assert.Len(t, p1, 12)
	assert.NotEqual(t, p1, p2)
}
