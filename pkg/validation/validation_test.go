package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.NoError(t, ValidateEmail("a.b+tag@sub.example.co"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Alice"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("x", 101)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.NoError(t, ValidatePassword("123456"))

	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("12345"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestValidateRecordingTitle(t *testing.T) {
	assert.NoError(t, ValidateRecordingTitle("Recording 2026-09-01 10:00:00"))
	assert.Error(t, ValidateRecordingTitle(""))
	assert.Error(t, ValidateRecordingTitle(strings.Repeat("x", 201)))
}

func TestValidateDurationAndSize(t *testing.T) {
	assert.NoError(t, ValidateDuration(0))
	assert.NoError(t, ValidateDuration(3600))
	assert.Error(t, ValidateDuration(-1))

	assert.NoError(t, ValidateSize(0))
	assert.NoError(t, ValidateSize(1<<30))
	assert.Error(t, ValidateSize(-1))
}
