package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID("conn")
		assert.True(t, strings.HasPrefix(id, "conn_"))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGenerateRecordingID(t *testing.T) {
	a := GenerateRecordingID()
	b := GenerateRecordingID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateUploadName(t *testing.T) {
	name := GenerateUploadName(".mp4")
	assert.True(t, strings.HasPrefix(name, "video-"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.NotContains(t, name, "/")

	bare := GenerateUploadName("")
	assert.NotContains(t, bare, ".")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "hello world", SanitizeString("hello\x00 world"))
	assert.Equal(t, "a\tb", SanitizeString("a\tb"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "lon...", TruncateString("longer text", 6))
	assert.Equal(t, "lo", TruncateString("longer", 2))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   \t"))
	assert.False(t, IsEmpty("x"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", FormatDuration(500*time.Millisecond))
	assert.Equal(t, "2.50s", FormatDuration(2500*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	parsed, err := ParseTimestamp(FormatTimestamp(now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(parsed))
}
