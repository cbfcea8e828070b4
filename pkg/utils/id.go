package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateID generates a random ID with prefix
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// GenerateUserID generates a unique user ID
func GenerateUserID() string {
	return uuid.New().String()
}

// GenerateRecordingID generates a unique recording ID
func GenerateRecordingID() string {
	return uuid.New().String()
}

// GenerateConnectionID generates a unique push-channel connection ID
func GenerateConnectionID() string {
	return GenerateID("conn")
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	timestamp := time.Now().UnixNano()
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", timestamp, hex.EncodeToString(b))
}

// GenerateUploadName derives a unique on-disk name from an uploaded file's
// original name, keeping its extension.
func GenerateUploadName(ext string) string {
	return fmt.Sprintf("video-%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}
