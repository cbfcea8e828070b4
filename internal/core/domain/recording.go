package domain

import "time"

type RecordingID string

// Recording is a persisted recording metadata row. Owned by exactly one user,
// created by a save command, deleted by an owner-scoped delete, never mutated
// otherwise.
type Recording struct {
	ID        RecordingID `json:"id"`
	Title     string      `json:"title"`
	Filename  string      `json:"filename"`
	Duration  int         `json:"duration"` // seconds
	Size      int64       `json:"size"`     // bytes
	OwnerID   UserID      `json:"owner_id"`
	CreatedAt time.Time   `json:"created_at"`
}
