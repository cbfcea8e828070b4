package domain

import "time"

// EventKind names the broadcast payload variants. Events are ephemeral: they
// exist only in flight between the command path and subscribed observers.
type EventKind string

const (
	EventStatusChanged    EventKind = "status_changed"
	EventStreamURLSet     EventKind = "stream_url_set"
	EventRecordingStarted EventKind = "recording_started"
	EventRecordingStopped EventKind = "recording_stopped"
)

type Event struct {
	Kind    EventKind   `json:"type"`
	Payload interface{} `json:"payload"`
}

// StreamURLPayload carries the stream location; a nil URL clears it.
type StreamURLPayload struct {
	URL *string `json:"url"`
}

// RecordingStartedPayload describes the recording an active capture belongs
// to. Status is always "recording" when emitted.
type RecordingStartedPayload struct {
	ID        RecordingID `json:"id"`
	Title     string      `json:"title"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type RecordingStoppedPayload struct {
	ID RecordingID `json:"id"`
}

func StatusChangedEvent(patch StatusPatch) Event {
	return Event{Kind: EventStatusChanged, Payload: patch}
}

func StreamURLEvent(url *string) Event {
	return Event{Kind: EventStreamURLSet, Payload: StreamURLPayload{URL: url}}
}

func RecordingStartedEvent(id RecordingID, title string, createdAt time.Time) Event {
	return Event{Kind: EventRecordingStarted, Payload: RecordingStartedPayload{
		ID:        id,
		Title:     title,
		Status:    "recording",
		CreatedAt: createdAt,
	}}
}

func RecordingStoppedEvent(id RecordingID) Event {
	return Event{Kind: EventRecordingStopped, Payload: RecordingStoppedPayload{ID: id}}
}
