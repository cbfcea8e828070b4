// Package client implements the observer side of the push channel: a pure
// reducer that folds broadcast events into a local view of the camera, and a
// websocket client that keeps such a view live against a running server.
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"camdeck/internal/core/domain"
)

// RecordingEntry is the reducer's view of a recording in progress or recently
// stopped.
type RecordingEntry struct {
	ID        domain.RecordingID `json:"id"`
	Title     string             `json:"title"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// State is the local replica an observer maintains. It is a plain value:
// Reduce never mutates its input, it returns the successor state.
type State struct {
	Status     domain.CameraStatus `json:"status"`
	StreamURL  *string             `json:"stream_url"`
	Recordings []RecordingEntry    `json:"recordings"`

	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// InitialState returns the replica before the first snapshot arrives.
func InitialState() State {
	return State{
		Status:  domain.DefaultStatus(),
		Loading: true,
	}
}

// RawEvent is an event as read off the wire, payload still undecoded.
type RawEvent struct {
	Kind    domain.EventKind `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

// Reduce folds one event into the state. Unknown event kinds leave the state
// unchanged rather than failing: an older client must survive a newer server.
func Reduce(s State, ev RawEvent) (State, error) {
	switch ev.Kind {
	case domain.EventStatusChanged:
		var patch domain.StatusPatch
		if err := json.Unmarshal(ev.Payload, &patch); err != nil {
			return s, fmt.Errorf("decode status patch: %w", err)
		}
		return applyStatus(s, patch), nil

	case domain.EventStreamURLSet:
		var p domain.StreamURLPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return s, fmt.Errorf("decode stream url: %w", err)
		}
		next := s
		next.StreamURL = p.URL
		return next, nil

	case domain.EventRecordingStarted:
		var p domain.RecordingStartedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return s, fmt.Errorf("decode recording: %w", err)
		}
		return addRecording(s, p), nil

	case domain.EventRecordingStopped:
		var p domain.RecordingStoppedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return s, fmt.Errorf("decode recording stop: %w", err)
		}
		return stopRecording(s, p.ID), nil
	}

	return s, nil
}

// Loaded marks the initial snapshot as applied.
func Loaded(s State) State {
	next := s
	next.Loading = false
	next.Error = ""
	return next
}

// Fail records a transport or command failure without touching the replica.
func Fail(s State, msg string) State {
	next := s
	next.Loading = false
	next.Error = msg
	return next
}

func applyStatus(s State, patch domain.StatusPatch) State {
	next := s
	st := s.Status
	if patch.Connected != nil {
		st.Connected = *patch.Connected
	}
	if patch.Recording != nil {
		st.Recording = *patch.Recording
	}
	if patch.Streaming != nil {
		st.Streaming = *patch.Streaming
	}
	if patch.Battery != nil {
		st.Battery = *patch.Battery
	}
	if patch.Storage != nil {
		st.Storage = *patch.Storage
	}
	if patch.Mode != nil {
		st.Mode = *patch.Mode
	}
	if patch.Resolution != nil {
		st.Resolution = *patch.Resolution
	}
	if patch.FPS != nil {
		st.FPS = *patch.FPS
	}
	next.Status = st
	return next
}

// addRecording prepends the new entry. A redelivered start for an id already
// present is a no-op, so replay cannot duplicate list entries.
func addRecording(s State, p domain.RecordingStartedPayload) State {
	for _, r := range s.Recordings {
		if r.ID == p.ID {
			return s
		}
	}
	next := s
	next.Recordings = make([]RecordingEntry, 0, len(s.Recordings)+1)
	next.Recordings = append(next.Recordings, RecordingEntry{
		ID:        p.ID,
		Title:     p.Title,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	})
	next.Recordings = append(next.Recordings, s.Recordings...)
	return next
}

func stopRecording(s State, id domain.RecordingID) State {
	next := s
	next.Recordings = make([]RecordingEntry, len(s.Recordings))
	copy(next.Recordings, s.Recordings)
	for i := range next.Recordings {
		if next.Recordings[i].ID == id {
			next.Recordings[i].Status = "stopped"
		}
	}
	return next
}
