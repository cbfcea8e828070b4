package client

import (
	"encoding/json"
	"testing"
	"time"

	"camdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawEvent(t *testing.T, ev domain.Event) RawEvent {
	t.Helper()
	payload, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	return RawEvent{Kind: ev.Kind, Payload: payload}
}

func TestReduceStatusChanged(t *testing.T) {
	s := InitialState()

	next, err := Reduce(s, rawEvent(t, domain.StatusChangedEvent(domain.ConnectedStatusPatch())))
	require.NoError(t, err)

	assert.True(t, next.Status.Connected)
	assert.Equal(t, 85, next.Status.Battery)
	assert.Equal(t, 45, next.Status.Storage)
	// Input state is untouched.
	assert.False(t, s.Status.Connected)
}

func TestReducePartialPatchLeavesOtherFields(t *testing.T) {
	s := InitialState()
	s.Status.Battery = 70

	fps := 120
	next, err := Reduce(s, rawEvent(t, domain.StatusChangedEvent(domain.StatusPatch{FPS: &fps})))
	require.NoError(t, err)

	assert.Equal(t, 120, next.Status.FPS)
	assert.Equal(t, 70, next.Status.Battery)
}

func TestReduceStreamURL(t *testing.T) {
	s := InitialState()

	url := "http://localhost:5000/stream"
	next, err := Reduce(s, rawEvent(t, domain.StreamURLEvent(&url)))
	require.NoError(t, err)
	require.NotNil(t, next.StreamURL)
	assert.Equal(t, url, *next.StreamURL)

	cleared, err := Reduce(next, rawEvent(t, domain.StreamURLEvent(nil)))
	require.NoError(t, err)
	assert.Nil(t, cleared.StreamURL)
}

func TestReduceRecordingStartedPrepends(t *testing.T) {
	s := InitialState()
	now := time.Now()

	next, err := Reduce(s, rawEvent(t, domain.RecordingStartedEvent("r1", "Recording A", now)))
	require.NoError(t, err)
	next, err = Reduce(next, rawEvent(t, domain.RecordingStartedEvent("r2", "Recording B", now)))
	require.NoError(t, err)

	require.Len(t, next.Recordings, 2)
	assert.Equal(t, domain.RecordingID("r2"), next.Recordings[0].ID)
	assert.Equal(t, domain.RecordingID("r1"), next.Recordings[1].ID)
	assert.Equal(t, "recording", next.Recordings[0].Status)
}

func TestReduceRecordingStartedIsIdempotent(t *testing.T) {
	s := InitialState()
	ev := rawEvent(t, domain.RecordingStartedEvent("r1", "Recording A", time.Now()))

	next, err := Reduce(s, ev)
	require.NoError(t, err)
	// Redelivery of the same start must not duplicate the entry.
	next, err = Reduce(next, ev)
	require.NoError(t, err)

	assert.Len(t, next.Recordings, 1)
}

func TestReduceRecordingStopped(t *testing.T) {
	s := InitialState()

	next, err := Reduce(s, rawEvent(t, domain.RecordingStartedEvent("r1", "Recording A", time.Now())))
	require.NoError(t, err)
	next, err = Reduce(next, rawEvent(t, domain.RecordingStoppedEvent("r1")))
	require.NoError(t, err)

	require.Len(t, next.Recordings, 1)
	assert.Equal(t, "stopped", next.Recordings[0].Status)
}

func TestReduceUnknownKindIsNoop(t *testing.T) {
	s := InitialState()
	s.Status.Battery = 55

	next, err := Reduce(s, RawEvent{Kind: "firmware_update", Payload: json.RawMessage(`{"x":1}`)})
	require.NoError(t, err)
	assert.Equal(t, s, next)
}

func TestReduceMalformedPayload(t *testing.T) {
	s := InitialState()

	_, err := Reduce(s, RawEvent{Kind: domain.EventStatusChanged, Payload: json.RawMessage(`"nope"`)})
	assert.Error(t, err)
}

func TestLoadedAndFail(t *testing.T) {
	s := InitialState()
	assert.True(t, s.Loading)

	loaded := Loaded(s)
	assert.False(t, loaded.Loading)
	assert.Empty(t, loaded.Error)

	failed := Fail(loaded, "connection lost")
	assert.Equal(t, "connection lost", failed.Error)
	// The replica itself survives a failure untouched.
	assert.Equal(t, loaded.Status, failed.Status)
}

func TestOrderedFoldMatchesServerSequence(t *testing.T) {
	// Two observers folding the same event sequence converge on the same state.
	events := []RawEvent{
		rawEvent(t, domain.StatusChangedEvent(domain.ConnectedStatusPatch())),
		rawEvent(t, domain.RecordingStartedEvent("r1", "Recording A", time.Unix(100, 0))),
		rawEvent(t, domain.StatusChangedEvent(domain.StatusPatch{Recording: func() *bool { b := true; return &b }()})),
		rawEvent(t, domain.RecordingStoppedEvent("r1")),
		rawEvent(t, domain.StatusChangedEvent(domain.StatusPatch{Recording: func() *bool { b := false; return &b }()})),
	}

	fold := func() State {
		s := InitialState()
		for _, ev := range events {
			var err error
			s, err = Reduce(s, ev)
			require.NoError(t, err)
		}
		return s
	}

	a, b := fold(), fold()
	assert.Equal(t, a, b)
	assert.True(t, a.Status.Connected)
	assert.False(t, a.Status.Recording)
	require.Len(t, a.Recordings, 1)
	assert.Equal(t, "stopped", a.Recordings[0].Status)
}
