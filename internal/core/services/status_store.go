package services

import (
	"sync"

	"camdeck/internal/core/domain"
)

const (
	minGauge = 0
	maxGauge = 100
	minFPS   = 1
	maxFPS   = 240
)

// StatusStore owns the single camera status record. Get returns a snapshot by
// value, never the live record. Apply never fails: out-of-range gauges are
// clamped to their declared domain and unknown enum values are dropped, the
// permissive behavior expected of a status mirror.
type StatusStore struct {
	mu     sync.RWMutex
	status domain.CameraStatus
}

func NewStatusStore() *StatusStore {
	return &StatusStore{status: domain.DefaultStatus()}
}

func (s *StatusStore) Get() domain.CameraStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Apply atomically merges the set fields of patch into the current record and
// returns the new snapshot.
func (s *StatusStore) Apply(patch domain.StatusPatch) domain.CameraStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Connected != nil {
		s.status.Connected = *patch.Connected
	}
	if patch.Recording != nil {
		s.status.Recording = *patch.Recording
	}
	if patch.Streaming != nil {
		s.status.Streaming = *patch.Streaming
	}
	if patch.Battery != nil {
		s.status.Battery = clamp(*patch.Battery, minGauge, maxGauge)
	}
	if patch.Storage != nil {
		s.status.Storage = clamp(*patch.Storage, minGauge, maxGauge)
	}
	if patch.Mode != nil && patch.Mode.Valid() {
		s.status.Mode = *patch.Mode
	}
	if patch.Resolution != nil && patch.Resolution.Valid() {
		s.status.Resolution = *patch.Resolution
	}
	if patch.FPS != nil {
		s.status.FPS = clamp(*patch.FPS, minFPS, maxFPS)
	}

	return s.status
}

// Reset restores process-start defaults and returns the new snapshot.
func (s *StatusStore) Reset() domain.CameraStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = domain.DefaultStatus()
	return s.status
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
