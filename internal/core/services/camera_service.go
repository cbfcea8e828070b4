package services

import (
	"context"
	"sync"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"
	"camdeck/pkg/utils"

	"go.uber.org/zap"
)

// cameraService owns the command path. A single mutex serializes every
// "apply patch, then broadcast" pair so that no observer can see an event for
// a status it could not yet read back, and no two commands interleave their
// patches.
type cameraService struct {
	store       *StatusStore
	broadcaster ports.Broadcaster

	connectDelay time.Duration
	streamURL    string

	mu       sync.Mutex
	activeID domain.RecordingID

	logger *zap.SugaredLogger
}

func NewCameraService(
	store *StatusStore,
	broadcaster ports.Broadcaster,
	connectDelay time.Duration,
	streamURL string,
	logger *zap.SugaredLogger,
) ports.CameraService {
	return &cameraService{
		store:        store,
		broadcaster:  broadcaster,
		connectDelay: connectDelay,
		streamURL:    streamURL,
		logger:       logger,
	}
}

func (s *cameraService) Status(ctx context.Context) domain.CameraStatus {
	return s.store.Get()
}

// Connect simulates the hardware handshake: it completes only after the
// configured delay. A caller that goes away mid-delay gets no state change
// and no broadcast.
func (s *cameraService) Connect(ctx context.Context) (domain.CameraStatus, error) {
	if s.connectDelay > 0 {
		timer := time.NewTimer(s.connectDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.logger.Infow("connect cancelled during handshake delay", "error", ctx.Err())
			return domain.CameraStatus{}, ctx.Err()
		case <-timer.C:
		}
	}

	patch := domain.ConnectedStatusPatch()

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.store.Apply(patch)
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Infow("camera connected", "battery", status.Battery, "storage", status.Storage)
	return status, nil
}

func (s *cameraService) Disconnect(ctx context.Context) (domain.CameraStatus, error) {
	off := false
	patch := domain.StatusPatch{Connected: &off, Recording: &off, Streaming: &off}

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.store.Apply(patch)
	s.activeID = ""
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Info("camera disconnected")
	return status, nil
}

func (s *cameraService) StartRecording(ctx context.Context) (domain.RecordingID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Get().Connected {
		return "", domain.ErrCameraNotConnected
	}

	id := domain.RecordingID(utils.GenerateRecordingID())
	now := time.Now()
	title := "Recording " + now.Format("2006-01-02 15:04:05")

	on := true
	patch := domain.StatusPatch{Recording: &on}
	s.store.Apply(patch)
	s.activeID = id

	s.broadcaster.Broadcast(domain.RecordingStartedEvent(id, title, now))
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Infow("recording started", "recording_id", id)
	return id, nil
}

func (s *cameraService) StopRecording(ctx context.Context, id domain.RecordingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.activeID
	}
	if id == "" {
		// The dashboard never tracked an id for stop; mint one so observers
		// still see a stop marker, matching the original wire behavior.
		id = domain.RecordingID(utils.GenerateRecordingID())
	}

	off := false
	patch := domain.StatusPatch{Recording: &off}
	s.store.Apply(patch)
	s.activeID = ""

	s.broadcaster.Broadcast(domain.RecordingStoppedEvent(id))
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Infow("recording stopped", "recording_id", id)
	return nil
}

func (s *cameraService) StartStreaming(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Get().Connected {
		return "", domain.ErrCameraNotConnected
	}

	on := true
	patch := domain.StatusPatch{Streaming: &on}
	s.store.Apply(patch)

	url := s.streamURL
	s.broadcaster.Broadcast(domain.StreamURLEvent(&url))
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Infow("streaming started", "url", url)
	return url, nil
}

func (s *cameraService) StopStreaming(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	off := false
	patch := domain.StatusPatch{Streaming: &off}
	s.store.Apply(patch)

	s.broadcaster.Broadcast(domain.StreamURLEvent(nil))
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Info("streaming stopped")
	return nil
}

func (s *cameraService) UpdateSettings(ctx context.Context, patch domain.StatusPatch) (domain.CameraStatus, error) {
	// Settings only: connection and capture flags travel through their own
	// commands.
	patch.Connected = nil
	patch.Recording = nil
	patch.Streaming = nil
	patch.Battery = nil
	patch.Storage = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.store.Apply(patch)
	s.broadcaster.Broadcast(domain.StatusChangedEvent(patch))

	s.logger.Infow("settings updated",
		"mode", status.Mode,
		"resolution", status.Resolution,
		"fps", status.FPS,
	)
	return status, nil
}

func (s *cameraService) Reset(ctx context.Context) (domain.CameraStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.store.Reset()
	s.activeID = ""
	s.broadcaster.Broadcast(domain.StatusChangedEvent(fullPatch(status)))

	s.logger.Info("camera status reset to defaults")
	return status, nil
}

func (s *cameraService) ApplyUpdate(ctx context.Context, patch domain.StatusPatch, rebroadcast func(domain.Event)) domain.CameraStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.store.Apply(patch)
	if rebroadcast != nil {
		// The rebroadcast runs inside the gate and carries the values the
		// store actually kept, not the raw inbound patch.
		rebroadcast(domain.StatusChangedEvent(appliedFields(patch, status)))
	}
	return status
}

// appliedFields re-points every field the inbound patch named at the value
// the status holds after the merge. Clamped or rejected values go out as what
// the server kept.
func appliedFields(patch domain.StatusPatch, st domain.CameraStatus) domain.StatusPatch {
	var out domain.StatusPatch
	if patch.Connected != nil {
		out.Connected = &st.Connected
	}
	if patch.Recording != nil {
		out.Recording = &st.Recording
	}
	if patch.Streaming != nil {
		out.Streaming = &st.Streaming
	}
	if patch.Battery != nil {
		out.Battery = &st.Battery
	}
	if patch.Storage != nil {
		out.Storage = &st.Storage
	}
	if patch.Mode != nil {
		out.Mode = &st.Mode
	}
	if patch.Resolution != nil {
		out.Resolution = &st.Resolution
	}
	if patch.FPS != nil {
		out.FPS = &st.FPS
	}
	return out
}

// fullPatch converts a complete status into a patch naming every field, for
// broadcasts that carry the whole record.
func fullPatch(st domain.CameraStatus) domain.StatusPatch {
	return domain.StatusPatch{
		Connected:  &st.Connected,
		Recording:  &st.Recording,
		Streaming:  &st.Streaming,
		Battery:    &st.Battery,
		Storage:    &st.Storage,
		Mode:       &st.Mode,
		Resolution: &st.Resolution,
		FPS:        &st.FPS,
	}
}
