package ports

import (
	"context"
	"io"

	"camdeck/internal/core/domain"
)

// Broadcaster is the fan-out side of the push channel as seen by the command
// path. Implementations must deliver events to every currently subscribed
// observer in the order Broadcast is called.
type Broadcaster interface {
	Broadcast(event domain.Event)
}

// CameraService applies commands against the shared camera status and emits
// the resulting events through the Broadcaster.
type CameraService interface {
	Status(ctx context.Context) domain.CameraStatus
	Connect(ctx context.Context) (domain.CameraStatus, error)
	Disconnect(ctx context.Context) (domain.CameraStatus, error)
	StartRecording(ctx context.Context) (domain.RecordingID, error)
	StopRecording(ctx context.Context, id domain.RecordingID) error
	StartStreaming(ctx context.Context) (string, error)
	StopStreaming(ctx context.Context) error
	UpdateSettings(ctx context.Context, patch domain.StatusPatch) (domain.CameraStatus, error)
	Reset(ctx context.Context) (domain.CameraStatus, error)
	// ApplyUpdate feeds a client-originated status update through the same
	// single-writer gate as commands. rebroadcast, when non-nil, is invoked
	// inside the gate with a status_changed event holding the merged field
	// values; the caller supplies the self-excluded fan-out.
	ApplyUpdate(ctx context.Context, patch domain.StatusPatch, rebroadcast func(domain.Event)) domain.CameraStatus
}

type SaveRecordingInput struct {
	Title    string
	Duration int
	Size     int64
	File     io.Reader
	FileName string
}

type RecordingService interface {
	List(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error)
	Save(ctx context.Context, owner domain.UserID, in SaveRecordingInput) (*domain.Recording, error)
	Delete(ctx context.Context, owner domain.UserID, id domain.RecordingID) error
}
