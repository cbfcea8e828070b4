package domain

type CameraMode string

const (
	ModeVideo     CameraMode = "video"
	ModePhoto     CameraMode = "photo"
	ModeTimelapse CameraMode = "timelapse"
	ModeBurst     CameraMode = "burst"
)

type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution1440p Resolution = "1440p"
	Resolution4K    Resolution = "4K"
)

// CameraStatus is the single server-owned status record. It is always passed
// by value; the authoritative copy lives inside the status store.
type CameraStatus struct {
	Connected  bool       `json:"connected"`
	Recording  bool       `json:"recording"`
	Streaming  bool       `json:"streaming"`
	Battery    int        `json:"battery"`
	Storage    int        `json:"storage"`
	Mode       CameraMode `json:"mode"`
	Resolution Resolution `json:"resolution"`
	FPS        int        `json:"fps"`
}

// StatusPatch is a partial CameraStatus. Nil fields are left untouched when
// the patch is applied.
type StatusPatch struct {
	Connected  *bool       `json:"connected,omitempty"`
	Recording  *bool       `json:"recording,omitempty"`
	Streaming  *bool       `json:"streaming,omitempty"`
	Battery    *int        `json:"battery,omitempty"`
	Storage    *int        `json:"storage,omitempty"`
	Mode       *CameraMode `json:"mode,omitempty"`
	Resolution *Resolution `json:"resolution,omitempty"`
	FPS        *int        `json:"fps,omitempty"`
}

// IsZero reports whether the patch names no fields at all.
func (p StatusPatch) IsZero() bool {
	return p.Connected == nil && p.Recording == nil && p.Streaming == nil &&
		p.Battery == nil && p.Storage == nil && p.Mode == nil &&
		p.Resolution == nil && p.FPS == nil
}

func (m CameraMode) Valid() bool {
	switch m {
	case ModeVideo, ModePhoto, ModeTimelapse, ModeBurst:
		return true
	}
	return false
}

func (r Resolution) Valid() bool {
	switch r {
	case Resolution720p, Resolution1080p, Resolution1440p, Resolution4K:
		return true
	}
	return false
}

// DefaultStatus returns the status a camera reports right after process start:
// disconnected, empty gauges, video defaults.
func DefaultStatus() CameraStatus {
	return CameraStatus{
		Connected:  false,
		Recording:  false,
		Streaming:  false,
		Battery:    0,
		Storage:    0,
		Mode:       ModeVideo,
		Resolution: Resolution1080p,
		FPS:        30,
	}
}

// ConnectedStatusPatch is the status the simulated camera hands back after a
// successful handshake.
func ConnectedStatusPatch() StatusPatch {
	connected := true
	battery := 85
	storage := 45
	mode := ModeVideo
	resolution := Resolution1080p
	fps := 30
	return StatusPatch{
		Connected:  &connected,
		Battery:    &battery,
		Storage:    &storage,
		Mode:       &mode,
		Resolution: &resolution,
		FPS:        &fps,
	}
}
