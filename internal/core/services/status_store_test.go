package services

import (
	"sync"
	"testing"

	"camdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int                              { return &v }
func boolPtr(v bool) *bool                           { return &v }
func modePtr(v domain.CameraMode) *domain.CameraMode { return &v }
func resPtr(v domain.Resolution) *domain.Resolution  { return &v }

func TestStatusStoreDefaults(t *testing.T) {
	store := NewStatusStore()

	status := store.Get()
	assert.False(t, status.Connected)
	assert.False(t, status.Recording)
	assert.False(t, status.Streaming)
	assert.Equal(t, 0, status.Battery)
	assert.Equal(t, 0, status.Storage)
	assert.Equal(t, domain.ModeVideo, status.Mode)
	assert.Equal(t, domain.Resolution1080p, status.Resolution)
	assert.Equal(t, 30, status.FPS)
}

func TestStatusStoreApplyMergesOnlySetFields(t *testing.T) {
	store := NewStatusStore()

	status := store.Apply(domain.StatusPatch{
		Connected: boolPtr(true),
		Battery:   intPtr(85),
	})

	assert.True(t, status.Connected)
	assert.Equal(t, 85, status.Battery)
	// Untouched fields keep their defaults.
	assert.Equal(t, domain.ModeVideo, status.Mode)
	assert.Equal(t, 30, status.FPS)
}

func TestStatusStoreClampsGauges(t *testing.T) {
	store := NewStatusStore()

	status := store.Apply(domain.StatusPatch{
		Battery: intPtr(150),
		Storage: intPtr(-20),
		FPS:     intPtr(0),
	})

	assert.Equal(t, 100, status.Battery)
	assert.Equal(t, 0, status.Storage)
	assert.Equal(t, 1, status.FPS)

	status = store.Apply(domain.StatusPatch{FPS: intPtr(10000)})
	assert.Equal(t, 240, status.FPS)
}

func TestStatusStoreDropsInvalidEnums(t *testing.T) {
	store := NewStatusStore()

	status := store.Apply(domain.StatusPatch{
		Mode:       modePtr(domain.CameraMode("8mm")),
		Resolution: resPtr(domain.Resolution("potato")),
	})

	assert.Equal(t, domain.ModeVideo, status.Mode)
	assert.Equal(t, domain.Resolution1080p, status.Resolution)

	status = store.Apply(domain.StatusPatch{
		Mode:       modePtr(domain.ModeTimelapse),
		Resolution: resPtr(domain.Resolution4K),
	})
	assert.Equal(t, domain.ModeTimelapse, status.Mode)
	assert.Equal(t, domain.Resolution4K, status.Resolution)
}

func TestStatusStoreGetReturnsSnapshot(t *testing.T) {
	store := NewStatusStore()

	before := store.Get()
	store.Apply(domain.StatusPatch{Battery: intPtr(50)})

	// The earlier snapshot is unaffected by later writes.
	assert.Equal(t, 0, before.Battery)
	assert.Equal(t, 50, store.Get().Battery)
}

func TestStatusStoreReset(t *testing.T) {
	store := NewStatusStore()
	store.Apply(domain.ConnectedStatusPatch())
	assert.True(t, store.Get().Connected)

	status := store.Reset()
	assert.Equal(t, domain.DefaultStatus(), status)
}

func TestStatusStoreConcurrentApply(t *testing.T) {
	store := NewStatusStore()

	const writers = 16
	const perWriter = 100

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				store.Apply(domain.StatusPatch{Battery: intPtr(n % 101)})
				store.Get()
			}
		}(i)
	}
	wg.Wait()

	status := store.Get()
	assert.GreaterOrEqual(t, status.Battery, 0)
	assert.LessOrEqual(t, status.Battery, 100)
}
