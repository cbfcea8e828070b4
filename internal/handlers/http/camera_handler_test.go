package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/services"
	"camdeck/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *nopBroadcaster) Broadcast(event domain.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

// newCameraTestRouter wires real services behind the handler, no auth, so the
// tests exercise the full command path.
func newCameraTestRouter() (*gin.Engine, *services.StatusStore) {
	gin.SetMode(gin.TestMode)
	store := services.NewStatusStore()
	camera := services.NewCameraService(store, &nopBroadcaster{}, 0, "http://localhost:5000/stream", zap.NewNop().Sugar())

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zap.NewNop().Sugar()))
	noAuth := func(c *gin.Context) { c.Next() }
	NewCameraHandler(camera, nil).SetupRoutes(router, noAuth)
	return router, store
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatusEndpoint(t *testing.T) {
	router, _ := newCameraTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/camera/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status domain.CameraStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Connected)
	assert.Equal(t, domain.ModeVideo, status.Mode)
}

func TestConnectEndpoint(t *testing.T) {
	router, store := newCameraTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/camera/connect", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status domain.CameraStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Connected)
	assert.Equal(t, 85, status.Battery)
	assert.True(t, store.Get().Connected)
}

func TestRecordStartRequiresConnectedCamera(t *testing.T) {
	router, _ := newCameraTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/camera/record/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordLifecycleEndpoints(t *testing.T) {
	router, store := newCameraTestRouter()
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/connect", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/v1/camera/record/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var started struct {
		ID        string `json:"id"`
		Recording bool   `json:"recording"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.NotEmpty(t, started.ID)
	assert.True(t, started.Recording)
	assert.True(t, store.Get().Recording)

	w = doRequest(router, http.MethodPost, "/api/v1/camera/record/stop", gin.H{"id": started.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.Get().Recording)
}

func TestStreamLifecycleEndpoints(t *testing.T) {
	router, store := newCameraTestRouter()

	// Streaming before connecting is refused.
	assert.Equal(t, http.StatusConflict, doRequest(router, http.MethodPost, "/api/v1/camera/stream/start", nil).Code)

	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/connect", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/v1/camera/stream/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Streaming bool   `json:"streaming"`
		StreamURL string `json:"streamUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Streaming)
	assert.Equal(t, "http://localhost:5000/stream", resp.StreamURL)
	assert.True(t, store.Get().Streaming)

	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/stream/stop", nil).Code)
	assert.False(t, store.Get().Streaming)
}

func TestSettingsEndpoint(t *testing.T) {
	router, store := newCameraTestRouter()

	w := doRequest(router, http.MethodPut, "/api/v1/camera/settings", gin.H{
		"mode":       "photo",
		"resolution": "4K",
		"fps":        60,
	})
	require.Equal(t, http.StatusOK, w.Code)

	status := store.Get()
	assert.Equal(t, domain.ModePhoto, status.Mode)
	assert.Equal(t, domain.Resolution4K, status.Resolution)
	assert.Equal(t, 60, status.FPS)
}

func TestSettingsEndpointRejectsInvalidValues(t *testing.T) {
	router, store := newCameraTestRouter()

	cases := []gin.H{
		{"mode": "8mm"},
		{"resolution": "potato"},
		{"fps": 0},
		{"fps": 100000},
	}
	for _, body := range cases {
		w := doRequest(router, http.MethodPut, "/api/v1/camera/settings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %v", body)
	}

	// Nothing leaked into the record.
	assert.Equal(t, domain.DefaultStatus(), store.Get())
}

func TestResetEndpoint(t *testing.T) {
	router, store := newCameraTestRouter()
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/connect", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/v1/camera/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultStatus(), store.Get())
}

func TestDisconnectEndpoint(t *testing.T) {
	router, store := newCameraTestRouter()
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/connect", nil).Code)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/v1/camera/record/start", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/v1/camera/disconnect", nil)
	require.Equal(t, http.StatusOK, w.Code)

	status := store.Get()
	assert.False(t, status.Connected)
	assert.False(t, status.Recording)
}
