package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"
	"camdeck/internal/infrastructure/monitoring"
	apperrors "camdeck/pkg/errors"

	"github.com/gin-gonic/gin"
)

type CameraHandler struct {
	camera  ports.CameraService
	metrics *monitoring.PrometheusCollector
}

func NewCameraHandler(camera ports.CameraService, metrics *monitoring.PrometheusCollector) *CameraHandler {
	return &CameraHandler{
		camera:  camera,
		metrics: metrics,
	}
}

func (h *CameraHandler) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api/v1/camera", authMiddleware)
	{
		api.GET("/status", h.Status)
		api.POST("/connect", h.Connect)
		api.POST("/disconnect", h.Disconnect)
		api.POST("/record/start", h.StartRecording)
		api.POST("/record/stop", h.StopRecording)
		api.POST("/stream/start", h.StartStreaming)
		api.POST("/stream/stop", h.StopStreaming)
		api.PUT("/settings", h.UpdateSettings)
		api.POST("/reset", h.Reset)
	}
}

type StopRecordingRequest struct {
	ID string `json:"id"`
}

type SettingsRequest struct {
	Mode       *string `json:"mode"`
	Resolution *string `json:"resolution"`
	FPS        *int    `json:"fps" binding:"omitempty,min=1,max=240"`
}

func (h *CameraHandler) Status(c *gin.Context) {
	status := h.camera.Status(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

func (h *CameraHandler) Connect(c *gin.Context) {
	start := time.Now()
	status, err := h.camera.Connect(c.Request.Context())
	h.metrics.RecordCommand("connect", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	h.metrics.RecordHandshake(time.Since(start))
	c.JSON(http.StatusOK, status)
}

func (h *CameraHandler) Disconnect(c *gin.Context) {
	status, err := h.camera.Disconnect(c.Request.Context())
	h.metrics.RecordCommand("disconnect", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *CameraHandler) StartRecording(c *gin.Context) {
	id, err := h.camera.StartRecording(c.Request.Context())
	h.metrics.RecordCommand("record_start", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "recording": true})
}

func (h *CameraHandler) StopRecording(c *gin.Context) {
	var req StopRecordingRequest
	// Body is optional; an absent id resolves to the active recording.
	_ = c.ShouldBindJSON(&req)

	err := h.camera.StopRecording(c.Request.Context(), domain.RecordingID(req.ID))
	h.metrics.RecordCommand("record_stop", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recording": false})
}

func (h *CameraHandler) StartStreaming(c *gin.Context) {
	url, err := h.camera.StartStreaming(c.Request.Context())
	h.metrics.RecordCommand("stream_start", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streaming": true, "streamUrl": url})
}

func (h *CameraHandler) StopStreaming(c *gin.Context) {
	err := h.camera.StopStreaming(c.Request.Context())
	h.metrics.RecordCommand("stream_stop", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streaming": false})
}

func (h *CameraHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		h.metrics.RecordCommand("settings", err)
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	status, err := h.camera.UpdateSettings(c.Request.Context(), patch)
	h.metrics.RecordCommand("settings", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *CameraHandler) Reset(c *gin.Context) {
	status, err := h.camera.Reset(c.Request.Context())
	h.metrics.RecordCommand("reset", err)
	if err != nil {
		h.commandError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *CameraHandler) commandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCameraNotConnected):
		c.Error(apperrors.NewConflictError("camera is not connected"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away mid-command; nothing to write.
		c.Abort()
	default:
		c.Error(apperrors.NewInternalError("camera command failed"))
	}
}

func (req SettingsRequest) toPatch() (domain.StatusPatch, error) {
	var patch domain.StatusPatch
	if req.Mode != nil {
		mode := domain.CameraMode(*req.Mode)
		if !mode.Valid() {
			return domain.StatusPatch{}, errors.New("unknown camera mode: " + *req.Mode)
		}
		patch.Mode = &mode
	}
	if req.Resolution != nil {
		res := domain.Resolution(*req.Resolution)
		if !res.Valid() {
			return domain.StatusPatch{}, errors.New("unknown resolution: " + *req.Resolution)
		}
		patch.Resolution = &res
	}
	if req.FPS != nil {
		fps := *req.FPS
		patch.FPS = &fps
	}
	return patch, nil
}
