package http

import (
	"errors"
	"net/http"
	"strconv"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"
	"camdeck/internal/infrastructure/middleware"
	"camdeck/internal/infrastructure/monitoring"
	apperrors "camdeck/pkg/errors"
	"camdeck/pkg/validation"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps the multipart body for recording uploads.
const maxUploadSize = 500 << 20 // 500 MB

type RecordingHandler struct {
	recordings ports.RecordingService
	metrics    *monitoring.PrometheusCollector
}

func NewRecordingHandler(recordings ports.RecordingService, metrics *monitoring.PrometheusCollector) *RecordingHandler {
	return &RecordingHandler{
		recordings: recordings,
		metrics:    metrics,
	}
}

func (h *RecordingHandler) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api/v1/recordings", authMiddleware)
	{
		api.GET("", h.List)
		api.POST("", h.Upload)
		api.DELETE("/:id", h.Delete)
	}
}

func (h *RecordingHandler) List(c *gin.Context) {
	owner := domain.UserID(c.GetString(middleware.CtxUserID))

	recordings, err := h.recordings.List(c.Request.Context(), owner)
	if err != nil {
		c.Error(apperrors.NewStoreError(err))
		return
	}
	if recordings == nil {
		recordings = []*domain.Recording{}
	}
	c.JSON(http.StatusOK, recordings)
}

func (h *RecordingHandler) Upload(c *gin.Context) {
	owner := domain.UserID(c.GetString(middleware.CtxUserID))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		c.Error(apperrors.NewInvalidInputError("video file is required"))
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	if title != "" {
		if err := validation.ValidateRecordingTitle(title); err != nil {
			c.Error(apperrors.NewInvalidInputError(err.Error()))
			return
		}
	}

	duration := 0
	if raw := c.PostForm("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			c.Error(apperrors.NewInvalidInputError("duration must be an integer"))
			return
		}
		if err := validation.ValidateDuration(duration); err != nil {
			c.Error(apperrors.NewInvalidInputError(err.Error()))
			return
		}
	}

	if err := validation.ValidateSize(header.Size); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	recording, err := h.recordings.Save(c.Request.Context(), owner, ports.SaveRecordingInput{
		Title:    title,
		Duration: duration,
		Size:     header.Size,
		File:     file,
		FileName: header.Filename,
	})
	if err != nil {
		c.Error(apperrors.NewStoreError(err))
		return
	}

	h.metrics.RecordRecordingSaved(recording.Size)
	c.JSON(http.StatusCreated, recording)
}

func (h *RecordingHandler) Delete(c *gin.Context) {
	owner := domain.UserID(c.GetString(middleware.CtxUserID))
	id := domain.RecordingID(c.Param("id"))

	if err := h.recordings.Delete(c.Request.Context(), owner, id); err != nil {
		if errors.Is(err, domain.ErrRecordingNotFound) {
			c.Error(apperrors.NewNotFoundError("recording"))
			return
		}
		c.Error(apperrors.NewStoreError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recording deleted"})
}
