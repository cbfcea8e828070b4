package services

import (
	"context"
	"fmt"
	"time"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"
	"camdeck/pkg/utils"

	"go.uber.org/zap"
)

type recordingService struct {
	repo   ports.RecordingRepository
	files  ports.FileStore
	logger *zap.SugaredLogger
}

func NewRecordingService(repo ports.RecordingRepository, files ports.FileStore, logger *zap.SugaredLogger) ports.RecordingService {
	return &recordingService{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

func (s *recordingService) List(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *recordingService) Save(ctx context.Context, owner domain.UserID, in ports.SaveRecordingInput) (*domain.Recording, error) {
	var filename string
	var size int64

	if in.File != nil {
		var err error
		filename, size, err = s.files.Save(in.FileName, in.File)
		if err != nil {
			return nil, fmt.Errorf("failed to store recording file: %w", err)
		}
	}
	if in.Size > 0 {
		size = in.Size
	}

	rec := &domain.Recording{
		ID:        domain.RecordingID(utils.GenerateRecordingID()),
		Title:     in.Title,
		Filename:  filename,
		Duration:  in.Duration,
		Size:      size,
		OwnerID:   owner,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		// The metadata row is the source of truth; an orphaned file must not
		// outlive a failed insert.
		if filename != "" {
			if rmErr := s.files.Remove(filename); rmErr != nil {
				s.logger.Warnw("failed to remove orphaned upload", "filename", filename, "error", rmErr)
			}
		}
		return nil, err
	}

	s.logger.Infow("recording saved",
		"recording_id", rec.ID,
		"owner_id", owner,
		"size_bytes", rec.Size,
	)
	return rec, nil
}

func (s *recordingService) Delete(ctx context.Context, owner domain.UserID, id domain.RecordingID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.OwnerID != owner {
		// Deleting someone else's recording looks identical to deleting a
		// missing one.
		return domain.ErrRecordingNotFound
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return err
	}

	if rec.Filename != "" {
		if err := s.files.Remove(rec.Filename); err != nil {
			s.logger.Warnw("failed to remove recording file", "filename", rec.Filename, "error", err)
		}
	}

	s.logger.Infow("recording deleted", "recording_id", id, "owner_id", owner)
	return nil
}
