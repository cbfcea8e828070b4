package ports

import (
	"context"

	"camdeck/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type RecordingRepository interface {
	Create(ctx context.Context, rec *domain.Recording) error
	GetByID(ctx context.Context, id domain.RecordingID) (*domain.Recording, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error)
	// Delete removes the recording only when it belongs to owner; it returns
	// domain.ErrRecordingNotFound otherwise.
	Delete(ctx context.Context, id domain.RecordingID, owner domain.UserID) error
}
