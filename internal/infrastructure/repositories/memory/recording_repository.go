package memory

import (
	"context"
	"sort"
	"sync"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"
)

type MemoryRecordingRepository struct {
	recordings map[domain.RecordingID]*domain.Recording
	mu         sync.RWMutex
}

func NewMemoryRecordingRepository() ports.RecordingRepository {
	return &MemoryRecordingRepository{
		recordings: make(map[domain.RecordingID]*domain.Recording),
	}
}

func (r *MemoryRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.recordings[rec.ID] = &stored
	return nil
}

func (r *MemoryRecordingRepository) GetByID(ctx context.Context, id domain.RecordingID) (*domain.Recording, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.recordings[id]
	if !exists {
		return nil, domain.ErrRecordingNotFound
	}

	out := *rec
	return &out, nil
}

func (r *MemoryRecordingRepository) ListByOwner(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Recording
	for _, rec := range r.recordings {
		if rec.OwnerID == owner {
			cp := *rec
			out = append(out, &cp)
		}
	}

	// Newest first, matching the dashboard's library ordering.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *MemoryRecordingRepository) Delete(ctx context.Context, id domain.RecordingID, owner domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.recordings[id]
	if !exists || rec.OwnerID != owner {
		return domain.ErrRecordingNotFound
	}

	delete(r.recordings, id)
	return nil
}
