package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisRecordingRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRecordingRepository(client *redis.Client) ports.RecordingRepository {
	return &RedisRecordingRepository{
		client: client,
		prefix: "camdeck:recording:",
	}
}

func (r *RedisRecordingRepository) recordingKey(id domain.RecordingID) string {
	return r.prefix + string(id)
}

func (r *RedisRecordingRepository) ownerKey(owner domain.UserID) string {
	return r.prefix + "owner:" + string(owner)
}

func (r *RedisRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recording: %w", err)
	}

	if err := r.client.Set(ctx, r.recordingKey(rec.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set recording in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.ownerKey(rec.OwnerID), string(rec.ID)).Err(); err != nil {
		return fmt.Errorf("failed to index recording by owner: %w", err)
	}

	return nil
}

func (r *RedisRecordingRepository) GetByID(ctx context.Context, id domain.RecordingID) (*domain.Recording, error) {
	data, err := r.client.Get(ctx, r.recordingKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrRecordingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recording from Redis: %w", err)
	}

	var rec domain.Recording
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recording: %w", err)
	}

	return &rec, nil
}

func (r *RedisRecordingRepository) ListByOwner(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error) {
	ids, err := r.client.SMembers(ctx, r.ownerKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings by owner: %w", err)
	}

	out := make([]*domain.Recording, 0, len(ids))
	for _, id := range ids {
		rec, err := r.GetByID(ctx, domain.RecordingID(id))
		if err == domain.ErrRecordingNotFound {
			// Index entry outlived its value; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *RedisRecordingRepository) Delete(ctx context.Context, id domain.RecordingID, owner domain.UserID) error {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.OwnerID != owner {
		return domain.ErrRecordingNotFound
	}

	if err := r.client.Del(ctx, r.recordingKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete recording from Redis: %w", err)
	}
	if err := r.client.SRem(ctx, r.ownerKey(owner), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to unindex recording: %w", err)
	}

	return nil
}
