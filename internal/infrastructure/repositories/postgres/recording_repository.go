package postgres

import (
	"context"
	"errors"
	"fmt"

	"camdeck/internal/core/domain"
	"camdeck/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRecordingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRecordingRepository(pool *pgxpool.Pool) ports.RecordingRepository {
	return &PostgresRecordingRepository{pool: pool}
}

func (r *PostgresRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recordings (id, title, filename, duration, size, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(rec.ID), rec.Title, rec.Filename, rec.Duration, rec.Size, string(rec.OwnerID), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}
	return nil
}

func (r *PostgresRecordingRepository) GetByID(ctx context.Context, id domain.RecordingID) (*domain.Recording, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, filename, duration, size, owner_id, created_at
		 FROM recordings WHERE id = $1`,
		string(id),
	)
	return scanRecording(row)
}

func (r *PostgresRecordingRepository) ListByOwner(ctx context.Context, owner domain.UserID) ([]*domain.Recording, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, filename, duration, size, owner_id, created_at
		 FROM recordings WHERE owner_id = $1 ORDER BY created_at DESC`,
		string(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var out []*domain.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRecordingRepository) Delete(ctx context.Context, id domain.RecordingID, owner domain.UserID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM recordings WHERE id = $1 AND owner_id = $2`,
		string(id), string(owner),
	)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordingNotFound
	}
	return nil
}

func scanRecording(row pgx.Row) (*domain.Recording, error) {
	var rec domain.Recording
	var id, owner string
	err := row.Scan(&id, &rec.Title, &rec.Filename, &rec.Duration, &rec.Size, &owner, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recording: %w", err)
	}
	rec.ID = domain.RecordingID(id)
	rec.OwnerID = domain.UserID(owner)
	return &rec, nil
}
