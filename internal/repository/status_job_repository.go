package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// statusJobRepository stores pending status transitions in order_status_jobs.
// All operations run inside a caller-owned transaction.
type statusJobRepository struct {
	logger zerolog.Logger
}

// NewStatusJobRepository creates a new PostgreSQL-backed status job repository.
func NewStatusJobRepository(logger zerolog.Logger) StatusJobRepository {
	return &statusJobRepository{
		logger: logger.With().Str("repository", "status_job").Logger(),
	}
}

func (r *statusJobRepository) Schedule(ctx context.Context, tx pgx.Tx, job model.StatusJob) error {
	query := `
		INSERT INTO order_status_jobs (order_id, expected_status, next_status, due_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO UPDATE
		SET expected_status = EXCLUDED.expected_status,
		    next_status = EXCLUDED.next_status,
		    due_at = EXCLUDED.due_at,
		    updated_at = NOW()
	`

	_, err := tx.Exec(ctx, query, job.OrderID, string(job.ExpectedStatus), string(job.NextStatus), job.DueAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", job.OrderID.String()).
			Str("next_status", string(job.NextStatus)).
			Msg("failed to schedule status job")
		return fmt.Errorf("failed to schedule status job: %w", err)
	}

	return nil
}

func (r *statusJobRepository) ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time) (*model.StatusJob, error) {
	query := `
		SELECT order_id, expected_status, next_status, due_at
		FROM order_status_jobs
		WHERE due_at <= $1
		ORDER BY due_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var job model.StatusJob
	err := tx.QueryRow(ctx, query, now).Scan(&job.OrderID, &job.ExpectedStatus, &job.NextStatus, &job.DueAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to claim status job")
		return nil, fmt.Errorf("failed to claim status job: %w", err)
	}

	return &job, nil
}

func (r *statusJobRepository) Delete(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_status_jobs WHERE order_id = $1`, orderID); err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete status job")
		return fmt.Errorf("failed to delete status job: %w", err)
	}

	return nil
}
