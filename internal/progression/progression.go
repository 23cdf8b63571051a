// Package progression advances placed orders through
// Pending → Processing → Shipped → Delivered in the background.
//
// Each pending step is a row in order_status_jobs, so progression survives
// restarts. Workers claim due rows with SKIP LOCKED and apply one step per
// transaction.
package progression

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Progressor schedules and applies order status transitions.
type Progressor struct {
	orders    repository.OrderRepository
	jobs      repository.StatusJobRepository
	publisher events.Publisher
	dwell     time.Duration
	interval  time.Duration
	workers   int
	now       func() time.Time
	logger    zerolog.Logger
}

// New creates a Progressor.
func New(
	orders repository.OrderRepository,
	jobs repository.StatusJobRepository,
	publisher events.Publisher,
	cfg config.ProgressionConfig,
	logger zerolog.Logger,
) *Progressor {
	return &Progressor{
		orders:    orders,
		jobs:      jobs,
		publisher: publisher,
		dwell:     cfg.Dwell,
		interval:  cfg.PollInterval,
		workers:   cfg.Workers,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("component", "progression").Logger(),
	}
}

// Schedule queues the first step for an order created at placedAt. It runs
// inside the checkout transaction.
func (p *Progressor) Schedule(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, placedAt time.Time) error {
	next, _ := model.StatusPending.Next()
	return p.jobs.Schedule(ctx, tx, model.StatusJob{
		OrderID:        orderID,
		ExpectedStatus: model.StatusPending,
		NextStatus:     next,
		DueAt:          placedAt.Add(p.dwell),
	})
}

// Unschedule drops any pending step of the order inside tx.
func (p *Progressor) Unschedule(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error {
	return p.jobs.Delete(ctx, tx, orderID)
}

// Run starts the worker pool and blocks until ctx is cancelled.
func (p *Progressor) Run(ctx context.Context) error {
	p.logger.Info().
		Int("workers", p.workers).
		Dur("dwell", p.dwell).
		Dur("poll_interval", p.interval).
		Msg("order progression started")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		worker := i
		g.Go(func() error {
			p.work(ctx, worker)
			return nil
		})
	}

	err := g.Wait()
	p.logger.Info().Msg("order progression stopped")
	return err
}

func (p *Progressor) work(ctx context.Context, worker int) {
	logger := p.logger.With().Int("worker", worker).Logger()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		// Drain everything that is due before sleeping again.
		for {
			handled, err := p.ProcessNext(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error().Err(err).Msg("failed to process status job")
				}
				break
			}
			if !handled {
				break
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessNext claims one due job and applies it in its own transaction. It
// reports whether a job was found.
//
// If the order is no longer in the job's expected status (or is gone) the
// job is dropped and the order stops progressing.
func (p *Progressor) ProcessNext(ctx context.Context) (handled bool, err error) {
	tx, err := p.orders.BeginTx(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				p.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := p.now()

	job, err := p.jobs.ClaimDue(ctx, tx, now)
	if err != nil {
		return false, err
	}
	if job == nil {
		err = tx.Rollback(ctx)
		return false, err
	}

	logger := p.logger.With().
		Str("order_id", job.OrderID.String()).
		Str("from", string(job.ExpectedStatus)).
		Str("to", string(job.NextStatus)).
		Logger()

	applied, err := p.orders.TransitionStatus(ctx, tx, job.OrderID, job.ExpectedStatus, job.NextStatus, now)
	if err != nil {
		return false, err
	}

	if !applied {
		logger.Warn().Msg("order not in expected status, stopping progression")
		if err = p.jobs.Delete(ctx, tx, job.OrderID); err != nil {
			return false, err
		}
		if err = tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("failed to commit skipped status job: %w", err)
		}
		return true, nil
	}

	if following, ok := job.NextStatus.Next(); ok {
		err = p.jobs.Schedule(ctx, tx, model.StatusJob{
			OrderID:        job.OrderID,
			ExpectedStatus: job.NextStatus,
			NextStatus:     following,
			DueAt:          now.Add(p.dwell),
		})
	} else {
		err = p.jobs.Delete(ctx, tx, job.OrderID)
	}
	if err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit status transition: %w", err)
	}

	logger.Info().Msg("order status advanced")

	if pubErr := p.publisher.Publish(ctx, events.OrderStatusChanged, events.StatusChangedEvent{
		OrderID: job.OrderID,
		From:    string(job.ExpectedStatus),
		To:      string(job.NextStatus),
		At:      now,
	}); pubErr != nil {
		logger.Warn().Err(pubErr).Msg("failed to publish status change")
	}

	return true, nil
}
