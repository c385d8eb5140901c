package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"vehicle-rental/internal/infra/repository"
	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/config"
	"vehicle-rental/internal/pkg/errs"
	"vehicle-rental/internal/pkg/metrics"
)

const maxDispatchConcurrency = 8

// NotificationWorker drains the outbox. Each pass claims a batch of due jobs
// inside one transaction, dispatches them in parallel and records the outcome
// before committing, so a crashed pass leaves every claimed job queued.
type NotificationWorker struct {
	pool      *pgxpool.Pool
	notifiers map[string]Notifier
	cfg       config.WorkerConfig
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewNotificationWorker(
	pool *pgxpool.Pool,
	notifiers []Notifier,
	cfg config.WorkerConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *NotificationWorker {
	byChannel := make(map[string]Notifier, len(notifiers))
	for _, n := range notifiers {
		byChannel[n.Channel()] = n
	}
	return &NotificationWorker{
		pool:      pool,
		notifiers: byChannel,
		cfg:       cfg,
		clock:     clk,
		metrics:   m,
		logger:    logger,
	}
}

// Run polls until the context is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "notification pass failed", slog.String("error", err.Error()))
			}
		}
	}
}

type dispatchResult struct {
	job repository.NotificationJob
	err error
}

func (w *NotificationWorker) runOnce(ctx context.Context) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin outbox transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repo := repository.NewNotificationRepository(tx)
	jobs, err := repo.ClaimPending(ctx, w.cfg.BatchSize)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	results := w.dispatchAll(ctx, jobs)

	// pgx transactions are not safe for concurrent use, so outcomes are
	// recorded sequentially after the parallel sends complete.
	for _, r := range results {
		if r.err == nil {
			if err := repo.MarkSent(ctx, r.job.ID); err != nil {
				return err
			}
			w.metrics.NotificationsSent.WithLabelValues(r.job.Channel).Inc()
			continue
		}

		w.logger.WarnContext(ctx, "notification dispatch failed",
			slog.String("job_id", r.job.ID.String()),
			slog.String("channel", r.job.Channel),
			slog.Int("attempts", int(r.job.Attempts)+1),
			slog.String("error", r.err.Error()),
		)
		retryAt := w.clock.Now().Add(retryBackoff(r.job.Attempts + 1))
		if err := repo.MarkFailed(ctx, r.job.ID, r.err.Error(), retryAt, w.cfg.MaxAttempts); err != nil {
			return err
		}
		w.metrics.NotificationsFailed.WithLabelValues(r.job.Channel).Inc()
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit outbox transaction")
	}
	return nil
}

func (w *NotificationWorker) dispatchAll(ctx context.Context, jobs []repository.NotificationJob) []dispatchResult {
	results := make([]dispatchResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDispatchConcurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = dispatchResult{job: job, err: w.dispatch(gctx, job)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (w *NotificationWorker) dispatch(ctx context.Context, job repository.NotificationJob) error {
	notifier, ok := w.notifiers[job.Channel]
	if !ok {
		return errs.New("no notifier registered for channel " + job.Channel)
	}
	return notifier.Send(ctx, job.MessageType, job.Payload)
}

// retryBackoff doubles per attempt from 30s, capped at an hour.
func retryBackoff(attempts int32) time.Duration {
	backoff := 30 * time.Second
	for i := int32(1); i < attempts && backoff < time.Hour; i++ {
		backoff *= 2
	}
	if backoff > time.Hour {
		return time.Hour
	}
	return backoff
}
