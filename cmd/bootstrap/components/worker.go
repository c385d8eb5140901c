package components

import (
	"context"
	"errors"
	"log/slog"

	"vehicle-rental/internal/pkg/clock"
	"vehicle-rental/internal/pkg/config"
	"vehicle-rental/internal/pkg/metrics"
	"vehicle-rental/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewNotificationWorker,
	),
	fx.Invoke(StartNotificationWorker),
)

func NewNotificationWorker(
	pool *pgxpool.Pool,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *worker.NotificationWorker {
	notifiers := []worker.Notifier{
		worker.NewEmailNotifier(logger),
		worker.NewWhatsAppNotifier(logger),
		worker.NewOpsNotifier(logger),
	}
	return worker.NewNotificationWorker(pool, notifiers, cfg.Worker, clk, m, logger)
}

func StartNotificationWorker(lc fx.Lifecycle, w *worker.NotificationWorker, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("notification worker stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
