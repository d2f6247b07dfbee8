package worker

import (
	"context"
	"time"

	"github.com/pawhub/vetbook-api/internal/repository"
	"github.com/pawhub/vetbook-api/pkg/logger"
	"github.com/pawhub/vetbook-api/pkg/metrics"
)

// CleanupWorker removes audit log entries and processed outbox rows that
// are older than the retention period.
type CleanupWorker struct {
	audit     repository.AuditRepository
	outbox    repository.OutboxRepository
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewCleanupWorker(
	audit repository.AuditRepository,
	outbox repository.OutboxRepository,
	retention, interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *CleanupWorker {
	return &CleanupWorker{
		audit:     audit,
		outbox:    outbox,
		retention: retention,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting retention cleaner")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down retention cleaner")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *CleanupWorker) run(ctx context.Context) {
	cutoff := time.Now().Add(-w.retention)

	if deleted, err := w.audit.Cleanup(ctx, cutoff); err != nil {
		w.logger.Error(err, "Audit log cleanup failed")
	} else if deleted > 0 {
		w.metrics.CleanupRowsDeleted.WithLabelValues("audit_logs").Add(float64(deleted))
		w.logger.Info("Removed expired audit logs", "deleted", deleted)
	}

	if deleted, err := w.outbox.DeleteProcessedBefore(ctx, cutoff); err != nil {
		w.logger.Error(err, "Outbox cleanup failed")
	} else if deleted > 0 {
		w.metrics.CleanupRowsDeleted.WithLabelValues("outbox_events").Add(float64(deleted))
		w.logger.Info("Removed processed outbox events", "deleted", deleted)
	}
}
