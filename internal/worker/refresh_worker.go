package worker

import (
	"context"
	"log/slog"
	"time"

	"paywatch/internal/service"
)

type statusChecker interface {
	GetPaymentStatus(ctx context.Context, orderID string) (*service.PaymentStatus, error)
}

type historyStore interface {
	PendingOrders() []string
	LoadHistory(ctx context.Context) error
}

// RefreshWorker periodically re-triggers status checks for orders still
// pending and then reloads the history, so the dashboard converges on the
// provider's state without the user mashing the check button. Failures
// are logged and left for the next tick; nothing is retried within one.
type RefreshWorker struct {
	history  historyStore
	client   statusChecker
	interval time.Duration
}

func NewRefreshWorker(history historyStore, client statusChecker, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		history:  history,
		client:   client,
		interval: interval,
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	slog.Info("starting refresh worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh worker stopped")
			return
		case <-ticker.C:
			w.refreshPending(ctx)
		}
	}
}

func (w *RefreshWorker) refreshPending(ctx context.Context) {
	pending := w.history.PendingOrders()
	if len(pending) == 0 {
		return
	}

	for _, orderID := range pending {
		if _, err := w.client.GetPaymentStatus(ctx, orderID); err != nil {
			slog.Warn("status check failed", "order", orderID, "error", err)
		}
	}

	if err := w.history.LoadHistory(ctx); err != nil {
		slog.Error("history reload failed", "error", err)
		return
	}
	slog.Info("history refreshed", "checked", len(pending))
}
