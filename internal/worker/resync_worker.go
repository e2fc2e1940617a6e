package worker

import (
	"context"
	"log/slog"
	"time"

	"osboard/internal/dashboard"
	"osboard/internal/model"
)

// Reloader is satisfied by service.Dashboard.
type Reloader interface {
	LoadAll(ctx context.Context) ([]model.ServiceOrder, error)
	Stats() dashboard.Stats
}

// ResyncWorker pulls the store's contents into the dashboard on a fixed
// interval so writes made by other instances become visible.
type ResyncWorker struct {
	dash     Reloader
	interval time.Duration
}

func NewResyncWorker(dash Reloader, interval time.Duration) *ResyncWorker {
	return &ResyncWorker{
		dash:     dash,
		interval: interval,
	}
}

// Start blocks until ctx is cancelled. A non-positive interval returns
// immediately.
func (w *ResyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		slog.Info("resync worker disabled")
		return
	}

	slog.Info("starting resync worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("resync worker stopped")
			return
		case <-ticker.C:
			w.resync(ctx)
		}
	}
}

func (w *ResyncWorker) resync(ctx context.Context) {
	orders, err := w.dash.LoadAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("resync failed, keeping current orders", "error", err)
		return
	}

	s := w.dash.Stats()
	slog.Debug("orders resynced",
		"count", len(orders),
		"pending", s.Pending,
		"completed", s.Completed,
		"urgent", s.Urgent,
	)
}
