package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"osboard/internal/dashboard"
	"osboard/internal/events"
	"osboard/internal/model"
	"osboard/internal/report"
	"osboard/internal/storage"
)

// ReportTimeout bounds a shared report generation.
const ReportTimeout = 2 * time.Minute

// Dashboard owns the authoritative in-memory order collection. Mutations
// are applied in memory first and then persisted; a failed persistence call
// rolls the in-memory change back and returns the error.
type Dashboard struct {
	store     storage.Store
	reports   *report.Generator
	publisher events.Publisher
	now       func() time.Time
	newID     func() string

	// persistMu is held shared from an optimistic apply until its store call
	// returns, and exclusively by LoadAll, so a reload never replaces the
	// collection while a mutation is in flight.
	persistMu sync.RWMutex

	mu     sync.RWMutex
	orders []model.ServiceOrder

	reportFlight singleflight.Group
}

func NewDashboard(store storage.Store, reports *report.Generator, publisher events.Publisher) *Dashboard {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Dashboard{
		store:     store,
		reports:   reports,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
		orders:    []model.ServiceOrder{},
	}
}

func (d *Dashboard) Backend() string { return d.store.Backend() }

// LoadAll replaces the collection with the store's contents. On error the
// current collection is kept.
func (d *Dashboard) LoadAll(ctx context.Context) ([]model.ServiceOrder, error) {
	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	orders, err := d.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	d.mu.Lock()
	d.orders = orders
	d.mu.Unlock()

	return slices.Clone(orders), nil
}

// Orders returns a copy of the collection.
func (d *Dashboard) Orders() []model.ServiceOrder {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.orders)
}

func (d *Dashboard) Create(ctx context.Context, draft model.Draft) (model.ServiceOrder, error) {
	if err := draft.Validate(); err != nil {
		return model.ServiceOrder{}, err
	}

	d.persistMu.RLock()
	defer d.persistMu.RUnlock()

	d.mu.Lock()
	id := d.newID()
	for d.indexLocked(id) >= 0 {
		id = d.newID()
	}
	order, err := model.NewOrder(draft, id, d.now())
	if err != nil {
		d.mu.Unlock()
		return model.ServiceOrder{}, err
	}
	d.orders = append(d.orders, order)
	d.mu.Unlock()

	if err := d.store.Add(ctx, order); err != nil {
		d.mu.Lock()
		if i := d.indexLocked(order.ID); i >= 0 {
			d.orders = slices.Delete(d.orders, i, i+1)
		}
		d.mu.Unlock()
		slog.Error("failed to save order", "id", order.ID, "os_number", order.OSNumber, "error", err)
		return model.ServiceOrder{}, fmt.Errorf("save order: %w", err)
	}

	d.publish(ctx, events.KindCreated, order.ID, &order)
	return order, nil
}

// Complete marks a pending order completed. Unknown ids and orders that are
// already completed are left alone without touching the store.
func (d *Dashboard) Complete(ctx context.Context, id string) error {
	d.persistMu.RLock()
	defer d.persistMu.RUnlock()

	d.mu.Lock()
	i := d.indexLocked(id)
	if i < 0 || !d.orders[i].Complete() {
		d.mu.Unlock()
		return nil
	}
	order := d.orders[i]
	d.mu.Unlock()

	if err := d.store.UpdateStatus(ctx, id, model.StatusCompleted); err != nil {
		d.mu.Lock()
		if j := d.indexLocked(id); j >= 0 {
			d.orders[j].Status = model.StatusPending
		}
		d.mu.Unlock()
		slog.Error("failed to update status", "id", id, "error", err)
		return fmt.Errorf("complete order: %w", err)
	}

	d.publish(ctx, events.KindCompleted, id, &order)
	return nil
}

// Remove deletes the order from the collection and the store. The store is
// asked even when the id is unknown locally, since another instance may
// have written it.
func (d *Dashboard) Remove(ctx context.Context, id string) error {
	var removed *model.ServiceOrder

	d.persistMu.RLock()
	defer d.persistMu.RUnlock()

	d.mu.Lock()
	pos := d.indexLocked(id)
	if pos >= 0 {
		o := d.orders[pos]
		removed = &o
		d.orders = slices.Delete(d.orders, pos, pos+1)
	}
	d.mu.Unlock()

	if err := d.store.Delete(ctx, id); err != nil {
		if removed != nil {
			d.mu.Lock()
			if d.indexLocked(id) < 0 {
				d.orders = slices.Insert(d.orders, min(pos, len(d.orders)), *removed)
			}
			d.mu.Unlock()
		}
		slog.Error("failed to delete order", "id", id, "error", err)
		return fmt.Errorf("delete order: %w", err)
	}

	d.publish(ctx, events.KindDeleted, id, removed)
	return nil
}

func (d *Dashboard) Stats() dashboard.Stats {
	return dashboard.ComputeStats(d.Orders(), d.now())
}

func (d *Dashboard) View(mode dashboard.FilterMode) []dashboard.Item {
	return dashboard.View(d.Orders(), mode, d.now())
}

// Report generates the workload briefing. Concurrent callers share a
// single generation, which outlives the caller that started it.
func (d *Dashboard) Report(ctx context.Context) string {
	v, _, _ := d.reportFlight.Do("report", func() (any, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReportTimeout)
		defer cancel()
		return d.reports.Generate(genCtx, d.Orders()), nil
	})
	return v.(string)
}

func (d *Dashboard) indexLocked(id string) int {
	return slices.IndexFunc(d.orders, func(o model.ServiceOrder) bool { return o.ID == id })
}

func (d *Dashboard) publish(ctx context.Context, kind events.Kind, id string, order *model.ServiceOrder) {
	e := events.Event{Kind: kind, OrderID: id, Order: order, OccurredAt: d.now().UTC()}
	if err := d.publisher.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish order event", "kind", kind, "id", id, "error", err)
	}
}
