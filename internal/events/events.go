package events

import (
	"context"
	"strings"
	"time"

	"osboard/internal/model"
)

type Kind string

const (
	KindCreated   Kind = "created"
	KindCompleted Kind = "completed"
	KindDeleted   Kind = "deleted"
)

// Event describes one persisted change to a service order. Order is nil
// for deletions of orders the dashboard no longer holds.
type Event struct {
	Kind       Kind                `json:"kind"`
	OrderID    string              `json:"order_id"`
	Order      *model.ServiceOrder `json:"order,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

func (e Event) RoutingKey() string {
	method := "unknown"
	if e.Order != nil {
		method = strings.ToLower(string(e.Order.DeliveryMethod))
	}
	return "order." + string(e.Kind) + "." + method
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
