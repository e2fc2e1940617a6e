package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"osboard/internal/model"
)

// OrdersKey is the kv key holding the serialized collection.
const OrdersKey = "os_orders"

// Local keeps the whole collection as one JSON array under OrdersKey.
// Every write reads the full collection, changes it and writes it back.
type Local struct {
	db *sql.DB
	mu sync.Mutex
}

func NewLocal(db *sql.DB) *Local {
	return &Local{db: db}
}

func (s *Local) Backend() string { return BackendLocal }

func (s *Local) Close() error { return s.db.Close() }

// GetAll returns the stored collection in stored order.
func (s *Local) GetAll(ctx context.Context) ([]model.ServiceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Local) Add(ctx context.Context, o model.ServiceOrder) error {
	return s.rewrite(ctx, func(orders []model.ServiceOrder) ([]model.ServiceOrder, error) {
		for _, existing := range orders {
			if existing.ID == o.ID {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
			}
		}
		return append(orders, o), nil
	})
}

// UpdateStatus does nothing when no order has the id.
func (s *Local) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	return s.rewrite(ctx, func(orders []model.ServiceOrder) ([]model.ServiceOrder, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
			}
		}
		return orders, nil
	})
}

// Delete does nothing when no order has the id.
func (s *Local) Delete(ctx context.Context, id string) error {
	return s.rewrite(ctx, func(orders []model.ServiceOrder) ([]model.ServiceOrder, error) {
		kept := orders[:0]
		for _, o := range orders {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		return kept, nil
	})
}

func (s *Local) rewrite(ctx context.Context, mutate func([]model.ServiceOrder) ([]model.ServiceOrder, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return err
	}
	orders, err = mutate(orders)
	if err != nil {
		return err
	}

	blob, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, OrdersKey, string(blob))
	if err != nil {
		return fmt.Errorf("write orders: %w", err)
	}
	return nil
}

func (s *Local) load(ctx context.Context) ([]model.ServiceOrder, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, OrdersKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.ServiceOrder{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}

	orders := []model.ServiceOrder{}
	if err := json.Unmarshal([]byte(blob), &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
