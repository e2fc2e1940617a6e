package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"osboard/internal/model"
)

const uniqueViolation = "23505"

// Remote keeps orders in the Postgres orders table, one row per order with
// snake_case columns.
type Remote struct {
	db  *sql.DB
	now func() time.Time
}

func NewRemote(db *sql.DB) *Remote {
	return &Remote{db: db, now: time.Now}
}

func (s *Remote) Backend() string { return BackendRemote }

func (s *Remote) Close() error { return s.db.Close() }

func (s *Remote) GetAll(ctx context.Context) ([]model.ServiceOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, os_number, store_name, salesperson, deadline, delivery_method, status, created_at, notes
		FROM orders
		ORDER BY deadline ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.ServiceOrder{}
	for rows.Next() {
		var r orderRow
		if err := rows.Scan(&r.ID, &r.OSNumber, &r.StoreName, &r.Salesperson, &r.Deadline,
			&r.DeliveryMethod, &r.Status, &r.CreatedAt, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o, err := r.toModel(s.now())
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", r.ID, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

func (s *Remote) Add(ctx context.Context, o model.ServiceOrder) error {
	r := fromModel(o)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, os_number, store_name, salesperson, deadline, delivery_method, status, created_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ID, r.OSNumber, r.StoreName, r.Salesperson, r.Deadline, r.DeliveryMethod, r.Status, r.CreatedAt, r.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Remote) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (s *Remote) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// orderRow is the orders table shape.
type orderRow struct {
	ID             string
	OSNumber       string
	StoreName      string
	Salesperson    sql.NullString
	Deadline       time.Time
	DeliveryMethod string
	Status         string
	CreatedAt      sql.NullTime
	Notes          sql.NullString
}

func fromModel(o model.ServiceOrder) orderRow {
	return orderRow{
		ID:             o.ID,
		OSNumber:       o.OSNumber,
		StoreName:      o.StoreName,
		Salesperson:    sql.NullString{String: o.Salesperson, Valid: o.Salesperson != ""},
		Deadline:       o.Deadline.UTC(),
		DeliveryMethod: string(o.DeliveryMethod),
		Status:         string(o.Status),
		CreatedAt:      sql.NullTime{Time: time.UnixMilli(o.CreatedAt).UTC(), Valid: true},
		Notes:          sql.NullString{String: o.Notes, Valid: o.Notes != ""},
	}
}

// toModel maps a row back to the canonical order. A missing created_at
// defaults to now.
func (r orderRow) toModel(now time.Time) (model.ServiceOrder, error) {
	method, err := model.ParseDeliveryMethod(r.DeliveryMethod)
	if err != nil {
		return model.ServiceOrder{}, err
	}
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return model.ServiceOrder{}, err
	}

	createdAt := now.UnixMilli()
	if r.CreatedAt.Valid {
		createdAt = r.CreatedAt.Time.UnixMilli()
	}

	return model.ServiceOrder{
		ID:             r.ID,
		OSNumber:       r.OSNumber,
		StoreName:      r.StoreName,
		Salesperson:    r.Salesperson.String,
		Deadline:       r.Deadline.UTC(),
		DeliveryMethod: method,
		Status:         status,
		CreatedAt:      createdAt,
		Notes:          r.Notes.String,
	}, nil
}
