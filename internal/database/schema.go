package database

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    os_number TEXT NOT NULL,
    store_name TEXT NOT NULL,
    salesperson TEXT,
    deadline TIMESTAMPTZ NOT NULL,
    delivery_method TEXT NOT NULL CHECK (delivery_method IN ('PICKUP', 'DELIVERY')),
    status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'COMPLETED')),
    created_at TIMESTAMPTZ DEFAULT NOW(),
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_orders_deadline ON orders(deadline);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchemaSQL); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func InitSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
