package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// NewPostgres opens the remote orders database. The access key is used as
// the connection password so it never has to be embedded in the URL.
func NewPostgres(ctx context.Context, uri, key string) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if key != "" {
		connCfg.Password = key
	}

	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}

// NewSQLite opens the local fallback store file.
func NewSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// one writer at a time, the store rewrites the whole blob anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, nil
}

func CloseDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close DB", "error", err)
	}
}
