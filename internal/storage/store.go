// Package storage persists service orders. A Store is backed either by the
// remote Postgres orders table or by a local SQLite file holding the whole
// collection as one JSON blob. The backend is picked once by Open.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"osboard/internal/config"
	"osboard/internal/database"
	"osboard/internal/model"
)

var ErrDuplicateID = errors.New("order id already exists")

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Store never retries and never drops a write silently: each call either
// succeeds or returns an error.
type Store interface {
	GetAll(ctx context.Context) ([]model.ServiceOrder, error)
	Add(ctx context.Context, order model.ServiceOrder) error
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	Delete(ctx context.Context, id string) error
	Backend() string
	Close() error
}

// Open selects the remote store when both its URL and key are configured,
// the local fallback otherwise.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.RemoteConfigured() {
		db, err := database.NewPostgres(ctx, cfg.RemoteURL, cfg.RemoteKey)
		if err != nil {
			return nil, fmt.Errorf("connect remote store: %w", err)
		}
		if err := database.InitPostgresSchema(ctx, db); err != nil {
			database.CloseDB(db)
			return nil, err
		}
		slog.Info("using remote order store")
		return NewRemote(db), nil
	}

	db, err := database.NewSQLite(ctx, cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := database.InitSQLiteSchema(ctx, db); err != nil {
		database.CloseDB(db)
		return nil, err
	}
	slog.Info("remote store not configured, using local fallback", "path", cfg.LocalPath)
	return NewLocal(db), nil
}
