package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"osboard/internal/config"
	"osboard/internal/events"
	"osboard/internal/handler"
	"osboard/internal/report"
	"osboard/internal/service"
	"osboard/internal/storage"
	"osboard/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	publisher := events.Connect(cfg.AMQPURL)
	defer publisher.Close()

	reports := report.Open(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	// Services
	dash := service.NewDashboard(store, reports, publisher)
	if orders, err := dash.LoadAll(ctx); err != nil {
		slog.Error("initial load failed, starting with an empty list", "error", err)
	} else {
		slog.Info("orders loaded", "count", len(orders), "backend", dash.Backend())
	}

	var auth handler.Authenticator
	if cfg.AuthEnabled() {
		cfg.EnsureJWTSecret()
		auth = service.NewAuthService(cfg.PasswordHash, cfg.JWTSecret)
	} else {
		slog.Warn("DASHBOARD_PASSWORD_HASH not set, API is unauthenticated")
	}

	// Worker
	resync := worker.NewResyncWorker(dash, cfg.ResyncInterval)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      handler.NewRouter(dash, auth, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // report generation can take a while
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		resync.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShut()
		return srv.Shutdown(ctxShut)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
