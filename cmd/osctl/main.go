package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"osboard/internal/config"
	"osboard/internal/events"
	"osboard/internal/report"
	"osboard/internal/service"
	"osboard/internal/storage"
)

// app holds what the subcommands share. It is filled by the root
// command's pre-run hook for every command that touches orders.
type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	store     storage.Store
	publisher events.Publisher
	dash      *service.Dashboard
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	if err := execute(ctx, newRootCmd(a), a); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and releases whatever the pre-run hook
// opened, whether or not the command succeeded.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "osctl",
		Short:        "Manage service orders from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return a.open(cmd.Context(), cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log store and broker activity")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newCompleteCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newReportCmd(a),
		newHashPasswordCmd(),
	)
	return root
}

func (a *app) open(ctx context.Context, logOut io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

	var args []string
	if a.configPath != "" {
		args = []string{"-c", a.configPath}
	}
	cfg, err := config.Parse(flag.NewFlagSet("osctl", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	a.store = store
	a.publisher = events.Connect(cfg.AMQPURL)

	a.dash = service.NewDashboard(store, report.Open(ctx, cfg.GeminiAPIKey, cfg.GeminiModel), a.publisher)
	if _, err := a.dash.LoadAll(ctx); err != nil {
		return err
	}
	return nil
}

func (a *app) close() error {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
