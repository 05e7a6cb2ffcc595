// Package main is the entry point of the Synapse API server, a
// spaced-repetition backend for notes, flashcards and their review history.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/synapse-srs/synapse-api/internal/config"
	"github.com/synapse-srs/synapse-api/internal/platform/logger"
	"github.com/synapse-srs/synapse-api/internal/platform/postgres/migrations"
)

// errUsage marks invalid command-line input.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("synapse-api exited with error", slog.String("error", err.Error()))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// options are the command-line settings that are not configuration.
type options struct {
	migrate string
}

// parseFlags registers and parses the command-line flags.
func parseFlags(args []string) (*pflag.FlagSet, options, error) {
	fs := pflag.NewFlagSet("synapse-api", pflag.ContinueOnError)
	config.RegisterFlags(fs)

	var opts options
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")

	if err := fs.Parse(args); err != nil {
		return nil, options{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts.migrate != "" && !migrations.ValidCommand(opts.migrate) {
		return nil, options{}, fmt.Errorf("%w: unknown migration command %q", errUsage, opts.migrate)
	}
	return fs, opts, nil
}

// run loads configuration and either executes a migration command or serves
// HTTP until ctx is cancelled.
func run(ctx context.Context, args []string) error {
	fs, opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_enabled", cfg.Redis.Enabled()),
		slog.Bool("llm_enabled", cfg.LLM.Enabled()))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close database", slog.String("error", cerr.Error()))
		}
	}()

	if opts.migrate != "" {
		return migrations.Run(ctx, db, opts.migrate, log)
	}

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(ctx, db, log); err != nil {
			return fmt.Errorf("failed to apply migrations on start: %w", err)
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.serve(ctx)
}
