// Command socialfeed runs the social feed HTTP API, the counter reconcile worker, or the
// schema migration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-social-feed/config"
	"github.com/goliatone/go-social-feed/pkg/di"
	"github.com/goliatone/go-social-feed/store"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	mode := flag.String("mode", "serve", "serve | worker | migrate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *mode, cfg, logger); err != nil {
		logger.Error().Err(err).Str("mode", *mode).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

func newLogger(cfg config.Log) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(cfg.Level).With().Timestamp().Str("service", "socialfeed").Logger()
}

func run(ctx context.Context, mode string, cfg config.Config, logger zerolog.Logger) error {
	switch mode {
	case "migrate":
		return migrate(ctx, cfg, logger)
	case "serve", "worker":
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn().Err(err).Msg("close")
		}
	}()

	if mode == "worker" {
		return work(ctx, container, logger)
	}
	return serve(ctx, container, logger)
}

func migrate(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("schema up to date")
	return nil
}

func serve(ctx context.Context, container *di.Container, logger zerolog.Logger) error {
	srv := container.API()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(container.Config().HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}

func work(ctx context.Context, container *di.Container, logger zerolog.Logger) error {
	if !container.Config().Reconcile.Enabled {
		logger.Warn().Msg("reconcile disabled; worker has nothing to do")
		<-ctx.Done()
		return nil
	}

	srv, mux, err := container.NewWorker()
	if err != nil {
		return err
	}
	if err := srv.Start(mux); err != nil {
		return err
	}
	logger.Info().Int("concurrency", container.Config().Reconcile.Concurrency).Msg("reconcile worker started")

	<-ctx.Done()
	logger.Info().Msg("shutting down reconcile worker")
	srv.Shutdown()
	return nil
}
