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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/internal/upload"
	"github.com/labcollective/memberhub/routes"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and run the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun()
		},
	}
}

func serveRun() {
	cfg, logger := initialize()

	if err := routes.Migrate(config.DB); err != nil {
		logger.Error("AutoMigrate failed", "error", err)
		os.Exit(1)
	}
	logger.Info("AutoMigrate successful")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := upload.NewStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open upload storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// leave the interface nil rather than wrapping a nil *GoogleCalendar
	var source event.CalendarSource
	if cfg.CalendarConfigured() {
		source = event.NewGoogleCalendar(cfg)
	} else {
		logger.Warn("Google Calendar credentials missing, calendar sync disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.SetupRoutes(config.DB, cfg, store, source, registry, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.App.Port, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdown(srv, logger)
	}
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
