// Ledgerwatch - Transaction Stream Monitoring and Fraud Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerwatch

// Package main is the entry point for the Ledgerwatch server.
//
// Ledgerwatch ingests an ordered stream of financial events (deposits and
// withdrawals), persists them in an embedded DuckDB store, and evaluates a
// fixed fraud rule set against every accepted event, returning any triggered
// alert codes to the caller.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Database: embedded DuckDB event store with a UNIQUE timestamp constraint
//  3. High-water mark: seeded from the store's maximum logical timestamp
//  4. Rule engine and ingest coordinator
//  5. HTTP server: Chi router under a suture supervision tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins):
//   - Environment variables (LW_ prefix, e.g. LW_SERVER_PORT)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (configurable timeout)
//   - Closes the database connection
//
// # Example Usage
//
//	export LW_SERVER_PORT=8480
//	export LW_DATABASE_PATH=data/ledgerwatch.db
//	./ledgerwatch
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/ledgerwatch/internal/api"
	"github.com/tomtom215/ledgerwatch/internal/config"
	"github.com/tomtom215/ledgerwatch/internal/database"
	"github.com/tomtom215/ledgerwatch/internal/detection"
	"github.com/tomtom215/ledgerwatch/internal/ingest"
	"github.com/tomtom215/ledgerwatch/internal/logging"
	"github.com/tomtom215/ledgerwatch/internal/supervisor"
	"github.com/tomtom215/ledgerwatch/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config not yet available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Ledgerwatch")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the ordering guard from the store so restarts keep rejecting
	// timestamps the stream has already consumed.
	guard := detection.NewHighWaterMark()
	maxT, found, err := db.MaxTimestamp(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read maximum timestamp")
	}
	if found {
		guard.Initialize(maxT)
		logging.Info().Int64("high_water_mark", maxT).Msg("Ordering guard seeded from store")
	} else {
		logging.Info().Msg("Empty store; ordering guard starts unset")
	}

	engine := detection.NewEngine(db)
	coordinator := ingest.NewCoordinator(db, guard, engine)

	handler := api.NewHandler(coordinator, db, version)
	router := api.NewRouter(&cfg.Server, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// zerolog bridged to slog for sutureslog.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server supervised and serving")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
