package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/facturio/facturio/internal"
	"github.com/facturio/facturio/internal/csvimport"
	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/handler"
	"github.com/facturio/facturio/internal/numbering"
	"github.com/facturio/facturio/internal/service"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/store/memory"
	"github.com/facturio/facturio/internal/store/postgres"
	"github.com/facturio/facturio/internal/summary"
	"github.com/facturio/facturio/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	logger.Info().Str("env", cfg.Env).Msg("starting facturio")

	// Storage collaborator: postgres when configured, seeded memory store
	// for local development.
	var st store.Store
	if cfg.DatabaseURL != "" {
		logger.Info().Msg("connecting to database")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info().Msg("running database migrations")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		st = postgres.New(pool)
	} else {
		logger.Warn().Msg("no DATABASE_URL configured, using in-memory store with seed data")
		st = memory.NewSeeded()
	}

	var summarizer summary.Summarizer = summary.Disabled{}
	if cfg.OpenAI.APIKey != "" {
		summarizer = summary.NewOpenAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
		logger.Info().Str("model", cfg.OpenAI.Model).Msg("AI summary collaborator enabled")
	} else {
		logger.Warn().Msg("no OPENAI_API_KEY configured, AI summaries disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewBusinessMetrics(registry)

	catalogService := service.NewCatalogService(st, metrics, logger)
	invoiceService := service.NewInvoiceService(st, numbering.NewAuthority(), metrics, logger)
	reportService := service.NewReportService(st, summarizer, metrics, cfg.Currency, logger)

	e := echo.New()
	handler.Register(e, handler.Deps{
		Catalog:  catalogService,
		Invoices: invoiceService,
		Reports:  reportService,
		ImportDefaults: csvimport.Defaults{
			TaxID:   cfg.Import.TaxID,
			Country: cfg.Import.Country,
			Unit:    domain.Unit(cfg.Import.Unit),
		},
		Logger:   logger,
		Registry: registry,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
