package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianmaps/atlas/internal/api"
	"github.com/meridianmaps/atlas/internal/config"
	"github.com/meridianmaps/atlas/internal/events"
	"github.com/meridianmaps/atlas/internal/geometry"
	"github.com/meridianmaps/atlas/internal/index"
	"github.com/meridianmaps/atlas/internal/recommend"
	"github.com/meridianmaps/atlas/internal/source"
	"github.com/meridianmaps/atlas/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(os.Getenv("ATLAS_LOG_LEVEL"))}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (optional)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = pg
		defer pg.Close()
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Warn("no database configured, snapshots are in-memory only")
	}

	// Events (optional)
	var publisher events.Publisher
	if cfg.Events.URL != "" {
		pub, err := events.NewNATSPublisher(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event broker, running without events", "error", err)
		} else {
			publisher = pub
			defer pub.Close()
			logger.Info("connected to event broker")
		}
	}

	// Raw data source: remote provider with synthetic fallback, or synthetic
	// alone when no source URL is configured.
	synthetic := source.NewSyntheticProvider()
	var provider source.Provider = synthetic
	if cfg.DataSource.URL != "" {
		primary := source.NewHTTPProvider(cfg.DataSource.URL, cfg.DataSourceTimeout())
		provider = source.NewFallbackProvider(primary, synthetic, cfg.DataSourceTimeout(), logger)
		logger.Info("data source configured", "url", cfg.DataSource.URL)
	} else {
		logger.Info("no data source configured, using synthetic data")
	}

	// Index engine
	schemes := index.NewSchemeRegistry()
	engine := index.NewEngine(provider, schemes, logger, index.WithTTL(cfg.CacheTTL()))

	// Geometry validator
	validator := geometry.NewValidator(logger)

	// Recommendation service
	var recommender recommend.Client
	if cfg.Recommender.URL != "" {
		recommender = recommend.NewHTTPClient(cfg.Recommender.URL, cfg.RecommenderTimeout())
	}

	// API server
	router := api.NewRouter(engine, validator, db, publisher, recommender, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
