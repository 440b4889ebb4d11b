// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Command api is the entry point for the HWSphere portfolio API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations (idempotent).
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Configure object storage and the hosted search index.
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/BryanPineda21/HWSphere/internal/api"
	"github.com/BryanPineda21/HWSphere/internal/core/discover"
	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/core/search"
	"github.com/BryanPineda21/HWSphere/internal/core/tag"
	"github.com/BryanPineda21/HWSphere/internal/platform/config"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/migration"
	pgstore "github.com/BryanPineda21/HWSphere/internal/platform/postgres"
	redisstore "github.com/BryanPineda21/HWSphere/internal/platform/redis"
	"github.com/BryanPineda21/HWSphere/internal/platform/sec"
	"github.com/BryanPineda21/HWSphere/internal/platform/storage"
	"github.com/BryanPineda21/HWSphere/internal/users/account"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("search_index", cfg.SearchIndex.Enabled()),
	)

	// A deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Object Storage & Search Index ──────────────────────────────────
	files, err := storage.New(startupCtx, storage.Options{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}, log)
	must(log, err, "configure object storage")

	index := discover.New(cfg.SearchIndex, log)
	if err := index.EnsureCollection(startupCtx); err != nil {
		// The index is optional; writes keep working without it.
		log.Warn("search_index_unavailable", slog.Any("error", err))
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(
		userRepository,
		auth.NewSessionStore(rdb),
		auth.NewLoginThrottle(rdb),
		tokenService,
		log,
	)
	accountService := account.NewService(userRepository, log)

	tagRepository := tag.NewPostgresRepository(pool)
	tagService := tag.NewService(tagRepository, cfg.SearchCacheTTL, log)
	ledger := tag.NewLedger(tagRepository, log)

	projectRepository := project.NewPostgresRepository(pool)
	projectService := project.NewService(projectRepository, ledger, files, index, log)
	aggregator := search.NewAggregator(projectRepository, projectService, search.NewCache(cfg.SearchCacheTTL), log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokenService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Users:     account.NewHandler(accountService),
		Project:   project.NewHandler(projectService, cfg.MaxUploadBytes),
		Search:    search.NewHandler(aggregator),
		Discover:  discover.NewHandler(index),
		Tag:       tag.NewHandler(tagService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Startup wiring only. After startup every error is returned and handled.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
