package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Dosada05/tournament-standings/backend"
	"github.com/Dosada05/tournament-standings/brackets"
	"github.com/Dosada05/tournament-standings/config"
	"github.com/Dosada05/tournament-standings/db"
	"github.com/Dosada05/tournament-standings/export"
	"github.com/Dosada05/tournament-standings/handlers"
	"github.com/Dosada05/tournament-standings/metrics"
	"github.com/Dosada05/tournament-standings/middleware"
	"github.com/Dosada05/tournament-standings/repositories"
	api "github.com/Dosada05/tournament-standings/routes"
	"github.com/Dosada05/tournament-standings/services"
	"github.com/Dosada05/tournament-standings/session"
	"github.com/Dosada05/tournament-standings/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("snapshot_store", cfg.SnapshotStore),
		slog.Bool("r2_exports", cfg.R2().Configured()))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open snapshot store", slog.String("store", cfg.SnapshotStore), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close snapshot store", slog.Any("error", err))
		}
	}()
	logger.Info("snapshot store ready", slog.String("store", cfg.SnapshotStore))

	var publisher *export.Publisher
	if cfg.R2().Configured() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, cfg.R2(), logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = export.NewPublisher(uploader, logger)
		logger.Info("Cloudflare R2 uploader initialized")
	}

	metricsService := metrics.NewService()

	wsHub := brackets.NewHub(logger)
	wsHub.OnClientCountChange(metricsService.SetWebsocketClients)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	backendClient := backend.NewClient(cfg.BackendGraphQLURL, &http.Client{Timeout: cfg.BackendTimeout}, logger)
	tournamentService := services.NewTournamentService(backendClient, store, wsHub, publisher, metricsService, logger)

	poller := services.NewPoller(tournamentService, wsHub, cfg.PollInterval, cfg.PollConcurrency, logger)
	go poller.Run(ctx)

	provider := session.NewProvider(cfg.JWTSecretKey)
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Session:    handlers.NewSessionHandler(provider, logger),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger),
		Health:     handlers.NewHealthHandler(wsHub),
		Metrics:    metrics.NewMetricsHandler(),
	}, api.Options{
		Provider:       provider,
		Limiter:        middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stop()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

// openSnapshotStore builds the configured last-known-good store and returns a
// function that releases its connections.
func openSnapshotStore(ctx context.Context, cfg *config.Config) (repositories.SnapshotRepository, func() error, error) {
	switch cfg.SnapshotStore {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return repositories.NewRedisSnapshotRepository(client, cfg.SnapshotTTL), client.Close, nil

	case config.StorePostgres:
		conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.EnsureSnapshotSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return repositories.NewPostgresSnapshotRepository(conn), conn.Close, nil
	}
	return repositories.NewMemorySnapshotRepository(), func() error { return nil }, nil
}
