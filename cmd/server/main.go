package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"driver-dispatch-service/internal/adapters/cache"
	"driver-dispatch-service/internal/adapters/repositories"
	"driver-dispatch-service/internal/api"
	"driver-dispatch-service/internal/engine"
	"driver-dispatch-service/internal/platform/db"
	"driver-dispatch-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports, starts the
// scheduling runner as the single engine owner, and serves the HTTP API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := newLogger(getEnv("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	port := getEnv("PORT", "8080")
	horizonDays := getEnvInt(logger, "HORIZON_DAYS", 7)
	refreshSeconds := getEnvInt(logger, "REFRESH_INTERVAL_SECONDS", 30)

	conn, err := db.Open(databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	// Schema init is idempotent; seeding stays in cmd/dbtool.
	if err := repositories.InitSchema(conn); err != nil {
		logger.Fatal("init schema", zap.Error(err))
	}

	loadRepo := repositories.NewPostgresLoadRepository(conn)
	driverRepo := repositories.NewPostgresDriverRepository(conn)

	// Snapshot cache is optional: without REDIS_ADDR the engine simply
	// skips publishing.
	var statusCache ports.StatusCache
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		statusCache = cache.NewRedisStatusCache(client, logger, 0)
		logger.Info("status snapshot cache enabled", zap.String("addr", addr))
	}

	eng := engine.New(loadRepo, driverRepo, statusCache, logger, engine.Config{
		HorizonDays: horizonDays,
	})
	runner := engine.NewRunner(eng, logger, time.Duration(refreshSeconds)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runner.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(runner, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(logger *zap.Logger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("invalid integer env var, using default",
			zap.String("key", key), zap.String("value", raw), zap.Int("default", fallback))
		return fallback
	}
	return v
}
