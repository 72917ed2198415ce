package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/timeclock/internal/config"
	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/handler"
	"github.com/msomdec/timeclock/internal/repository/postgres"
	"github.com/msomdec/timeclock/internal/repository/sqlite"
	"github.com/msomdec/timeclock/internal/service"
)

func main() {
	level := new(slog.LevelVar)
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeLimiter()

	clock := service.NewSystemClock(cfg.TimeZone)
	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	attendanceService := service.NewAttendanceService(db.Entries(), db.Users(), clock, cfg.Fallback)
	reportService := service.NewReportService(attendanceService, db.Users())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, db, authService, attendanceService, reportService, limiter, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "tz", cfg.TimeZone.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore uses Postgres when DATABASE_URL is set and SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config) (domain.Store, error) {
	if cfg.DatabaseURL != "" {
		slog.Info("using postgres store")
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	slog.Info("using sqlite store", "path", cfg.DatabasePath)
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// newLimiter shares the auth rate limit through Redis when REDIS_ADDR is set
// and keeps it in memory otherwise.
func newLimiter(ctx context.Context, cfg config.Config) (service.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		perMinute := float64(cfg.AuthRatePerMinute)
		return service.NewTokenBucket(perMinute/60, perMinute), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	slog.Info("using redis rate limiter", "addr", cfg.RedisAddr)

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	return service.NewRedisLimiter(client, int64(cfg.AuthRatePerMinute), time.Minute), closeFn, nil
}
