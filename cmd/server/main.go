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
	"golang.org/x/sync/errgroup"

	authhandler "stellariq/internal/auth/handler"
	"stellariq/internal/auth/password"
	"stellariq/internal/auth/service"
	"stellariq/internal/auth/store/attempts"
	userstore "stellariq/internal/auth/store/user"
	httpapi "stellariq/internal/http"
	jwttoken "stellariq/internal/jwt_token"
	planninghandler "stellariq/internal/planning/handler"
	"stellariq/internal/platform/config"
	"stellariq/internal/platform/httpserver"
	"stellariq/internal/platform/logger"
	"stellariq/internal/platform/metrics"
	"stellariq/internal/platform/middleware"
	"stellariq/internal/platform/postgres"
	"stellariq/internal/platform/redis"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(registry)

	users, closeUsers, err := buildUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeUsers()

	limiter, closeLimiter, err := buildAttemptStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	tokens, err := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	authService, err := service.New(users, password.NewHasher(cfg.Auth.BcryptCost), tokens,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithLoginLimiter(limiter, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow),
	)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Environment:    cfg.Environment,
		ExposeErrors:   cfg.IsDevelopment(),
		RequestTimeout: requestTimeout,
		Metrics:        m,
		Gatherer:       registry,
		Handlers: []httpapi.Registrar{
			authhandler.New(authService, middleware.RequireAuth(tokens, users, log, m), log),
			planninghandler.New(middleware.OptionalAuth(tokens, users, log)),
		},
	})
	srv := httpserver.New(cfg.Addr, router, requestTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting stellariq api", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildUserStore picks Postgres when DATABASE_URL is set and the in-memory store otherwise.
func buildUserStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.UserStore, func(), error) {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.Warn("DATABASE_URL not set; accounts are kept in memory")
		return userstore.New(), func() {}, nil
	}
	store := userstore.NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func buildAttemptStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.AttemptStore, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set; login attempts are tracked in process")
		return attempts.NewInMemory(), func() {}, nil
	}
	return attempts.NewRedis(client), func() { _ = client.Close() }, nil
}
