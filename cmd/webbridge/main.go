package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webbridge/core/config"
	"github.com/dmitrymomot/webbridge/core/container"
	"github.com/dmitrymomot/webbridge/core/gateway"
	"github.com/dmitrymomot/webbridge/core/health"
	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/server"
	"github.com/dmitrymomot/webbridge/core/session"
	"github.com/dmitrymomot/webbridge/core/storage"
	"github.com/dmitrymomot/webbridge/integration/database/redis"
	"github.com/dmitrymomot/webbridge/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)

	var (
		rdb    *goredis.Client
		checks []health.Check
		err    error
	)
	if cfg.usesRedis() {
		// Connect retries and pings before returning.
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("Failed to connect to redis", logger.Component("redis"), logger.Error(err))
			os.Exit(1)
		}
		defer rdb.Close()
		checks = append(checks, redis.Healthcheck(rdb))
	}

	c, err := newContainer(cfg, rdb, log)
	if err != nil {
		log.Error("Failed to create container", logger.Component("container"), logger.Error(err))
		os.Exit(1)
	}

	uploads, err := storage.NewFromConfig(cfg.Storage)
	if err != nil {
		log.Error("Failed to create upload storage", logger.Component("storage"), logger.Error(err))
		os.Exit(1)
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.SessionStore == "redis" {
		store = redis.NewSessionStore(rdb, append(redis.FromConfig(cfg.Redis), redis.WithLogger(log))...)
	}
	sessions := session.NewManager(store,
		session.WithConfig(cfg.Session),
		session.WithCookieConfig(cfg.Cookie),
		session.WithLogger(log),
	)

	gw, err := gateway.New(newPageEngine(log),
		gateway.WithConfig(cfg.Gateway),
		gateway.WithContainer(c),
		gateway.WithSessions(sessions),
		gateway.WithStorage(uploads),
		gateway.WithCookieConfig(cfg.Cookie),
		gateway.WithLogger(log),
	)
	if err != nil {
		log.Error("Failed to create gateway", logger.Component("gateway"), logger.Error(err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		chimw.CleanPath,
		middleware.SecurityHeaders(securityHeaders(cfg)),
		middleware.BodyLimit(middleware.BodyLimitConfig{
			MaxSize:          cfg.BodyLimit,
			ContentTypeLimit: map[string]int64{"multipart/form-data": cfg.UploadLimit},
		}),
	)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(log, checks...))
	r.Get("/ping", health.NoContent)
	r.Handle("/*", gw)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, r))
	eg.Go(cleanupSessions(ctx, sessions, cfg.SessionCleanupInterval, log))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}

func newLogger(cfg Config) *slog.Logger {
	switch cfg.Env {
	case "production":
		return logger.New(logger.WithProduction(cfg.AppName))
	case "staging":
		return logger.New(logger.WithStaging(cfg.AppName))
	default:
		return logger.New(logger.WithDevelopment(cfg.AppName))
	}
}

func securityHeaders(cfg Config) middleware.SecurityHeadersConfig {
	if cfg.Env == "development" {
		return middleware.DevelopmentSecurity
	}
	return middleware.BalancedSecurity
}

func newContainer(cfg Config, rdb *goredis.Client, log *slog.Logger) (*container.Container, error) {
	opts := []container.Option{container.WithLogger(log)}

	if cfg.AliasesFile != "" {
		aliases, err := container.LoadAliases(cfg.AliasesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, container.WithAliases(aliases))
	}
	if cfg.SharedApplication {
		app := redis.NewAttributeStore(rdb, cfg.AppName, append(redis.FromConfig(cfg.Redis), redis.WithLogger(log))...)
		opts = append(opts, container.WithApplicationStore(app))
	}

	return container.New(cfg.WebRoot, opts...)
}

// cleanupSessions purges expired sessions every interval until ctx ends.
func cleanupSessions(ctx context.Context, m *session.Manager, interval time.Duration, log *slog.Logger) func() error {
	return func() error {
		if interval <= 0 {
			return nil
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := m.CleanupExpired(ctx)
				if err != nil {
					log.WarnContext(ctx, "session cleanup failed", logger.Component("session"), logger.Error(err))
					continue
				}
				if n > 0 {
					log.InfoContext(ctx, "expired sessions removed", logger.Component("session"), logger.Count("sessions", int(n)))
				}
			}
		}
	}
}
