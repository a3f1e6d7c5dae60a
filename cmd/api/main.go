// @title                       Film API
// @version                     1.0
// @description                 Film and director catalog with JWT authentication and user/admin roles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  SetupToken
// @in                          header
// @name                        X-Setup-Token
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/handler"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/api/middleware"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/ports"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/core/service"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/infrastructure/db/memory"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/infrastructure/db/mongo"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/infrastructure/db/postgres"
	redisstore "github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/infrastructure/db/redis"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/internal/pkg/config"
	"github.com/sofiahaqiasofia-hub/film-api-haqia-prod/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("film-api stopped")
		fmt.Fprintf(os.Stderr, "film-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: handler.ServiceName,
		Env:     cfg.Env,
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Str("backend", store.Name()).Msg("store close failed")
		}
	}()
	log.Info().Str("backend", store.Name()).Msg("store ready")

	readiness := map[string]handler.Pinger{store.Name(): store}

	var (
		cache          ports.CatalogCache
		rateLimitStore *redisstore.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without cache")
		} else {
			defer closeRedis(rdb, log)
			cache = redisstore.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
			rateLimitStore = redisstore.NewRateLimitStore(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
			readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
			log.Info().Str("addr", cfg.Redis.Addr).Dur("cache_ttl", cfg.Redis.CacheTTL).Msg("redis connected")
		}
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	if cfg.SeedDemo {
		seeded, err := service.SeedCatalog(ctx, store, log)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		log.Info().Bool("seeded", seeded).Msg("demo catalog checked")
	}

	var rateLimit *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		rateLimit = &middleware.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		}
		if rateLimitStore != nil {
			rateLimit.Store = rateLimitStore
		}
	}

	e := api.NewRouter(api.Deps{
		Tokens:          tokens,
		Auth:            service.NewAuthService(store.Users(), tokens, cfg.Auth.BcryptCost, log),
		Movies:          service.NewMovieService(store.Movies(), cache, log),
		Directors:       service.NewDirectorService(store.Directors(), cache, log),
		Logger:          log,
		AdminSetupToken: cfg.Auth.AdminSetupToken,
		RateLimit:       rateLimit,
		Readiness:       readiness,
	})

	if cfg.Auth.AdminSetupToken == "" {
		log.Info().Msg("ADMIN_SETUP_TOKEN not set, bootstrap admin registration disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// openStore selects the persistence backend named by STORAGE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		return postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			Debug:           cfg.LogLevel == "debug",
		})
	case config.BackendMongo:
		return mongo.Open(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
