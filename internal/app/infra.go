package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/internal/repo"
	"github.com/Alijeyrad/dentalcenter/internal/store"
	"github.com/Alijeyrad/dentalcenter/pkg/authorize"
	"github.com/Alijeyrad/dentalcenter/pkg/logs"
	"github.com/Alijeyrad/dentalcenter/pkg/observability"
	"github.com/Alijeyrad/dentalcenter/pkg/password"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideBackend),
	fx.Provide(ProvideRepo),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	l := logs.New(cfg)
	slog.SetDefault(l)
	return l
}

func ProvideBackend(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (store.Backend, error) {
	backend, err := store.Open(context.Background(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("closing store backend", "driver", cfg.Store.Driver)
			return backend.Close()
		},
	})
	return backend, nil
}

// ProvideRepo wraps the backend and writes the seed dataset for absent keys.
func ProvideRepo(cfg *config.Config, backend store.Backend, logger *slog.Logger) (*repo.Client, error) {
	db := NewRepo(cfg, backend, logger)
	if _, err := Seed(context.Background(), cfg, db, logger); err != nil {
		return nil, err
	}
	return db, nil
}

// ProvideRedis exposes the store's redis client for the rate limiter. It is
// nil for the other drivers.
func ProvideRedis(backend store.Backend) *redis.Client {
	if rb, ok := backend.(*store.RedisBackend); ok {
		return rb.Client()
	}
	return nil
}

func ProvideAuthorization(cfg *config.Config, logger *slog.Logger) (authorize.IAuthorization, error) {
	return authorize.New(context.Background(), authorize.Config{
		EnableAudit: true,
		Logger:      logger,
	})
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ---------------------------------------------------------------------------
// Helpers shared with the CLI commands, which build dependencies without fx.
// ---------------------------------------------------------------------------

func NewRepo(cfg *config.Config, backend store.Backend, logger *slog.Logger) *repo.Client {
	return repo.New(store.New(backend,
		store.WithNamespace(cfg.Store.Namespace),
		store.WithLogger(logger),
	))
}

// Seed writes the default dataset for every absent key and returns the keys
// it wrote.
func Seed(ctx context.Context, cfg *config.Config, db *repo.Client, logger *slog.Logger) ([]string, error) {
	var hash func(string) (string, error)
	if cfg.Authentication.HashSeedPasswords {
		hash = password.NewHasher(password.FromCentralConfig(cfg.Password)).Hash
	}

	seed, err := repo.DefaultSeed(hash)
	if err != nil {
		return nil, err
	}
	written, err := db.Initialize(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	if len(written) > 0 {
		logger.Info("seeded store", "keys", written)
	}
	return written, nil
}
