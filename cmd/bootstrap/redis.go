package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis returns nil when REDIS_ADDR is unset; the reference cache is then
// skipped.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.Redis.Enabled() {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, reference reads go to the store", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	logger.Info("reference cache enabled (redis)", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	return rdb
}
