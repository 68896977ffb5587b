package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"qrlink-go/internal/cache"
	"qrlink-go/internal/config"
)

// OpenCache 按配置创建缓存；未配置 Redis 时返回 cache.Noop
//
// Redis 启动时不可达只记录日志，不影响服务启动。
func OpenCache(cfg config.RedisConfig, logger *zap.Logger) (cache.Store, func() error) {
	if !cfg.Enabled() {
		logger.Warn("Redis not configured, running without cache")
		return cache.Noop{}, func() error { return nil }
	}

	pool := cache.NewPool(cache.PoolOptions{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		IdleTimeout: cfg.IdleTimeout,
		DialTimeout: cfg.DialTimeout,
	}, logger)
	store := cache.NewRedisStore(pool, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := store.Get(ctx, "ping"); err != nil && !errors.Is(err, cache.ErrMiss) {
		logger.Warn("Redis not reachable at startup, cache degraded",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
	}

	return store, store.Close
}
