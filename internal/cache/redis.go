package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// PoolOptions Redis 连接池参数
type PoolOptions struct {
	Addr        string
	Password    string
	DB          int
	MaxIdle     int
	MaxActive   int
	IdleTimeout time.Duration
	DialTimeout time.Duration
}

// NewPool 创建 Redis 连接池，不会立即建立连接
func NewPool(opts PoolOptions, logger *zap.Logger) *redis.Pool {
	if opts.MaxIdle <= 0 {
		opts.MaxIdle = 10
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 240 * time.Second
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}

	return &redis.Pool{
		MaxIdle:     opts.MaxIdle,
		MaxActive:   opts.MaxActive,
		IdleTimeout: opts.IdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			dialOpts := []redis.DialOption{
				redis.DialConnectTimeout(opts.DialTimeout),
				redis.DialReadTimeout(opts.DialTimeout),
				redis.DialWriteTimeout(opts.DialTimeout),
				redis.DialDatabase(opts.DB),
			}
			// 如果设置了密码，由 redigo 在建连时执行 AUTH
			if opts.Password != "" {
				dialOpts = append(dialOpts, redis.DialPassword(opts.Password))
			}

			conn, err := redis.DialContext(ctx, "tcp", opts.Addr, dialOpts...)
			if err != nil {
				logger.Warn("Failed to connect Redis",
					zap.String("addr", opts.Addr),
					zap.Error(err),
				)
				return nil, err
			}
			logger.Debug("Redis connection established",
				zap.String("addr", opts.Addr),
				zap.Bool("auth", opts.Password != ""),
			)
			return conn, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			if err != nil {
				logger.Warn("Redis connection health check failed",
					zap.String("addr", opts.Addr),
					zap.Error(err),
				)
			}
			return err
		},
	}
}

// RedisStore 基于 redigo 连接池的 Store 实现
type RedisStore struct {
	pool   *redis.Pool
	logger *zap.Logger
}

func NewRedisStore(pool *redis.Pool, logger *zap.Logger) *RedisStore {
	return &RedisStore{pool: pool, logger: logger}
}

func (s *RedisStore) Enabled() bool { return true }

func (s *RedisStore) do(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis %s: get connection: %w", cmd, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debug("Failed to close Redis connection",
				zap.String("operation", cmd),
				zap.Error(err),
			)
		}
	}()

	reply, err := redis.DoContext(conn, ctx, cmd, args...)
	if err != nil {
		return nil, fmt.Errorf("redis %s: %w", cmd, err)
	}
	return reply, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := redis.Bytes(s.do(ctx, "GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrMiss
	}
	return value, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.do(ctx, "SET", key, value, "PX", ttl.Milliseconds())
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := s.do(ctx, "DEL", args...)
	return err
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return redis.Int64(s.do(ctx, "INCR", key))
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	_, err := s.do(ctx, "EXPIRE", key, int64(ttl/time.Second))
	return err
}

// Close 关闭连接池
func (s *RedisStore) Close() error {
	return s.pool.Close()
}
