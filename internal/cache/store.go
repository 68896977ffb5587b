package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss 键不存在
	ErrMiss = errors.New("cache: miss")
	// ErrUnavailable 未配置缓存
	ErrUnavailable = errors.New("cache: unavailable")
)

// Store 缓存与计数器存储。缓存是尽力而为的，调用方需要把任何错误当作未命中处理。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Enabled() bool
}

// Noop 未配置 Redis 时使用：读全部未命中，写和计数返回 ErrUnavailable
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return ErrUnavailable }

func (Noop) Delete(context.Context, ...string) error { return ErrUnavailable }

func (Noop) Incr(context.Context, string) (int64, error) { return 0, ErrUnavailable }

func (Noop) Expire(context.Context, string, time.Duration) error { return ErrUnavailable }

func (Noop) Enabled() bool { return false }

// OrNoop nil 时返回 Noop
func OrNoop(s Store) Store {
	if s == nil {
		return Noop{}
	}
	return s
}
