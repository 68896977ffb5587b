package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	pool := NewPool(PoolOptions{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(func() { _ = pool.Close() })
	return mr, NewRedisStore(pool, zap.NewNop())
}

func TestRedisStoreGetSet(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "redirect:X7kP2m"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty store err = %v, want ErrMiss", err)
	}

	if err := store.Set(ctx, "redirect:X7kP2m", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, "redirect:X7kP2m")
	if err != nil || string(got) != "payload" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if ttl := mr.TTL("redirect:X7kP2m"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	if err := store.Delete(ctx, "redirect:X7kP2m"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("redirect:X7kP2m") {
		t.Error("key should be deleted")
	}
}

func TestRedisStoreIncrExpire(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Incr(ctx, "rl:key:2026-10-15")
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if got != want {
			t.Fatalf("Incr = %d, want %d", got, want)
		}
	}
	if err := store.Expire(ctx, "rl:key:2026-10-15", 24*time.Hour); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if ttl := mr.TTL("rl:key:2026-10-15"); ttl != 24*time.Hour {
		t.Errorf("TTL = %v", ttl)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	if _, err := store.Get(context.Background(), "k"); err == nil || errors.Is(err, ErrMiss) {
		t.Fatalf("Get on closed server err = %v, want connection error", err)
	}
	if _, err := store.Incr(context.Background(), "k"); err == nil {
		t.Fatal("Incr on closed server should fail")
	}
}

func TestNoop(t *testing.T) {
	var s Store = OrNoop(nil)
	ctx := context.Background()

	if s.Enabled() {
		t.Error("Noop should report disabled")
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := s.Incr(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Incr err = %v", err)
	}
}
