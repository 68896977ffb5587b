// Package testutil 测试用的数据库与 Redis
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/internal/cache"
	"qrlink-go/internal/config"
	"qrlink-go/internal/repository"
)

// NewDB 在临时目录中创建已迁移的 SQLite 数据库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "qrlink.db") + "?_busy_timeout=5000"
	db, err := repository.OpenDB(config.DBConfig{
		Driver:      "sqlite",
		DSN:         dsn,
		AutoMigrate: true,
	}, zap.NewNop(), zap.NewAtomicLevelAt(zap.WarnLevel))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = repository.CloseDB(db) })
	return db
}

// NewRedis 启动进程内 Redis，通过真实的 redigo 连接池访问
func NewRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	pool := cache.NewPool(cache.PoolOptions{Addr: mr.Addr(), MaxIdle: 4}, zap.NewNop())
	store := cache.NewRedisStore(pool, zap.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}
