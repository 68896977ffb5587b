package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/internal/cache"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/internal/testutil"
	"qrlink-go/internal/worker"
)

const testSalt = "test-salt"

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	store    cache.Store
	tasks    *worker.Detached
	mappings *repository.MappingRepository
	events   *repository.ScanEventRepository
	usage    *UsageService
	scans    *ScanService
	redirect *RedirectService
}

// newTestEnv withRedis 为 false 时使用 cache.Noop
func newTestEnv(t *testing.T, withRedis bool) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	env := &testEnv{
		db:    testutil.NewDB(t),
		store: cache.Noop{},
		tasks: worker.NewDetached(logger, 5*time.Second, 0),
	}
	if withRedis {
		env.mr, env.store = testutil.NewRedis(t)
	}

	env.mappings = repository.NewMappingRepository(env.db, logger)
	env.events = repository.NewScanEventRepository(env.db)
	env.usage = NewUsageService(repository.NewUsageRepository(env.db), logger)
	env.scans = NewScanService(env.events, env.usage, testSalt, logger)
	env.redirect = NewRedirectService(env.mappings, env.store, env.scans, env.tasks, time.Hour, logger)
	return env
}

// settle 等待后台任务完成
func (e *testEnv) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.tasks.Wait(ctx); err != nil {
		t.Fatalf("detached tasks did not finish: %v", err)
	}
}

func (e *testEnv) seedMapping(t *testing.T, code, destination string, org *string, active bool) *model.ShortCodeMapping {
	t.Helper()
	m := &model.ShortCodeMapping{
		Code:           code,
		DestinationURL: destination,
		QRResourceID:   "qr_" + code,
		OrganizationID: org,
		IsActive:       active,
	}
	if err := e.db.Create(m).Error; err != nil {
		t.Fatalf("seed mapping %s: %v", code, err)
	}
	return m
}

func (e *testEnv) countScans(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.ScanEvent{}).Count(&n).Error; err != nil {
		t.Fatalf("count scans: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }
