package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"qrlink-go/internal/repository"
)

func TestMonthOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 本地已是 11 月，UTC 仍是 10 月
	got := MonthOf(time.Date(2026, 11, 1, 3, 0, 0, 0, loc))
	if got != "2026-10-01" {
		t.Fatalf("MonthOf = %q, want 2026-10-01", got)
	}
}

func TestUsageConcurrentIncrements(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env.usage.Increment(ctx, "org_1", "2026-10-01")
		}()
	}
	wg.Wait()

	rec, err := env.usage.Get(ctx, "org_1", "2026-10-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ScansCount != 50 {
		t.Fatalf("scans_count = %d, want 50", rec.ScansCount)
	}
}

func TestUsageMonthsAndOrganizationsAreSeparate(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	env.usage.Increment(ctx, "org_1", "2026-09-01")
	env.usage.Increment(ctx, "org_1", "2026-10-01")
	env.usage.Increment(ctx, "org_1", "2026-10-01")
	env.usage.Increment(ctx, "org_2", "2026-10-01")

	tests := []struct {
		org, month string
		want       int64
	}{
		{"org_1", "2026-09-01", 1},
		{"org_1", "2026-10-01", 2},
		{"org_2", "2026-10-01", 1},
		{"org_3", "2026-10-01", 0},
	}
	for _, tt := range tests {
		rec, err := env.usage.Get(ctx, tt.org, tt.month)
		if err != nil {
			t.Fatalf("Get(%s, %s): %v", tt.org, tt.month, err)
		}
		if rec.ScansCount != tt.want {
			t.Errorf("Get(%s, %s) = %d, want %d", tt.org, tt.month, rec.ScansCount, tt.want)
		}
	}
}

func TestUsageIncrementSwallowsStoreErrors(t *testing.T) {
	env := newTestEnv(t, false)
	if err := repository.CloseDB(env.db); err != nil {
		t.Fatal(err)
	}
	env.usage.Increment(context.Background(), "org_1", "2026-10-01")

	if _, err := env.usage.Get(context.Background(), "org_1", "2026-10-01"); err == nil {
		t.Fatal("Get on a closed store should fail")
	}
}
