package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type sweeperFunc func(ctx context.Context) (int, error)

func (f sweeperFunc) Sweep(ctx context.Context) (int, error) { return f(ctx) }

func TestRunDomainSweepAppliesTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	RunDomainSweep(sweeperFunc(func(ctx context.Context) (int, error) {
		deadline, ok = ctx.Deadline()
		return 3, nil
	}), time.Minute, zap.NewNop())

	if !ok || time.Until(deadline) <= 0 {
		t.Fatal("sweep should run with a deadline")
	}
}

func TestRunDomainSweepSwallowsErrors(t *testing.T) {
	RunDomainSweep(sweeperFunc(func(ctx context.Context) (int, error) {
		return 0, errors.New("db down")
	}), time.Second, zap.NewNop())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	if err := s.AddDomainSweep("not a cron spec", sweeperFunc(nil), time.Second); err == nil {
		t.Fatal("invalid spec should be rejected")
	}
	if err := s.AddDomainSweep("*/10 * * * *", sweeperFunc(nil), time.Second); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
