package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper *service.DomainService 满足该接口
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler 定时任务，目前只有域名重新验证
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger,
	}
}

// AddDomainSweep 按 cron 表达式定期重新检查未验证的域名，每轮最多运行 timeout
func (s *Scheduler) AddDomainSweep(spec string, sweeper Sweeper, timeout time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() {
		RunDomainSweep(sweeper, timeout, s.logger)
	})
	return err
}

// RunDomainSweep 执行一轮，错误只记录日志
func RunDomainSweep(sweeper Sweeper, timeout time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	n, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.Error("Domain sweep failed", zap.Error(err))
		return
	}
	logger.Info("Domain sweep finished",
		zap.Int("checked", n),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 等待正在执行的任务结束，ctx 到期后不再等待
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}
