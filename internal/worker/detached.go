package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task 后台任务，返回的错误只记录日志
type Task func(ctx context.Context) error

// Detached 运行与请求响应解耦的后台任务（缓存回填、扫码记录等）
//
// 每个任务使用独立的超时上下文，不重试；并发数达到上限时直接丢弃并记录日志。
type Detached struct {
	logger  *zap.Logger
	timeout time.Duration
	slots   chan struct{}

	mu       sync.Mutex
	inFlight int
	idle     chan struct{} // inFlight 归零时关闭
	closed   bool
}

// NewDetached maxInFlight <= 0 表示不限制并发
func NewDetached(logger *zap.Logger, timeout time.Duration, maxInFlight int) *Detached {
	d := &Detached{
		logger:  logger,
		timeout: timeout,
		idle:    make(chan struct{}),
	}
	close(d.idle)
	if maxInFlight > 0 {
		d.slots = make(chan struct{}, maxInFlight)
	}
	return d
}

// Go 启动任务，立即返回；返回 false 表示任务被丢弃（并发已满或已 Shutdown）
func (d *Detached) Go(name string, task Task) bool {
	if !d.acquire() {
		d.logger.Warn("Detached task dropped, runner shut down", zap.String("task", name))
		return false
	}

	if d.slots != nil {
		select {
		case d.slots <- struct{}{}:
		default:
			d.release()
			d.logger.Warn("Detached task dropped, too many in flight",
				zap.String("task", name),
				zap.Int("max_in_flight", cap(d.slots)),
			)
			return false
		}
	}

	go func() {
		defer d.release()
		if d.slots != nil {
			defer func() { <-d.slots }()
		}
		d.run(name, task)
	}()
	return true
}

// acquire 在锁内计数，Shutdown 之后拒绝
func (d *Detached) acquire() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if d.inFlight == 0 {
		d.idle = make(chan struct{})
	}
	d.inFlight++
	return true
}

func (d *Detached) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--
	if d.inFlight == 0 {
		close(d.idle)
	}
}

func (d *Detached) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Detached task panicked",
				zap.String("task", name),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := task(ctx); err != nil {
		d.logger.Warn("Detached task failed",
			zap.String("task", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
}

// Wait 等待当前进行中的任务全部完成，ctx 到期后不再等待
//
// 与 Go 并发调用是安全的；等待期间新启动的任务也会被等待。
func (d *Detached) Wait(ctx context.Context) error {
	for {
		d.mu.Lock()
		if d.inFlight == 0 {
			d.mu.Unlock()
			return nil
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown 不再接受新任务，然后等待进行中的任务
func (d *Detached) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Wait(ctx)
}
