package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"qrlink-go/constant"
	"qrlink-go/internal/cache"
	"qrlink-go/internal/model"
)

// RateLimitResult Limit 为 -1 时表示不限量
type RateLimitResult struct {
	Allowed   bool
	Current   int64
	Limit     int64
	Remaining int64
}

// Unlimited 是否应省略限流响应头
func (r RateLimitResult) Unlimited() bool {
	return r.Limit == model.UnlimitedDailyLimit
}

// RateLimitService 按 UTC 自然日的固定窗口计数
//
// 当天第一次计数时设置过期时间，之后不再续期。计数存储不可用时放行。
type RateLimitService struct {
	counter cache.Store
	now     func() time.Time
	logger  *zap.Logger
}

func NewRateLimitService(counter cache.Store, logger *zap.Logger) *RateLimitService {
	return &RateLimitService{
		counter: cache.OrNoop(counter),
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock 替换时间来源
func (s *RateLimitService) WithClock(now func() time.Time) *RateLimitService {
	s.now = now
	return s
}

func (s *RateLimitService) Check(ctx context.Context, keyID string, limitPerDay int64) RateLimitResult {
	if limitPerDay == model.UnlimitedDailyLimit {
		return RateLimitResult{Allowed: true, Limit: limitPerDay, Remaining: limitPerDay}
	}

	failOpen := RateLimitResult{Allowed: true, Limit: limitPerDay, Remaining: limitPerDay}
	if !s.counter.Enabled() {
		return failOpen
	}

	key := constant.GetRateLimitKey(keyID, constant.GetDateKey(s.now()))
	current, err := s.counter.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Rate limit counter unavailable, allowing request",
			zap.String("key_id", keyID),
			zap.Error(err),
		)
		return failOpen
	}

	if current == 1 {
		if err := s.counter.Expire(ctx, key, constant.RateLimitTTL); err != nil {
			s.logger.Warn("Failed to set rate limit expiry",
				zap.String("cache_key", key),
				zap.Error(err),
			)
		}
	}

	remaining := limitPerDay - current
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   current <= limitPerDay,
		Current:   current,
		Limit:     limitPerDay,
		Remaining: remaining,
	}
}
