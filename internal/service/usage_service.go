package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/constant"
	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
)

// UsageService 组织按月的扫码用量
type UsageService struct {
	repo   *repository.UsageRepository
	logger *zap.Logger
}

func NewUsageService(repo *repository.UsageRepository, logger *zap.Logger) *UsageService {
	return &UsageService{repo: repo, logger: logger}
}

// MonthOf UTC 月初日期 YYYY-MM-01
func MonthOf(t time.Time) string {
	return constant.GetMonthKey(t)
}

// Increment 单条 upsert 完成计数，失败只记录日志
func (s *UsageService) Increment(ctx context.Context, organizationID, month string) {
	if err := s.repo.Increment(ctx, organizationID, month); err != nil {
		s.logger.Error("Failed to increment usage",
			zap.String("organization_id", organizationID),
			zap.String("month", month),
			zap.Error(err),
		)
	}
}

// Get 查询某月用量，没有记录时计数为 0
func (s *UsageService) Get(ctx context.Context, organizationID, month string) (*model.UsageRecord, error) {
	rec, err := s.repo.Find(ctx, organizationID, month)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UsageRecord{OrganizationID: organizationID, Month: month}, nil
	}
	if err != nil {
		s.logger.Error("Failed to query usage",
			zap.String("organization_id", organizationID),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, apperrors.StoreUnavailableError(err)
	}
	return rec, nil
}
