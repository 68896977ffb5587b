package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/constant"
	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/cache"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/shortcode"
	"qrlink-go/pkg/utils"
)

// CodeStats 单个短码的扫码统计
type CodeStats struct {
	Code      string              `json:"code"`
	Total     int64               `json:"total"`
	ByDevice  []repository.Bucket `json:"byDevice"`
	ByCountry []repository.Bucket `json:"byCountry"`
}

// MappingService 短码映射的管理
//
// invalidateOnUpdate 为 false 时修改不清缓存，旧数据最多保留一个 TTL。
type MappingService struct {
	mappings           *repository.MappingRepository
	scans              *repository.ScanEventRepository
	cache              cache.Store
	invalidateOnUpdate bool
	generate           func() (string, error)
	logger             *zap.Logger
}

func NewMappingService(
	mappings *repository.MappingRepository,
	scans *repository.ScanEventRepository,
	store cache.Store,
	invalidateOnUpdate bool,
	logger *zap.Logger,
) *MappingService {
	return &MappingService{
		mappings:           mappings,
		scans:              scans,
		cache:              cache.OrNoop(store),
		invalidateOnUpdate: invalidateOnUpdate,
		generate:           shortcode.Generate,
		logger:             logger,
	}
}

// Create 为组织创建新短码
func (s *MappingService) Create(ctx context.Context, organizationID, qrResourceID, destination string) (*model.ShortCodeMapping, error) {
	if err := utils.ValidateDestinationURL(destination); err != nil {
		return nil, apperrors.InvalidRequestError("error.destination_url_invalid")
	}

	org := organizationID
	m := &model.ShortCodeMapping{
		DestinationURL: destination,
		QRResourceID:   qrResourceID,
		OrganizationID: &org,
		IsActive:       true,
	}
	if err := s.mappings.Create(ctx, m, s.generate); err != nil {
		s.logger.Error("Failed to create short code mapping",
			zap.String("organization_id", organizationID),
			zap.String("qr_resource_id", qrResourceID),
			zap.Error(err),
		)
		if errors.Is(err, repository.ErrCodeSpaceExhausted) {
			return nil, apperrors.SystemError("error.code_generation_failed")
		}
		return nil, apperrors.StoreUnavailableError(err)
	}
	return m, nil
}

// Get 只能查看本组织的短码
func (s *MappingService) Get(ctx context.Context, organizationID, code string) (*model.ShortCodeMapping, error) {
	if !shortcode.IsValid(code) {
		return nil, apperrors.NotFoundError("error.code_not_found")
	}
	m, err := s.mappings.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !ownedBy(m, organizationID)) {
		return nil, apperrors.NotFoundError("error.code_not_found")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	return m, nil
}

func (s *MappingService) UpdateDestination(ctx context.Context, organizationID, code, destination string) (*model.ShortCodeMapping, error) {
	if err := utils.ValidateDestinationURL(destination); err != nil {
		return nil, apperrors.InvalidRequestError("error.destination_url_invalid")
	}
	m, err := s.Get(ctx, organizationID, code)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.UpdateDestination(ctx, m.ID, destination); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	m.DestinationURL = destination
	s.afterUpdate(ctx, code)
	return m, nil
}

// SetActive 停用不删除
func (s *MappingService) SetActive(ctx context.Context, organizationID, code string, active bool) (*model.ShortCodeMapping, error) {
	m, err := s.Get(ctx, organizationID, code)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.SetActive(ctx, m.ID, active); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	m.IsActive = active
	s.afterUpdate(ctx, code)
	return m, nil
}

// Stats 按设备类型和国家汇总
func (s *MappingService) Stats(ctx context.Context, organizationID, code string) (*CodeStats, error) {
	m, err := s.Get(ctx, organizationID, code)
	if err != nil {
		return nil, err
	}

	stats := &CodeStats{Code: m.Code}
	if stats.Total, err = s.scans.CountByResource(ctx, m.QRResourceID); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	if stats.ByDevice, err = s.scans.GroupByResource(ctx, m.QRResourceID, "device_type"); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	if stats.ByCountry, err = s.scans.GroupByResource(ctx, m.QRResourceID, "country_code"); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	return stats, nil
}

func (s *MappingService) afterUpdate(ctx context.Context, code string) {
	if !s.invalidateOnUpdate || !s.cache.Enabled() {
		return
	}
	key := constant.GetRedirectKey(code)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to invalidate redirect cache",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}

func ownedBy(m *model.ShortCodeMapping, organizationID string) bool {
	return m.OrganizationID != nil && *m.OrganizationID == organizationID
}
