package service

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/constant"
	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/cache"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/internal/worker"
	"qrlink-go/pkg/netinfo"
	"qrlink-go/pkg/shortcode"
	"qrlink-go/pkg/utils"
)

// Spawner 启动与响应解耦的后台任务，*worker.Detached 满足该接口
type Spawner interface {
	Go(name string, task worker.Task) bool
}

// ResolveRequest OrganizationScope 非空表示请求来自该组织的自定义域名
type ResolveRequest struct {
	Code              string
	OrganizationScope string
	Client            netinfo.ClientMeta
}

// Resolution 解析结果，调用方据此返回 302
type Resolution struct {
	model.CachedRedirect
	CacheHit bool
}

// RedirectService 短码跳转：先查缓存，未命中查库并异步回填
type RedirectService struct {
	mappings *repository.MappingRepository
	cache    cache.Store
	scans    *ScanService
	tasks    Spawner
	ttl      time.Duration
	logger   *zap.Logger
}

func NewRedirectService(
	mappings *repository.MappingRepository,
	store cache.Store,
	scans *ScanService,
	tasks Spawner,
	ttl time.Duration,
	logger *zap.Logger,
) *RedirectService {
	if ttl <= 0 {
		ttl = constant.RedirectTTL
	}
	return &RedirectService{
		mappings: mappings,
		cache:    cache.OrNoop(store),
		scans:    scans,
		tasks:    tasks,
		ttl:      ttl,
		logger:   logger,
	}
}

// Resolve 返回 NotFound/Inactive/InvalidRedirect/StoreUnavailable 之一或可跳转的结果
//
// 扫码记录在后台执行，不影响返回值。
func (s *RedirectService) Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error) {
	if !shortcode.IsValid(req.Code) {
		return nil, apperrors.NotFoundError("error.code_not_found")
	}

	res, err := s.lookup(ctx, req.Code, req.OrganizationScope)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateRedirectScheme(res.DestinationURL); err != nil {
		s.logger.Warn("Rejected redirect with disallowed scheme",
			zap.String("short_code", req.Code),
			zap.Bool("cache_hit", res.CacheHit),
		)
		return nil, apperrors.InvalidRedirectError(err)
	}

	scan := ScanInput{
		QRResourceID:   res.QRResourceID,
		OrganizationID: res.OrganizationID,
		Client:         req.Client,
	}
	s.tasks.Go("record_scan", func(ctx context.Context) error {
		s.scans.Record(ctx, scan)
		return nil
	})

	return res, nil
}

// lookup 自定义域名下不属于该组织的短码一律 NotFound，先于 isActive 判断
func (s *RedirectService) lookup(ctx context.Context, code, scope string) (*Resolution, error) {
	key := constant.GetRedirectKey(code)

	if cached, ok := s.fromCache(ctx, key); ok {
		if !inScope(cached.OrganizationID, scope) {
			return nil, apperrors.NotFoundError("error.code_not_found")
		}
		return &Resolution{CachedRedirect: cached, CacheHit: true}, nil
	}

	mapping, err := s.mappings.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundError("error.code_not_found")
	}
	if err != nil {
		s.logger.Error("Failed to query short code mapping",
			zap.String("short_code", code),
			zap.Error(err),
		)
		return nil, apperrors.StoreUnavailableError(err)
	}
	if !inScope(mapping.OrganizationID, scope) {
		return nil, apperrors.NotFoundError("error.code_not_found")
	}
	if !mapping.IsActive {
		return nil, apperrors.InactiveError()
	}

	projection := mapping.Projection()
	if s.cache.Enabled() {
		s.tasks.Go("populate_redirect_cache", func(ctx context.Context) error {
			data, err := cbor.Marshal(projection)
			if err != nil {
				return err
			}
			return s.cache.Set(ctx, key, data, s.ttl)
		})
	}
	return &Resolution{CachedRedirect: projection}, nil
}

// fromCache 任何缓存错误都按未命中处理
func (s *RedirectService) fromCache(ctx context.Context, key string) (model.CachedRedirect, bool) {
	var cached model.CachedRedirect

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Redirect cache read failed, falling back to store",
				zap.String("cache_key", key),
				zap.Error(err),
			)
		}
		return cached, false
	}

	if err := cbor.Unmarshal(data, &cached); err != nil || cached.DestinationURL == "" {
		s.logger.Warn("Discarding undecodable redirect cache entry",
			zap.String("cache_key", key),
			zap.Error(err),
		)
		return model.CachedRedirect{}, false
	}
	return cached, true
}

// inScope scope 为空表示主域名，不限制组织
func inScope(organizationID *string, scope string) bool {
	if scope == "" {
		return true
	}
	return organizationID != nil && *organizationID == scope
}
