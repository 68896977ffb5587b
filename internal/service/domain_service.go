package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/constant"
	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/cache"
	"qrlink-go/internal/dnscheck"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/utils"
)

// DNSChecker *dnscheck.Checker 满足该接口
type DNSChecker interface {
	Check(ctx context.Context, hostname string) (dnscheck.Result, error)
}

// DomainOptions 自定义域名相关参数
type DomainOptions struct {
	CacheTTL     time.Duration
	RecheckAfter time.Duration
	SweepBatch   int
}

// DomainService 自定义域名到组织的映射及验证状态机
//
// unverified -> verifying -> verified；DNS 服务不可达时状态不变，只记录错误。
type DomainService struct {
	repo    *repository.DomainRepository
	cache   cache.Store
	checker DNSChecker
	tasks   Spawner
	opts    DomainOptions
	now     func() time.Time
	logger  *zap.Logger
}

func NewDomainService(
	repo *repository.DomainRepository,
	store cache.Store,
	checker DNSChecker,
	tasks Spawner,
	opts DomainOptions,
	logger *zap.Logger,
) *DomainService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = constant.DomainTTL
	}
	if opts.SweepBatch <= 0 {
		opts.SweepBatch = 100
	}
	return &DomainService{
		repo:    repo,
		cache:   cache.OrNoop(store),
		checker: checker,
		tasks:   tasks,
		opts:    opts,
		now:     time.Now,
		logger:  logger,
	}
}

// Lookup 返回已验证域名所属的组织
func (s *DomainService) Lookup(ctx context.Context, hostname string) (string, error) {
	hostname = utils.NormalizeHostname(hostname)
	key := constant.GetDomainKey(hostname)

	data, err := s.cache.Get(ctx, key)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Domain cache read failed, falling back to store",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}

	d, err := s.repo.FindByHostname(ctx, hostname)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.NotFoundError("error.domain_not_found")
	}
	if err != nil {
		s.logger.Error("Failed to query custom domain",
			zap.String("hostname", hostname),
			zap.Error(err),
		)
		return "", apperrors.StoreUnavailableError(err)
	}
	if d.Status != model.DomainVerified {
		return "", apperrors.NotFoundError("error.domain_not_found")
	}

	orgID := d.OrganizationID
	if s.cache.Enabled() {
		s.tasks.Go("populate_domain_cache", func(ctx context.Context) error {
			return s.cache.Set(ctx, key, []byte(orgID), s.opts.CacheTTL)
		})
	}
	return orgID, nil
}

// Add 登记域名；其他组织未验证的记录会被转移，已验证的返回冲突
func (s *DomainService) Add(ctx context.Context, organizationID, hostname string) (*model.CustomDomain, error) {
	hostname = utils.NormalizeHostname(hostname)
	if err := utils.ValidateHostname(hostname); err != nil {
		return nil, apperrors.InvalidRequestError("error.hostname_invalid")
	}

	existing, err := s.repo.FindByHostname(ctx, hostname)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		d := &model.CustomDomain{
			Hostname:       hostname,
			OrganizationID: organizationID,
			Status:         model.DomainUnverified,
		}
		if err := s.repo.Create(ctx, d); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ConflictError("error.domain_taken")
			}
			return nil, apperrors.StoreUnavailableError(err)
		}
		s.logger.Info("Custom domain added",
			zap.String("hostname", hostname),
			zap.String("organization_id", organizationID),
		)
		return d, nil
	case err != nil:
		return nil, apperrors.StoreUnavailableError(err)
	}

	if existing.OrganizationID == organizationID {
		return existing, nil
	}
	if existing.Status == model.DomainVerified {
		return nil, apperrors.ConflictError("error.domain_taken")
	}

	previous := existing.OrganizationID
	existing.OrganizationID = organizationID
	existing.Status = model.DomainUnverified
	existing.VerifiedAt = nil
	existing.LastError = ""
	existing.LastCheckedAt = nil
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	s.invalidate(ctx, hostname)

	s.logger.Info("Custom domain ownership transferred",
		zap.String("hostname", hostname),
		zap.String("from_organization_id", previous),
		zap.String("to_organization_id", organizationID),
	)
	return existing, nil
}

// Remove 删除域名并清除缓存
func (s *DomainService) Remove(ctx context.Context, organizationID, hostname string) error {
	d, err := s.owned(ctx, organizationID, hostname)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, d); err != nil {
		return apperrors.StoreUnavailableError(err)
	}
	s.invalidate(ctx, d.Hostname)
	return nil
}

// List 组织下的全部域名
func (s *DomainService) List(ctx context.Context, organizationID string) ([]model.CustomDomain, error) {
	list, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	return list, nil
}

// Verify 立即检查一次 DNS
func (s *DomainService) Verify(ctx context.Context, organizationID, hostname string) (*model.CustomDomain, error) {
	d, err := s.owned(ctx, organizationID, hostname)
	if err != nil {
		return nil, err
	}
	if d.Status == model.DomainVerified {
		return d, nil
	}
	if err := s.check(ctx, d); err != nil {
		return d, err
	}
	return d, nil
}

// Sweep 重新检查一批长时间未检查的未验证域名，返回检查的数量
func (s *DomainService) Sweep(ctx context.Context) (int, error) {
	before := s.now().Add(-s.opts.RecheckAfter)
	pending, err := s.repo.ListPending(ctx, before, s.opts.SweepBatch)
	if err != nil {
		return 0, err
	}

	checked := 0
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		d := &pending[i]
		if err := s.check(ctx, d); err != nil {
			s.logger.Warn("Domain re-verification deferred",
				zap.String("hostname", d.Hostname),
				zap.Error(err),
			)
		}
		checked++
	}
	return checked, nil
}

func (s *DomainService) check(ctx context.Context, d *model.CustomDomain) error {
	now := s.now().UTC()
	d.LastCheckedAt = &now

	res, err := s.checker.Check(ctx, d.Hostname)
	if err != nil {
		// 不改变状态，只记录失败，等待下次检查
		d.LastError = err.Error()
		if saveErr := s.repo.Save(ctx, d); saveErr != nil {
			return apperrors.StoreUnavailableError(saveErr)
		}
		return apperrors.ProviderUnavailableError(err)
	}

	if !res.Configured {
		d.Status = model.DomainVerifying
		d.LastError = res.Reason
		if err := s.repo.Save(ctx, d); err != nil {
			return apperrors.StoreUnavailableError(err)
		}
		return nil
	}

	d.Status = model.DomainVerified
	d.VerifiedAt = &now
	d.LastError = ""
	if err := s.repo.Save(ctx, d); err != nil {
		return apperrors.StoreUnavailableError(err)
	}

	key := constant.GetDomainKey(d.Hostname)
	if err := s.cache.Set(ctx, key, []byte(d.OrganizationID), s.opts.CacheTTL); err != nil && s.cache.Enabled() {
		s.logger.Warn("Failed to cache verified domain",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
	s.logger.Info("Custom domain verified",
		zap.String("hostname", d.Hostname),
		zap.String("organization_id", d.OrganizationID),
	)
	return nil
}

func (s *DomainService) owned(ctx context.Context, organizationID, hostname string) (*model.CustomDomain, error) {
	hostname = utils.NormalizeHostname(hostname)
	d, err := s.repo.FindByHostname(ctx, hostname)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && d.OrganizationID != organizationID) {
		return nil, apperrors.NotFoundError("error.domain_not_found")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	return d, nil
}

func (s *DomainService) invalidate(ctx context.Context, hostname string) {
	if !s.cache.Enabled() {
		return
	}
	key := constant.GetDomainKey(hostname)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to invalidate domain cache",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}
