package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"qrlink-go/internal/model"
)

// DomainRepository 自定义域名
type DomainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

func (r *DomainRepository) FindByHostname(ctx context.Context, hostname string) (*model.CustomDomain, error) {
	var d model.CustomDomain
	if err := r.db.WithContext(ctx).Where("hostname = ?", hostname).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DomainRepository) Create(ctx context.Context, d *model.CustomDomain) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Save 写回状态字段
func (r *DomainRepository) Save(ctx context.Context, d *model.CustomDomain) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DomainRepository) Delete(ctx context.Context, d *model.CustomDomain) error {
	return r.db.WithContext(ctx).Delete(d).Error
}

func (r *DomainRepository) ListByOrganization(ctx context.Context, organizationID string) ([]model.CustomDomain, error) {
	var list []model.CustomDomain
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("hostname ASC").
		Find(&list).Error
	return list, err
}

// ListPending 未验证且上次检查早于 checkedBefore（或从未检查）的域名
func (r *DomainRepository) ListPending(ctx context.Context, checkedBefore time.Time, limit int) ([]model.CustomDomain, error) {
	var list []model.CustomDomain
	err := r.db.WithContext(ctx).
		Where("status <> ?", model.DomainVerified).
		Where("last_checked_at IS NULL OR last_checked_at < ?", checkedBefore).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
