package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"qrlink-go/internal/model"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// FindByPrefix 按公开前缀查找未吊销的 key
func (r *APIKeyRepository) FindByPrefix(ctx context.Context, prefix string) (*model.APIKey, error) {
	var k model.APIKey
	err := r.db.WithContext(ctx).
		Where("key_prefix = ? AND revoked = ?", prefix, false).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *APIKeyRepository) Create(ctx context.Context, k *model.APIKey) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.APIKey{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", at).Error
}
