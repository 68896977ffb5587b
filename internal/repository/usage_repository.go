package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qrlink-go/internal/model"
)

// UsageRepository 组织月度用量
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Increment 原子地 +1，不存在则以 1 插入；依赖 (organization_id, month) 唯一索引
func (r *UsageRepository) Increment(ctx context.Context, organizationID, month string) error {
	record := model.UsageRecord{
		OrganizationID: organizationID,
		Month:          month,
		ScansCount:     1,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organization_id"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"scans_count": gorm.Expr("scans_count + 1"),
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&record).Error
}

// Find 查询某月用量，不存在时返回 gorm.ErrRecordNotFound
func (r *UsageRepository) Find(ctx context.Context, organizationID, month string) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND month = ?", organizationID, month).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
