package repository

import (
	"context"

	"gorm.io/gorm"

	"qrlink-go/internal/model"
)

// Bucket 分组统计结果
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// ScanEventRepository 扫码事件，只追加
type ScanEventRepository struct {
	db *gorm.DB
}

func NewScanEventRepository(db *gorm.DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

func (r *ScanEventRepository) Create(ctx context.Context, e *model.ScanEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// CountByResource 某个二维码资源的总扫码数
func (r *ScanEventRepository) CountByResource(ctx context.Context, qrResourceID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Where("qr_resource_id = ?", qrResourceID).
		Count(&total).Error
	return total, err
}

// GroupByResource 按列分组计数，column 只接受内部传入的列名
func (r *ScanEventRepository) GroupByResource(ctx context.Context, qrResourceID, column string) ([]Bucket, error) {
	var buckets []Bucket
	err := r.db.WithContext(ctx).Model(&model.ScanEvent{}).
		Select("COALESCE("+column+", '') AS `key`, COUNT(*) AS count").
		Where("qr_resource_id = ?", qrResourceID).
		Group(column).
		Order("count DESC").
		Scan(&buckets).Error
	return buckets, err
}
