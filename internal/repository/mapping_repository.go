package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"qrlink-go/internal/model"
)

// MaxCodeAttempts 生成短码时遇到唯一键冲突的最大尝试次数
const MaxCodeAttempts = 5

// ErrCodeSpaceExhausted 多次生成的短码都已存在
var ErrCodeSpaceExhausted = errors.New("failed to generate a unique short code after maximum retries")

// MappingRepository 短码映射的持久化
type MappingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMappingRepository(db *gorm.DB, logger *zap.Logger) *MappingRepository {
	return &MappingRepository{db: db, logger: logger}
}

// FindByCode 按短码查询，不存在时返回 gorm.ErrRecordNotFound
func (r *MappingRepository) FindByCode(ctx context.Context, code string) (*model.ShortCodeMapping, error) {
	var m model.ShortCodeMapping
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Create 插入映射，短码冲突时重新生成，最多 MaxCodeAttempts 次
func (r *MappingRepository) Create(ctx context.Context, m *model.ShortCodeMapping, generate func() (string, error)) error {
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := generate()
		if err != nil {
			return fmt.Errorf("generate short code: %w", err)
		}
		m.ID = 0
		m.Code = code

		err = r.db.WithContext(ctx).Create(m).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		r.logger.Info("Short code already exists, retrying generation",
			zap.String("short_code", code),
			zap.Int("attempt", attempt),
		)
	}
	return ErrCodeSpaceExhausted
}

// UpdateDestination 更新目标地址
func (r *MappingRepository) UpdateDestination(ctx context.Context, id uint, destination string) error {
	return r.db.WithContext(ctx).Model(&model.ShortCodeMapping{}).
		Where("id = ?", id).
		Update("destination_url", destination).Error
}

// SetActive 启用/停用
func (r *MappingRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&model.ShortCodeMapping{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
