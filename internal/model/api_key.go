package model

import "time"

// UnlimitedDailyLimit 不限制调用次数
const UnlimitedDailyLimit int64 = -1

// APIKey 身份服务下发的 API 凭证在本地的投影，明文只在创建时出现一次
type APIKey struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string     `gorm:"size:64;index;not null" json:"organizationId"`
	Name           string     `gorm:"size:128" json:"name"`
	KeyPrefix      string     `gorm:"size:16;uniqueIndex;not null" json:"keyPrefix"`
	KeyHash        string     `gorm:"size:255;not null" json:"-"`
	DailyLimit     int64      `gorm:"not null" json:"dailyLimit"`
	Revoked        bool       `gorm:"not null" json:"revoked"`
	LastUsedAt     *time.Time `json:"lastUsedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
