package model

// UsageRecord 组织按月的扫码计数，(organization_id, month) 唯一
type UsageRecord struct {
	BaseModel
	OrganizationID string `gorm:"size:64;not null;uniqueIndex:idx_usage_org_month,priority:1" json:"organizationId"`
	Month          string `gorm:"size:10;not null;uniqueIndex:idx_usage_org_month,priority:2" json:"month"` // YYYY-MM-01
	ScansCount     int64  `gorm:"not null" json:"scansCount"`
}
