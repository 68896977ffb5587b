package model

import "time"

// DomainStatus 自定义域名验证状态
type DomainStatus string

const (
	DomainUnverified DomainStatus = "unverified"
	DomainVerifying  DomainStatus = "verifying"
	DomainVerified   DomainStatus = "verified"
)

type CustomDomain struct {
	BaseModel
	Hostname       string       `gorm:"size:253;uniqueIndex;not null" json:"hostname"`
	OrganizationID string       `gorm:"size:64;index;not null" json:"organizationId"`
	Status         DomainStatus `gorm:"size:16;index;not null" json:"status"`
	VerifiedAt     *time.Time   `json:"verifiedAt"`
	LastError      string       `gorm:"size:512" json:"lastError"`
	LastCheckedAt  *time.Time   `gorm:"index" json:"lastCheckedAt"`
}
