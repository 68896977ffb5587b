package model

import "time"

// ScanEvent 每次成功跳转写入一条，只追加
type ScanEvent struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	QRResourceID string    `gorm:"size:64;index;not null" json:"qrResourceId"`
	ScannedAt    time.Time `gorm:"index;not null" json:"scannedAt"`
	CountryCode  *string   `gorm:"size:8;index" json:"countryCode"`
	City         *string   `gorm:"size:128" json:"city"`
	DeviceType   string    `gorm:"size:16;not null" json:"deviceType"`
	Browser      *string   `gorm:"size:32" json:"browser"`
	OS           *string   `gorm:"size:32" json:"os"`
	UserAgent    *string   `gorm:"type:text" json:"userAgent"`
	IPHash       *string   `gorm:"size:64" json:"ipHash"`
}
