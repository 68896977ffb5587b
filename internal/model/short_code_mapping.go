package model

// ShortCodeMapping 短码与目标地址的映射，停用而不删除
type ShortCodeMapping struct {
	BaseModel
	Code           string  `gorm:"uniqueIndex;size:16;not null" json:"code"`
	DestinationURL string  `gorm:"size:2048;not null" json:"destinationUrl"`
	QRResourceID   string  `gorm:"size:64;index;not null" json:"qrResourceId"`
	OrganizationID *string `gorm:"size:64;index" json:"organizationId"`
	IsActive       bool    `gorm:"not null" json:"isActive"`
}

// CachedRedirect 缓存在 redirect:<code> 下的投影，不含启用状态
type CachedRedirect struct {
	DestinationURL string  `cbor:"1,keyasint" json:"destinationUrl"`
	QRResourceID   string  `cbor:"2,keyasint" json:"qrResourceId"`
	OrganizationID *string `cbor:"3,keyasint,omitempty" json:"organizationId,omitempty"`
}

// Projection 生成缓存投影
func (m *ShortCodeMapping) Projection() CachedRedirect {
	return CachedRedirect{
		DestinationURL: m.DestinationURL,
		QRResourceID:   m.QRResourceID,
		OrganizationID: m.OrganizationID,
	}
}
