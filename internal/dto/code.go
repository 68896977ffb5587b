package dto

// CreateCodeRequest 创建短码
type CreateCodeRequest struct {
	DestinationURL string `json:"destinationUrl" binding:"required,max=2048,httpurl" msg:"error.destination_url_invalid"`
	QRResourceID   string `json:"qrResourceId" binding:"required,max=64" msg:"error.invalid_request"`
}

// UpdateCodeRequest 只允许修改目标地址
type UpdateCodeRequest struct {
	DestinationURL string `json:"destinationUrl" binding:"required,max=2048,httpurl" msg:"error.destination_url_invalid"`
}

// UpdateCodeStatusRequest 指针区分未传和 false
type UpdateCodeStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}
