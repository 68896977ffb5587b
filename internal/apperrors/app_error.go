package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误类别，配合 errors.Is 判断
var (
	ErrNotFound            = errors.New("not found")
	ErrInactive            = errors.New("inactive")
	ErrInvalidRedirect     = errors.New("invalid redirect")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrConflict            = errors.New("conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrRateLimited         = errors.New("rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 带上错误类别
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// BusinessError 封装业务逻辑错误（通用）
func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "error.invalid_request")
}

// NotFoundError 短码、域名等不存在
func NotFoundError(message string) *AppError {
	return Wrap(http.StatusNotFound, message, ErrNotFound)
}

// InactiveError 短码已停用
func InactiveError() *AppError {
	return Wrap(http.StatusGone, "error.code_inactive", ErrInactive)
}

// InvalidRedirectError 目标地址协议不合法
func InvalidRedirectError(cause error) *AppError {
	return Wrap(http.StatusBadRequest, "error.redirect_scheme_not_allowed", fmt.Errorf("%w: %w", ErrInvalidRedirect, cause))
}

// StoreUnavailableError 数据库不可用
func StoreUnavailableError(cause error) *AppError {
	return Wrap(http.StatusInternalServerError, "error.system", fmt.Errorf("%w: %w", ErrStoreUnavailable, cause))
}

// ConflictError 资源冲突
func ConflictError(message string) *AppError {
	return Wrap(http.StatusConflict, message, ErrConflict)
}

// UnauthorizedError API Key 缺失或无效
func UnauthorizedError() *AppError {
	return Wrap(http.StatusUnauthorized, "error.unauthorized", ErrUnauthorized)
}

// RateLimitedError 超出当日调用额度
func RateLimitedError() *AppError {
	return Wrap(http.StatusTooManyRequests, "error.rate_limited", ErrRateLimited)
}

// ProviderUnavailableError 外部 DNS 服务不可达
func ProviderUnavailableError(cause error) *AppError {
	return Wrap(http.StatusServiceUnavailable, "error.dns_provider_unavailable", fmt.Errorf("%w: %w", ErrProviderUnavailable, cause))
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "error.system")
}
