package constant

import (
	"fmt"
	"time"
)

// 常量定义
const (
	RedirectPrefix  = "redirect:"
	DomainPrefix    = "domain:"
	RateLimitPrefix = "rl:"
	Separator       = ":"
)

// Redis 键模板
const (
	RedirectKey  = RedirectPrefix + "%s"                     // redirect:<code>
	DomainKey    = DomainPrefix + "%s"                       // domain:<hostname>
	RateLimitKey = RateLimitPrefix + "%s" + Separator + "%s" // rl:<keyId>:<yyyy-MM-dd>
)

// 默认过期时间
const (
	RedirectTTL  = 24 * time.Hour
	DomainTTL    = 7 * 24 * time.Hour
	RateLimitTTL = 24 * time.Hour
)

// GetRedirectKey 生成短码跳转缓存键
func GetRedirectKey(code string) string {
	return fmt.Sprintf(RedirectKey, code)
}

// GetDomainKey 生成自定义域名映射缓存键
func GetDomainKey(hostname string) string {
	return fmt.Sprintf(DomainKey, hostname)
}

// GetRateLimitKey 生成 API Key 每日计数键
func GetRateLimitKey(keyID, date string) string {
	return fmt.Sprintf(RateLimitKey, keyID, date)
}

// GetDateKey 生成 UTC 日期键（格式：yyyy-MM-dd）
func GetDateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GetMonthKey 生成 UTC 当月第一天（格式：yyyy-MM-01）
func GetMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01") + "-01"
}
