package utils

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// MaxURLLength 目标地址最大长度
const MaxURLLength = 2048

var hostnamePattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// ValidateRedirectScheme 跳转前的安全校验，只允许 http/https
//
// 每次解析都要执行，不论数据来自缓存还是数据库。
func ValidateRedirectScheme(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("error.redirect_url_invalid")
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("error.redirect_scheme_not_allowed")
	}
}

// ValidateDestinationURL 写入时校验目标 URL 的合法性
func ValidateDestinationURL(target string) error {
	if target == "" {
		return fmt.Errorf("error.destination_url_required")
	}
	if len(target) > MaxURLLength {
		return fmt.Errorf("error.destination_url_max_length")
	}
	if ContainsWhitespace(target) {
		return fmt.Errorf("error.destination_url_invalid")
	}
	u, err := url.ParseRequestURI(target)
	if err != nil || u.Host == "" {
		return fmt.Errorf("error.destination_url_invalid")
	}
	return ValidateRedirectScheme(target)
}

// NormalizeHostname 统一小写、去掉端口和末尾的点
func NormalizeHostname(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

// ValidateHostname 自定义域名校验，不接受 IP 和单标签域名
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("error.hostname_required")
	}
	if net.ParseIP(host) != nil || len(host) > 253 || !hostnamePattern.MatchString(host) {
		return fmt.Errorf("error.hostname_invalid")
	}
	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
