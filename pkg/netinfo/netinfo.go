package netinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
)

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// 默认的边缘节点地理位置请求头，按顺序取第一个非空值
var (
	DefaultCountryHeaders = []string{"X-Vercel-IP-Country", "CF-IPCountry"}
	DefaultCityHeaders    = []string{"X-Vercel-IP-City"}
)

// ClientMeta 一次扫码请求附带的客户端信息，字段均可能为空
type ClientMeta struct {
	IP        string
	UserAgent string
	Country   string
	City      string
}

// Extractor 从请求头中提取客户端信息
type Extractor struct {
	CountryHeaders []string
	CityHeaders    []string
}

// NewExtractor 未配置时使用默认请求头
func NewExtractor(countryHeaders, cityHeaders []string) Extractor {
	if len(countryHeaders) == 0 {
		countryHeaders = DefaultCountryHeaders
	}
	if len(cityHeaders) == 0 {
		cityHeaders = DefaultCityHeaders
	}
	return Extractor{CountryHeaders: countryHeaders, CityHeaders: cityHeaders}
}

func (e Extractor) Extract(r *http.Request) ClientMeta {
	return ClientMeta{
		IP:        ClientIP(r.Header),
		UserAgent: r.UserAgent(),
		Country:   Country(r.Header, e.CountryHeaders),
		City:      City(r.Header, e.CityHeaders),
	}
}

// ClientIP 优先取 X-Forwarded-For 的第一跳，其次 X-Real-IP
func ClientIP(h http.Header) string {
	if fwd := h.Get(HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(h.Get(HeaderRealIP))
}

// Country 国家代码统一大写，XX 表示边缘节点未知
func Country(h http.Header, names []string) string {
	v := strings.ToUpper(firstHeader(h, names))
	if v == "XX" {
		return ""
	}
	return v
}

// City 城市名可能被 URL 编码（例如 S%C3%A3o%20Paulo）
func City(h http.Header, names []string) string {
	v := firstHeader(h, names)
	if v == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(v); err == nil {
		return decoded
	}
	return v
}

// HashIP 计算 sha256("salt:ip")，IP 为空时返回 nil
func HashIP(salt, ip string) *string {
	if ip == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(salt + ":" + ip))
	hashed := hex.EncodeToString(sum[:])
	return &hashed
}

func firstHeader(h http.Header, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
