package constant

import (
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	if got := GetRedirectKey("X7kP2m"); got != "redirect:X7kP2m" {
		t.Errorf("GetRedirectKey = %q", got)
	}
	if got := GetDomainKey("qr.example.com"); got != "domain:qr.example.com" {
		t.Errorf("GetDomainKey = %q", got)
	}
	if got := GetRateLimitKey("key-1", "2026-10-15"); got != "rl:key-1:2026-10-15" {
		t.Errorf("GetRateLimitKey = %q", got)
	}
}

func TestDateKeysUseUTC(t *testing.T) {
	// 东八区 10 月 1 日 01:00 仍是 UTC 的 9 月 30 日
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := time.Date(2026, 10, 1, 1, 0, 0, 0, loc)

	if got := GetDateKey(ts); got != "2026-09-30" {
		t.Errorf("GetDateKey = %q", got)
	}
	if got := GetMonthKey(ts); got != "2026-09-01" {
		t.Errorf("GetMonthKey = %q", got)
	}
}
