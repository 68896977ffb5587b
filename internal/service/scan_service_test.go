package service

import (
	"context"
	"testing"
	"time"

	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/netinfo"
)

func TestBuildEvent(t *testing.T) {
	env := newTestEnv(t, false)
	env.scans.now = func() time.Time { return time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		client  netinfo.ClientMeta
		device  string
		browser *string
		hashed  bool
	}{
		{
			name: "android tablet",
			client: netinfo.ClientMeta{
				IP:        "198.51.100.4",
				UserAgent: "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
				Country:   "US",
				City:      "São Paulo",
			},
			device:  "tablet",
			browser: strPtr("Chrome"),
			hashed:  true,
		},
		{
			name:   "empty user agent and no ip",
			client: netinfo.ClientMeta{},
			device: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := env.scans.BuildEvent(ScanInput{QRResourceID: "qr_1", Client: tt.client})

			if e.ID == "" || e.QRResourceID != "qr_1" {
				t.Errorf("unexpected identity fields %+v", e)
			}
			if e.DeviceType != tt.device {
				t.Errorf("device = %q, want %q", e.DeviceType, tt.device)
			}
			if (e.Browser == nil) != (tt.browser == nil) || (e.Browser != nil && *e.Browser != *tt.browser) {
				t.Errorf("browser = %v, want %v", e.Browser, tt.browser)
			}
			if tt.hashed {
				want := netinfo.HashIP(testSalt, tt.client.IP)
				if e.IPHash == nil || *e.IPHash != *want {
					t.Errorf("ip hash = %v, want %s", e.IPHash, *want)
				}
			} else if e.IPHash != nil {
				t.Errorf("ip hash = %v, want nil", *e.IPHash)
			}
			if tt.client.Country == "" && e.CountryCode != nil {
				t.Errorf("country = %v, want nil", *e.CountryCode)
			}
			if tt.client.UserAgent == "" && e.UserAgent != nil {
				t.Errorf("user agent = %v, want nil", *e.UserAgent)
			}
		})
	}
}

func TestRecordIncrementsUsageOnlyWithOrganization(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	env.scans.Record(ctx, ScanInput{QRResourceID: "qr_1", OrganizationID: strPtr("org_1")})
	env.scans.Record(ctx, ScanInput{QRResourceID: "qr_2"})

	if got := env.countScans(t); got != 2 {
		t.Fatalf("scan events = %d, want 2", got)
	}
	var records []model.UsageRecord
	env.db.Find(&records)
	if len(records) != 1 || records[0].ScansCount != 1 {
		t.Fatalf("usage records = %+v, want a single row with count 1", records)
	}
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	env := newTestEnv(t, false)
	if err := repository.CloseDB(env.db); err != nil {
		t.Fatal(err)
	}
	// 不 panic、不返回错误即可
	env.scans.Record(context.Background(), ScanInput{QRResourceID: "qr_1", OrganizationID: strPtr("org_1")})
}
