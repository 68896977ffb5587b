package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"qrlink-go/constant"
	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/model"
	"qrlink-go/pkg/netinfo"
	"qrlink-go/pkg/shortcode"
)

func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestMappingCreate(t *testing.T) {
	env := newTestEnv(t, false)
	svc := NewMappingService(env.mappings, env.events, env.store, false, zap.NewNop())

	m, err := svc.Create(context.Background(), "org_1", "qr_42", "https://example.com/menu")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !shortcode.IsValid(m.Code) || !m.IsActive || m.OrganizationID == nil || *m.OrganizationID != "org_1" {
		t.Fatalf("created mapping = %+v", m)
	}

	got, err := svc.Get(context.Background(), "org_1", m.Code)
	if err != nil || got.DestinationURL != "https://example.com/menu" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestMappingCreateRetriesOnCollision(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedMapping(t, "AAAAAA", "https://example.com", nil, true)
	svc := NewMappingService(env.mappings, env.events, env.store, false, zap.NewNop())

	svc.generate = sequence("AAAAAA", "AAAAAA", "BBBBBB")
	m, err := svc.Create(context.Background(), "org_1", "qr_1", "https://example.com/b")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Code != "BBBBBB" {
		t.Fatalf("code = %q, want BBBBBB", m.Code)
	}

	svc.generate = sequence("AAAAAA")
	_, err = svc.Create(context.Background(), "org_1", "qr_2", "https://example.com/c")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusInternalServerError {
		t.Fatalf("err = %v, want a 500 after exhausting retries", err)
	}
}

func TestMappingValidation(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedMapping(t, "Vd2kMn", "https://example.com", strPtr("org_1"), true)
	svc := NewMappingService(env.mappings, env.events, env.store, false, zap.NewNop())
	ctx := context.Background()

	for _, dest := range []string{"", "javascript:alert(1)", "ftp://files.example.com", "https://exa mple.com", "/relative"} {
		if _, err := svc.Create(ctx, "org_1", "qr_1", dest); err == nil {
			t.Errorf("Create(%q) should fail", dest)
		}
		if _, err := svc.UpdateDestination(ctx, "org_1", "Vd2kMn", dest); err == nil {
			t.Errorf("UpdateDestination(%q) should fail", dest)
		}
	}

	if _, err := svc.Get(ctx, "org_2", "Vd2kMn"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign Get err = %v, want not found", err)
	}
}

func TestMappingUpdateInvalidatesWhenEnabled(t *testing.T) {
	env := newTestEnv(t, true)
	env.seedMapping(t, "Up9dTe", "https://example.com/old", strPtr("org_1"), true)
	ctx := context.Background()
	key := constant.GetRedirectKey("Up9dTe")

	quiet := NewMappingService(env.mappings, env.events, env.store, false, zap.NewNop())
	env.mr.Set(key, "cached")
	if _, err := quiet.UpdateDestination(ctx, "org_1", "Up9dTe", "https://example.com/new"); err != nil {
		t.Fatal(err)
	}
	if !env.mr.Exists(key) {
		t.Fatal("cache must be left alone when invalidation is disabled")
	}

	eager := NewMappingService(env.mappings, env.events, env.store, true, zap.NewNop())
	m, err := eager.UpdateDestination(ctx, "org_1", "Up9dTe", "https://example.com/newer")
	if err != nil {
		t.Fatal(err)
	}
	if env.mr.Exists(key) {
		t.Fatal("cache entry should be deleted")
	}

	var stored model.ShortCodeMapping
	env.db.Where("code = ?", "Up9dTe").First(&stored)
	if stored.DestinationURL != "https://example.com/newer" || m.DestinationURL != stored.DestinationURL {
		t.Fatalf("stored destination = %q", stored.DestinationURL)
	}
}

func TestMappingStats(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedMapping(t, "St4tSx", "https://example.com", strPtr("org_1"), true)
	svc := NewMappingService(env.mappings, env.events, env.store, false, zap.NewNop())
	ctx := context.Background()

	clients := []netinfo.ClientMeta{
		{UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", Country: "DE"},
		{UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", Country: "DE"},
		{UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0"},
	}
	for _, c := range clients {
		if _, err := env.redirect.Resolve(ctx, ResolveRequest{Code: "St4tSx", Client: c}); err != nil {
			t.Fatal(err)
		}
	}
	env.settle(t)

	stats, err := svc.Stats(ctx, "org_1", "St4tSx")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3", stats.Total)
	}
	if len(stats.ByDevice) != 2 || stats.ByDevice[0].Key != "mobile" || stats.ByDevice[0].Count != 2 {
		t.Errorf("by device = %+v", stats.ByDevice)
	}
	if len(stats.ByCountry) != 2 || stats.ByCountry[0].Key != "DE" || stats.ByCountry[1].Key != "" {
		t.Errorf("by country = %+v", stats.ByCountry)
	}

	if _, err := svc.Stats(ctx, "org_2", "St4tSx"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign Stats err = %v, want not found", err)
	}
}
