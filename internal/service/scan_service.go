package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/netinfo"
	"qrlink-go/pkg/useragent"
)

// ScanInput 一次成功跳转需要记录的信息
type ScanInput struct {
	QRResourceID   string
	OrganizationID *string
	Client         netinfo.ClientMeta
}

// ScanService 记录扫码事件，所有失败只记录日志
type ScanService struct {
	repo   *repository.ScanEventRepository
	usage  *UsageService
	salt   string
	now    func() time.Time
	logger *zap.Logger
}

func NewScanService(repo *repository.ScanEventRepository, usage *UsageService, ipSalt string, logger *zap.Logger) *ScanService {
	if ipSalt == "" {
		logger.Warn("analytics.ip_salt is empty, ip hashes are unsalted")
	}
	return &ScanService{
		repo:   repo,
		usage:  usage,
		salt:   ipSalt,
		now:    time.Now,
		logger: logger,
	}
}

// BuildEvent 分类设备、浏览器、系统并对 IP 加盐哈希，原始 IP 不落库
func (s *ScanService) BuildEvent(in ScanInput) *model.ScanEvent {
	ua := useragent.Parse(in.Client.UserAgent)
	return &model.ScanEvent{
		ID:           uuid.NewString(),
		QRResourceID: in.QRResourceID,
		ScannedAt:    s.now().UTC(),
		CountryCode:  optional(in.Client.Country),
		City:         optional(in.Client.City),
		DeviceType:   string(ua.Device),
		Browser:      optional(ua.Browser),
		OS:           optional(ua.OS),
		UserAgent:    optional(in.Client.UserAgent),
		IPHash:       netinfo.HashIP(s.salt, in.Client.IP),
	}
}

// Record 写入扫码事件，成功且有组织时累加月度用量
func (s *ScanService) Record(ctx context.Context, in ScanInput) {
	event := s.BuildEvent(in)
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to record scan event",
			zap.String("qr_resource_id", in.QRResourceID),
			zap.Error(err),
		)
		return
	}

	if in.OrganizationID != nil && *in.OrganizationID != "" {
		s.usage.Increment(ctx, *in.OrganizationID, MonthOf(event.ScannedAt))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
