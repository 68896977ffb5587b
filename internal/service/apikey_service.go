package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qrlink-go/internal/apperrors"
	"qrlink-go/internal/model"
	"qrlink-go/internal/repository"
	"qrlink-go/pkg/shortcode"
)

// API Key 格式 qrk_<prefix>_<secret>，prefix 明文存储用于查找，整串只保存 bcrypt 哈希
const (
	apiKeyScheme       = "qrk"
	apiKeyPrefixLength = 8
	apiKeySecretLength = 32
)

// IssuedKey 创建时返回一次明文
type IssuedKey struct {
	Key    *model.APIKey
	Secret string
}

type APIKeyService struct {
	repo   *repository.APIKeyRepository
	cost   int
	now    func() time.Time
	logger *zap.Logger
}

func NewAPIKeyService(repo *repository.APIKeyRepository, bcryptCost int, logger *zap.Logger) *APIKeyService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &APIKeyService{repo: repo, cost: bcryptCost, now: time.Now, logger: logger}
}

// Create 生成新的 API Key，dailyLimit 为 -1 表示不限量
func (s *APIKeyService) Create(ctx context.Context, organizationID, name string, dailyLimit int64) (*IssuedKey, error) {
	if organizationID == "" {
		return nil, apperrors.InvalidRequestError("error.organization_required")
	}
	if dailyLimit < model.UnlimitedDailyLimit {
		return nil, apperrors.InvalidRequestError("error.daily_limit_invalid")
	}

	prefix, err := randomToken(apiKeyPrefixLength)
	if err != nil {
		return nil, err
	}
	secret, err := randomToken(apiKeySecretLength)
	if err != nil {
		return nil, err
	}
	raw := fmt.Sprintf("%s_%s_%s", apiKeyScheme, prefix, secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}

	key := &model.APIKey{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		KeyPrefix:      prefix,
		KeyHash:        string(hash),
		DailyLimit:     dailyLimit,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	return &IssuedKey{Key: key, Secret: raw}, nil
}

// Authenticate 校验明文 Key，失败统一返回 Unauthorized
func (s *APIKeyService) Authenticate(ctx context.Context, raw string) (*model.APIKey, error) {
	prefix, ok := parseAPIKey(raw)
	if !ok {
		return nil, apperrors.UnauthorizedError()
	}

	key, err := s.repo.FindByPrefix(ctx, prefix)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.UnauthorizedError()
	}
	if err != nil {
		return nil, apperrors.StoreUnavailableError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(raw)); err != nil {
		return nil, apperrors.UnauthorizedError()
	}

	if err := s.repo.TouchLastUsed(ctx, key.ID, s.now().UTC()); err != nil {
		s.logger.Warn("Failed to update api key last used time",
			zap.String("key_id", key.ID),
			zap.Error(err),
		)
	}
	return key, nil
}

func parseAPIKey(raw string) (string, bool) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 || parts[0] != apiKeyScheme {
		return "", false
	}
	if len(parts[1]) != apiKeyPrefixLength || len(parts[2]) != apiKeySecretLength {
		return "", false
	}
	return parts[1], true
}

// randomToken 复用短码字母表，不含下划线
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = shortcode.Alphabet[int(b)%len(shortcode.Alphabet)]
	}
	return string(out), nil
}
