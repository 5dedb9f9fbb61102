// Файл: internal/services/audit.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/repositories"
)

type AuditServiceInterface interface {
	Record(ctx context.Context, kind string, identity entities.Identity)
	GetAll(ctx context.Context, filter dto.AuditFilterDTO) ([]*entities.SessionEvent, uint64, error)
}

// AuditService - журнал событий сессий. Строго best-effort: сбой записи
// логируется и никогда не ломает сам вход/выход.
type AuditService struct {
	repo   repositories.AuditRepositoryInterface
	logger *zap.Logger
}

func NewAuditService(repo repositories.AuditRepositoryInterface, logger *zap.Logger) AuditServiceInterface {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, kind string, identity entities.Identity) {
	if s.repo == nil {
		return
	}

	event := entities.SessionEvent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Email:     identity.Email,
		Role:      identity.Role.String(),
		TokenHash: TokenFingerprint(identity.Token),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Warn("не удалось записать событие аудита",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (s *AuditService) GetAll(ctx context.Context, filter dto.AuditFilterDTO) ([]*entities.SessionEvent, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

// TokenFingerprint - первые 16 hex-символов sha256 от токена.
// Позволяет сопоставлять события одной сессии, не храня сам токен.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:16]
}
