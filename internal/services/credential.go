// Файл: internal/services/credential.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/repositories"
	"shop-admin-gateway/pkg/config"
	apperrors "shop-admin-gateway/pkg/errors"
)

type CredentialServiceInterface interface {
	Login(c echo.Context, payload dto.LoginDTO) (*entities.Identity, error)
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
	Logout(c echo.Context)
}

// CredentialService выполняет сетевые вызовы логина/сброса и на успехе
// пишет сессию через SessionStore. HTTP-статусы ошибок он НЕ
// интерпретирует - это делает контроллер, у которого есть контекст формы.
type CredentialService struct {
	provider *commerce.Provider
	store    SessionStoreInterface
	cache    repositories.CacheRepositoryInterface
	audit    AuditServiceInterface
	cfg      *config.AuthConfig
	logger   *zap.Logger
}

func NewCredentialService(
	provider *commerce.Provider,
	store SessionStoreInterface,
	cache repositories.CacheRepositoryInterface,
	audit AuditServiceInterface,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) CredentialServiceInterface {
	return &CredentialService{
		provider: provider,
		store:    store,
		cache:    cache,
		audit:    audit,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *CredentialService) Login(c echo.Context, payload dto.LoginDTO) (*entities.Identity, error) {
	ctx := c.Request().Context()
	logger := s.logger.With(zap.String("email", payload.Email))

	if err := s.checkThrottle(ctx, payload.Email); err != nil {
		return nil, err
	}

	resp, err := s.provider.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		var upstreamErr *commerce.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.IsAuthFailure() {
			s.handleFailedLoginAttempt(ctx, payload.Email)
			s.audit.Record(ctx, entities.SessionEventLoginFailed, entities.Identity{Email: payload.Email})
		}
		// Ошибку отдаём как есть - классификация на совести вызывающего.
		return nil, err
	}

	identity := entities.Identity{
		Token:   resp.Token,
		Email:   resp.Email,
		Role:    entities.NormalizeRole(resp.Role),
		StoreID: resp.StoreID,
		UserID:  resolveUserID(resp),
	}
	if identity.Email == "" {
		identity.Email = payload.Email
	}

	if err := s.store.Write(c, identity); err != nil {
		return nil, err
	}

	s.resetLoginAttempts(ctx, payload.Email)
	s.audit.Record(ctx, entities.SessionEventLogin, identity)
	logger.Info("Авторизация прошла успешно", zap.String("role", identity.Role.String()))

	return &identity, nil
}

// ResetPassword не трогает SessionStore: после сброса пароля
// автоматического входа нет.
func (s *CredentialService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	return s.provider.ResetPassword(ctx, payload.Email, payload.NewPassword)
}

func (s *CredentialService) Logout(c echo.Context) {
	identity := s.store.Read(c)
	s.store.Clear(c)
	s.audit.Record(c.Request().Context(), entities.SessionEventLogout, identity)
}

// resolveUserID достаёт userId из ответа логина. Бэкенд его иногда
// не присылает - тогда подглядываем (без проверки подписи) в claims
// токена, а если и там пусто, ставим заглушку. Значение в любом случае
// отображаемое, не доверенное.
func resolveUserID(resp *commerce.LoginResponse) string {
	if resp.UserID != nil {
		return strconv.FormatInt(*resp.UserID, 10)
	}
	if peeked := peekUserID(resp.Token); peeked != "" {
		return peeked
	}
	return entities.PendingUserID
}

func peekUserID(tokenString string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	if raw, ok := claims["userId"]; ok {
		return fmt.Sprint(raw)
	}
	return ""
}

func throttleKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func (s *CredentialService) checkThrottle(ctx context.Context, email string) error {
	attemptsStr, _ := s.cache.Get(ctx, throttleKey(email))
	if attempts, _ := strconv.Atoi(attemptsStr); attempts >= s.cfg.MaxLoginAttempts {
		s.logger.Warn("Слишком много попыток входа", zap.String("email", email))
		return apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток. Попробуйте через %.0f минут.", s.cfg.LockoutDuration.Minutes()),
			apperrors.ErrTooManyAttempts,
			nil,
		)
	}
	return nil
}

func (s *CredentialService) handleFailedLoginAttempt(ctx context.Context, email string) {
	key := throttleKey(email)
	if _, err := s.cache.Incr(ctx, key); err != nil {
		return
	}
	s.cache.Expire(ctx, key, s.cfg.LockoutDuration)
}

func (s *CredentialService) resetLoginAttempts(ctx context.Context, email string) {
	s.cache.Del(ctx, throttleKey(email))
}
