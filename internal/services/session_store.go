// Файл: internal/services/session_store.go
package services

import (
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/repositories"
	"shop-admin-gateway/pkg/cookies"
	apperrors "shop-admin-gateway/pkg/errors"
)

// SessionStoreInterface - порт к двум долговременным поверхностям
// сессии. Весь остальной код ходит только через него: ни контроллеры,
// ни middleware не трогают cookie и запись сессии напрямую.
type SessionStoreInterface interface {
	Write(c echo.Context, identity entities.Identity) error
	Read(c echo.Context) entities.Identity
	Clear(c echo.Context)
}

type SessionStore struct {
	cookies *cookies.Surface
	records repositories.SessionRecordRepositoryInterface
	logger  *zap.Logger
}

func NewSessionStore(
	cookieSurface *cookies.Surface,
	records repositories.SessionRecordRepositoryInterface,
	logger *zap.Logger,
) SessionStoreInterface {
	return &SessionStore{
		cookies: cookieSurface,
		records: records,
		logger:  logger,
	}
}

// Write кладёт сессию в обе поверхности. В хранилище попадает только
// нормализованная роль - сырые строки бэкенда не сохраняются.
func (s *SessionStore) Write(c echo.Context, identity entities.Identity) error {
	if identity.Token == "" {
		return apperrors.ErrTokenNotFound
	}

	identity.Role = entities.NormalizeRole(identity.Role.String())
	s.cookies.Write(c, identity.Token, identity.Role.String())

	// Богатая запись вспомогательная: её сбой логируем, но вход не ломаем.
	if err := s.records.Save(c.Request().Context(), identity); err != nil {
		s.logger.Warn("не удалось сохранить запись сессии", zap.Error(err))
	}
	return nil
}

// Read восстанавливает Identity из того, что есть. Нет токена - сессии
// нет, какие бы остатки ни лежали в записи. Есть токен, но запись
// потеряна - cookie достаточно, роль берём из role-cookie.
func (s *SessionStore) Read(c echo.Context) entities.Identity {
	token := s.cookies.ReadToken(c)
	if token == "" {
		return entities.Identity{}
	}

	record, err := s.records.Find(c.Request().Context(), token)
	if err == nil {
		record.Token = token
		record.Role = entities.NormalizeRole(record.Role.String())
		return *record
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("не удалось прочитать запись сессии", zap.Error(err))
	}

	return entities.Identity{
		Token: token,
		Role:  entities.NormalizeRole(s.cookies.ReadRole(c)),
	}
}

// Clear выносит всё из обеих поверхностей. Идемпотентен: чистка
// пустого хранилища - не ошибка.
func (s *SessionStore) Clear(c echo.Context) {
	token := s.cookies.ReadToken(c)
	s.cookies.Clear(c)

	if token == "" {
		return
	}
	if err := s.records.Delete(c.Request().Context(), token); err != nil {
		s.logger.Warn("не удалось удалить запись сессии", zap.Error(err))
	}
}
