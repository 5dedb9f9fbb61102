// Файл: pkg/middleware/session.go
package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/contextkeys"
)

type SessionMiddleware struct {
	store  services.SessionStoreInterface
	logger *zap.Logger
}

func NewSessionMiddleware(store services.SessionStoreInterface, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{store: store, logger: logger}
}

// Hydrate создаёт свежий SessionContext на запрос, один раз гидрирует
// его из SessionStore и кладёт в контекст запроса. Дальше обработчики
// достают его через utils.GetSessionContext.
func (m *SessionMiddleware) Hydrate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sc := services.NewSessionContext()
		sc.Hydrate(m.store, c)

		newCtx := context.WithValue(c.Request().Context(), contextkeys.SessionContextKey, sc)
		c.SetRequest(c.Request().WithContext(newCtx))

		return next(c)
	}
}
