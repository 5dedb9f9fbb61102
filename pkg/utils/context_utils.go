package utils

import (
	"github.com/labstack/echo/v4"

	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/contextkeys"
	apperrors "shop-admin-gateway/pkg/errors"
)

// GetSessionContext достаёт SessionContext, положенный session-middleware.
// Его отсутствие - ошибка конфигурации (маршрут не обёрнут middleware),
// и она должна быть громкой: молчаливый nil здесь неотличим от
// "аноним", а такая двусмысленность небезопасна.
func GetSessionContext(c echo.Context) (*services.SessionContext, error) {
	sc, ok := c.Request().Context().Value(contextkeys.SessionContextKey).(*services.SessionContext)
	if !ok || sc == nil {
		return nil, apperrors.NewHttpError(
			500,
			"Внутренняя ошибка сервера",
			apperrors.ErrSessionContextNotFound,
			nil,
		)
	}
	return sc, nil
}
