package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/services"
	apperrors "shop-admin-gateway/pkg/errors"
	"shop-admin-gateway/pkg/middleware"
	"shop-admin-gateway/pkg/utils"
)

// ProxyController - сквозной канал к ресурсным эндпоинтам commerce API
// (товары, заказы, клиенты и прочий CRUD дашборда). Бизнес-логики тут
// нет: шлюз подставляет Bearer и следит за ответами 401/403.
type ProxyController struct {
	provider *commerce.Provider
	store    services.SessionStoreInterface
	audit    services.AuditServiceInterface
	logger   *zap.Logger
}

func NewProxyController(
	provider *commerce.Provider,
	store services.SessionStoreInterface,
	audit services.AuditServiceInterface,
	logger *zap.Logger,
) *ProxyController {
	return &ProxyController{
		provider: provider,
		store:    store,
		audit:    audit,
		logger:   logger,
	}
}

func (ctrl *ProxyController) Forward(c echo.Context) error {
	identity := ctrl.store.Read(c)

	// Query string уходит на API как есть: пагинация и фильтры
	// списков - забота фронта, не шлюза.
	upstreamPath := "/" + c.Param("*")
	if q := c.Request().URL.RawQuery; q != "" {
		upstreamPath += "?" + q
	}

	resp, err := ctrl.provider.Forward(
		c.Request().Context(),
		c.Request().Method,
		upstreamPath,
		c.Request().Body,
		identity.Token,
		c.Request().Header.Get(echo.HeaderContentType),
	)
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewHttpError(
			http.StatusServiceUnavailable,
			"Сервер недоступен, попробуйте позже",
			err,
			map[string]interface{}{"path": upstreamPath},
		), ctrl.logger)
	}
	defer resp.Body.Close()

	// 401/403 от API на ЛЮБОЙ вызов - сессия протухла или отозвана.
	// Единственное разрешённое действие: полная чистка и редирект на
	// вход. Никаких inline-ошибок формы - формы может не быть на экране.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		ctrl.logger.Warn("Forward: commerce API отверг сессию",
			zap.Int("status", resp.StatusCode),
			zap.String("path", upstreamPath),
		)
		ctrl.store.Clear(c)
		if sc, scErr := utils.GetSessionContext(c); scErr == nil {
			sc.Logout()
		} else {
			ctrl.logger.Error("Forward: маршрут не обёрнут session-middleware", zap.Error(scErr))
		}
		ctrl.audit.Record(c.Request().Context(), entities.SessionEventForcedClear, identity)
		return c.Redirect(http.StatusFound, middleware.PathLogin)
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Stream(resp.StatusCode, contentType, resp.Body)
}
