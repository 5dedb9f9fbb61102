package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/controllers"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/pkg/middleware"
)

func runPagesRouter(e *echo.Echo, pagesCtrl *controllers.PagesController) {
	e.GET(middleware.PathRoot, pagesCtrl.Shell)
	e.GET(middleware.PathLogin, pagesCtrl.Shell)
	e.GET(middleware.PathSignup, pagesCtrl.Shell)
	e.GET(middleware.PathForgotPassword, pagesCtrl.Shell)
	// /register сюда не регистрируем: до обработчика он не доживает,
	// edge-проверка уводит его на /signup.
}

func runAdminRouter(
	e *echo.Echo,
	proxyCtrl *controllers.ProxyController,
	auditCtrl *controllers.AuditController,
	pagesCtrl *controllers.PagesController,
	logger *zap.Logger,
) {
	admin := e.Group(middleware.ProtectedPrefix)
	{
		admin.GET("", pagesCtrl.Shell)
		admin.GET("/*", pagesCtrl.Shell)

		// Журнал сессий - только для SUPER_ADMIN.
		admin.GET("/audit", auditCtrl.GetEvents, middleware.RequireRole(entities.RoleSuperAdmin, logger))

		// Сквозные CRUD-вызовы дашборда к commerce API.
		admin.Any("/api/*", proxyCtrl.Forward)
	}
}
