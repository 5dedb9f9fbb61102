package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/controllers"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/repositories"
	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/config"
	"shop-admin-gateway/pkg/cookies"
	"shop-admin-gateway/pkg/middleware"
)

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Audit *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, provider *commerce.Provider, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	cookieSurface := cookies.NewSurface(cfg.Session.CookieTTL, cfg.Session.IsProduction())

	// --- 1. РЕПОЗИТОРИИ ---
	recordRepo := repositories.NewRedisSessionRecordRepository(redisClient, cfg.Session.CookieTTL)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	var auditRepo repositories.AuditRepositoryInterface
	if dbConn != nil {
		auditRepo = repositories.NewAuditRepository(dbConn, loggers.Audit)
	}

	// --- 2. СЕРВИСЫ ---
	sessionStore := services.NewSessionStore(cookieSurface, recordRepo, loggers.Main)
	auditService := services.NewAuditService(auditRepo, loggers.Audit)
	credentialService := services.NewCredentialService(provider, sessionStore, cacheRepo, auditService, &cfg.Auth, loggers.Auth)

	// --- 3. MIDDLEWARE ---
	// Edge-проверка стоит раньше всего остального: решение по cookie и
	// пути, до гидрации и до любого обработчика.
	sessionMW := middleware.NewSessionMiddleware(sessionStore, loggers.Main)
	e.Use(middleware.Gatekeeper())
	e.Use(sessionMW.Hydrate)
	e.Use(middleware.InjectLogger(loggers.Main))

	// --- 4. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(credentialService, loggers.Auth)
	proxyCtrl := controllers.NewProxyController(provider, sessionStore, auditService, loggers.Main)
	auditCtrl := controllers.NewAuditController(auditService, loggers.Audit)
	pagesCtrl := controllers.NewPagesController()

	runPagesRouter(e, pagesCtrl)
	runAuthRouter(e, authCtrl)
	runAdminRouter(e, proxyCtrl, auditCtrl, pagesCtrl, loggers.Main)

	loggers.Main.Info("InitRouter: Маршруты созданы")
}
