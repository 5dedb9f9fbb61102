// Файл: main.go

package main

import (
	"context"
	"net/http"

	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/routes"
	"shop-admin-gateway/pkg/config"
	"shop-admin-gateway/pkg/customvalidator"
	"shop-admin-gateway/pkg/database/postgresql"
	apperrors "shop-admin-gateway/pkg/errors"
	applogger "shop-admin-gateway/pkg/logger"
	"shop-admin-gateway/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 1. Базовые экземпляры Echo и логгера
	e := echo.New()
	logger := applogger.NewLogger()

	// 2. Конфиг (сам подхватывает .env)
	cfg := config.New()

	// 3. Middleware, зависящие от logger и echo
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			allowedOrigins := []string{
				"http://localhost:5173",
			}
			for _, o := range allowedOrigins {
				if origin == o {
					return true, nil
				}
			}
			return false, nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	// 4. Валидатор
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 5. Базы данных и внешние сервисы
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()
	if err := postgresql.RunMigrations(cfg.Postgres.DSN); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 6. Внешний commerce API (либо его встроенная заглушка для разработки)
	if cfg.Upstream.UseStub {
		stub := commerce.NewStub("dev-stub-secret", logger)
		stubAddr := "localhost:9090"
		go func() {
			logger.Info("Запущена заглушка commerce API", zap.String("address", stubAddr))
			if err := http.ListenAndServe(stubAddr, stub); err != nil {
				logger.Error("Заглушка commerce API остановлена", zap.Error(err))
			}
		}()
		cfg.Upstream.BaseURL = "http://" + stubAddr
	}
	provider := commerce.NewProvider(cfg.Upstream, logger)

	// 7. Роуты
	loggers := &routes.Loggers{
		Main:  logger,
		Auth:  logger.Named("auth"),
		Audit: logger.Named("audit"),
	}
	routes.InitRouter(e, dbConn, redisClient, provider, loggers, cfg)

	// 8. Запускаем сервер
	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
