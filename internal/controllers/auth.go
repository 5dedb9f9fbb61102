package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/services"
	apperrors "shop-admin-gateway/pkg/errors"
	"shop-admin-gateway/pkg/middleware"
	"shop-admin-gateway/pkg/utils"
)

type AuthController struct {
	credentialService services.CredentialServiceInterface
	logger            *zap.Logger
}

func NewAuthController(credentialService services.CredentialServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		credentialService: credentialService,
		logger:            logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}

	if err := c.Validate(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка валидации данных", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	identity, err := ctrl.credentialService.Login(c, payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, classifyLoginError(err))
	}

	// Переводим SessionContext синхронно из результата логина:
	// сессия видна уже в этом же запросе, без перечитывания хранилища.
	if sc, scErr := utils.GetSessionContext(c); scErr == nil {
		sc.Login(*identity)
	} else {
		// Отсутствие контекста - ошибка конфигурации маршрута,
		// молчать о ней нельзя. Сам логин при этом записан.
		ctrl.logger.Error("Login: маршрут не обёрнут session-middleware", zap.Error(scErr))
	}

	return utils.SuccessResponse(c, toIdentityDTO(identity), "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	ctrl.credentialService.Logout(c)

	if sc, err := utils.GetSessionContext(c); err == nil {
		sc.Logout()
	} else {
		ctrl.logger.Error("Logout: маршрут не обёрнут session-middleware", zap.Error(err))
	}

	// Жёсткая навигация на вход: ни один закрытый экран не должен
	// пережить выход с протухшей сессией.
	return c.Redirect(http.StatusFound, middleware.PathLogin)
}

func (ctrl *AuthController) ResetPassword(c echo.Context) error {
	var payload dto.ResetPasswordDTO

	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для сброса пароля"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.credentialService.ResetPassword(c.Request().Context(), payload); err != nil {
		ctrl.logger.Error("ResetPassword: ошибка сброса пароля", zap.Error(err))
		return ctrl.errorResponse(c, classifyLoginError(err))
	}

	return utils.SuccessResponse(c, nil, "Пароль успешно обновлён", http.StatusOK)
}

// Me отдаёт текущую сессию из гидрированного SessionContext.
func (ctrl *AuthController) Me(c echo.Context) error {
	sc, err := utils.GetSessionContext(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if !sc.IsAuthenticated() {
		return ctrl.errorResponse(c, apperrors.NewUnauthorizedError("Неавторизован"))
	}

	identity := sc.Identity()
	return utils.SuccessResponse(c, toIdentityDTO(&identity), "Текущая сессия", http.StatusOK)
}

// classifyLoginError - перевод сырых ошибок CredentialService в
// пользовательские. Три случая различаем строго: неверные данные
// (ошибка у поля email), сервер недоступен и всё остальное.
func classifyLoginError(err error) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return err
	}

	var upstreamErr *commerce.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.IsAuthFailure() {
		return apperrors.NewFieldError(http.StatusUnauthorized, "email", "Неверные учётные данные")
	}

	if errors.Is(err, apperrors.ErrUpstreamDown) {
		return apperrors.NewHttpError(http.StatusServiceUnavailable, "Сервер недоступен, попробуйте позже", err, nil)
	}

	return apperrors.NewHttpError(http.StatusInternalServerError, "Что-то пошло не так, повторите попытку позже", err, nil)
}

func toIdentityDTO(identity *entities.Identity) dto.IdentityDTO {
	return dto.IdentityDTO{
		Token:   identity.Token,
		Email:   identity.Email,
		Role:    identity.Role.String(),
		StoreID: identity.StoreID,
		UserID:  identity.UserID,
	}
}
