package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/contextkeys"
	apperrors "shop-admin-gateway/pkg/errors"
	"shop-admin-gateway/pkg/middleware"
	"shop-admin-gateway/pkg/utils"
)

// fakeCredentialService отдаёт заранее заданный результат -
// контроллер тестируем отдельно от сети.
type fakeCredentialService struct {
	identity  *entities.Identity
	err       error
	loggedOut bool
}

func (s *fakeCredentialService) Login(_ echo.Context, _ dto.LoginDTO) (*entities.Identity, error) {
	return s.identity, s.err
}

func (s *fakeCredentialService) ResetPassword(_ context.Context, _ dto.ResetPasswordDTO) error {
	return s.err
}

func (s *fakeCredentialService) Logout(_ echo.Context) {
	s.loggedOut = true
}

func authRequest(t *testing.T, svc services.CredentialServiceInterface, body string) (*httptest.ResponseRecorder, *services.SessionContext) {
	t.Helper()

	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	sc := services.NewSessionContext()
	sc.Logout() // гидрация уже прошла, сессии нет
	req = req.WithContext(context.WithValue(req.Context(), contextkeys.SessionContextKey, sc))

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ctrl := NewAuthController(svc, zap.NewNop())
	require.NoError(t, ctrl.Login(c))
	return rec, sc
}

func TestAuthController_LoginSuccess(t *testing.T) {
	storeID := uint64(7)
	svc := &fakeCredentialService{identity: &entities.Identity{
		Token:   "jwt",
		Email:   "admin@shop.tj",
		Role:    entities.RoleAdmin,
		StoreID: &storeID,
		UserID:  "2",
	}}

	rec, sc := authRequest(t, svc, `{"email":"admin@shop.tj","password":"adminsecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Сессия видна синхронно, в том же запросе.
	assert.Equal(t, services.StateAuthenticated, sc.State())
	assert.Equal(t, "admin@shop.tj", sc.Identity().Email)

	var resp struct {
		Status bool `json:"status"`
		Body   struct {
			Token  string `json:"token"`
			Role   string `json:"role"`
			UserID string `json:"userId"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, "jwt", resp.Body.Token)
	assert.Equal(t, "ADMIN", resp.Body.Role)
	assert.Equal(t, "2", resp.Body.UserID)
}

// Неверные данные - это ошибка у поля email, а не общий баннер.
func TestAuthController_LoginInvalidCredentials(t *testing.T) {
	svc := &fakeCredentialService{err: &commerce.UpstreamError{Status: http.StatusUnauthorized, Body: "{}"}}

	rec, sc := authRequest(t, svc, `{"email":"admin@shop.tj","password":"не-тот-пароль"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, services.StateAnonymous, sc.State())

	var resp struct {
		Status  bool              `json:"status"`
		Message string            `json:"message"`
		Body    map[string]string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Equal(t, "Неверные учётные данные", resp.Message)
	assert.Equal(t, "email", resp.Body["field"])
}

// Транспортный сбой - отдельное сообщение: пользователь не виноват.
func TestAuthController_LoginUpstreamDown(t *testing.T) {
	svc := &fakeCredentialService{err: apperrors.ErrUpstreamDown}

	rec, _ := authRequest(t, svc, `{"email":"admin@shop.tj","password":"adminsecret"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Сервер недоступен, попробуйте позже", resp.Message)
}

// Всё прочее - общий ответ без деталей наружу.
func TestAuthController_LoginUnexpectedError(t *testing.T) {
	svc := &fakeCredentialService{err: &commerce.UpstreamError{Status: http.StatusBadGateway, Body: "oops"}}

	rec, _ := authRequest(t, svc, `{"email":"admin@shop.tj","password":"adminsecret"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "oops")
}

// Маршрут без session-middleware - ошибка конфигурации: логин при
// этом записан и отвечает успехом, а ошибка уходит в лог, не в тишину.
func TestAuthController_LoginWithoutSessionContext(t *testing.T) {
	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@shop.tj","password":"adminsecret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	core, observed := observer.New(zap.ErrorLevel)
	svc := &fakeCredentialService{identity: &entities.Identity{Token: "jwt", Role: entities.RoleAdmin}}
	ctrl := NewAuthController(svc, zap.New(core))

	require.NoError(t, ctrl.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, observed.FilterMessageSnippet("session-middleware").Len(),
		"отсутствие SessionContext должно попасть в лог")
}

func TestAuthController_LoginValidation(t *testing.T) {
	svc := &fakeCredentialService{}

	rec, _ := authRequest(t, svc, `{"email":"не-почта","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthController_Logout(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	sc := services.NewSessionContext()
	sc.Login(entities.Identity{Token: "jwt", Role: entities.RoleAdmin})
	req = req.WithContext(context.WithValue(req.Context(), contextkeys.SessionContextKey, sc))

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	svc := &fakeCredentialService{}
	ctrl := NewAuthController(svc, zap.NewNop())
	require.NoError(t, ctrl.Logout(c))

	assert.True(t, svc.loggedOut)
	assert.Equal(t, services.StateAnonymous, sc.State())
	// Жёсткая навигация на вход.
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.PathLogin, rec.Header().Get(echo.HeaderLocation))
}

func TestAuthController_Me(t *testing.T) {
	e := echo.New()

	// Аноним получает 401.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sc := services.NewSessionContext()
	sc.Logout()
	req = req.WithContext(context.WithValue(req.Context(), contextkeys.SessionContextKey, sc))
	rec := httptest.NewRecorder()
	ctrl := NewAuthController(&fakeCredentialService{}, zap.NewNop())
	require.NoError(t, ctrl.Me(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Вошедший видит свою сессию.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sc = services.NewSessionContext()
	sc.Login(entities.Identity{Token: "jwt", Email: "staff@shop.tj", Role: entities.RoleStaff})
	req = req.WithContext(context.WithValue(req.Context(), contextkeys.SessionContextKey, sc))
	rec = httptest.NewRecorder()
	require.NoError(t, ctrl.Me(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staff@shop.tj")
}
