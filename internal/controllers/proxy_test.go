package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/integrations/commerce"
	"shop-admin-gateway/internal/repositories"
	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/config"
	"shop-admin-gateway/pkg/contextkeys"
	"shop-admin-gateway/pkg/cookies"
	"shop-admin-gateway/pkg/middleware"
)

type proxyFixture struct {
	ctrl    *ProxyController
	store   services.SessionStoreInterface
	records *repositories.MemorySessionRecordRepository
}

func newProxyFixture(t *testing.T, upstream http.Handler) *proxyFixture {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	provider := commerce.NewProvider(config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: time.Second * 5,
	}, zap.NewNop())

	records := repositories.NewMemorySessionRecordRepository()
	store := services.NewSessionStore(cookies.NewSurface(time.Hour, false), records, zap.NewNop())
	audit := services.NewAuditService(nil, zap.NewNop())

	return &proxyFixture{
		ctrl:    NewProxyController(provider, store, audit, zap.NewNop()),
		store:   store,
		records: records,
	}
}

// proxyContext имитирует запрос вошедшего пользователя к /api/*:
// token-cookie в запросе, гидрированный SessionContext в контексте.
func proxyContext(t *testing.T, f *proxyFixture, token string) (echo.Context, *httptest.ResponseRecorder, *services.SessionContext) {
	return proxyContextTo(t, f, token, "/api/products")
}

func proxyContextTo(t *testing.T, f *proxyFixture, token, target string) (echo.Context, *httptest.ResponseRecorder, *services.SessionContext) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookies.TokenCookie, Value: token})
		req.AddCookie(&http.Cookie{Name: cookies.RoleCookie, Value: "ADMIN"})
	}

	sc := services.NewSessionContext()
	ctx := context.WithValue(req.Context(), contextkeys.SessionContextKey, sc)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("*")
	c.SetParamValues("products")

	sc.Hydrate(f.store, c)
	return c, rec, sc
}

func TestProxy_ForwardPassesThrough(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":true}`))
	}))

	c, rec, _ := proxyContext(t, f, "jwt")
	require.NoError(t, f.ctrl.Forward(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true}`, rec.Body.String())
}

// Query string списочных экранов (пагинация, фильтры, format=...)
// обязана дойти до API без потерь.
func TestProxy_ForwardKeepsQueryString(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "page=2&limit=50", r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
	}))

	c, rec, _ := proxyContextTo(t, f, "jwt", "/api/products?page=2&limit=50")
	require.NoError(t, f.ctrl.Forward(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Content-Type исходного запроса переживает проксирование.
func TestProxy_ForwardKeepsContentType(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "multipart/form-data; boundary=xyz", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))

	c, rec, _ := proxyContext(t, f, "jwt")
	c.Request().Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=xyz")
	require.NoError(t, f.ctrl.Forward(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// 401/403 от API на любой ресурсный вызов: полная чистка обеих
// поверхностей, выход из SessionContext и редирект на вход.
// Никаких inline-ошибок - формы может не быть на экране.
func TestProxy_ForwardAuthFailureClearsSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		// Сессия жила в обеих поверхностях до отказа.
		require.NoError(t, f.records.Save(context.Background(), entities.Identity{
			Token: "jwt", Email: "admin@shop.tj", Role: entities.RoleAdmin,
		}))

		c, rec, sc := proxyContext(t, f, "jwt")
		require.Equal(t, services.StateAuthenticated, sc.State())

		require.NoError(t, f.ctrl.Forward(c))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.PathLogin, rec.Header().Get(echo.HeaderLocation))

		_, err := f.records.Find(context.Background(), "jwt")
		assert.Error(t, err, "запись сессии должна быть удалена")
		assert.Equal(t, services.StateAnonymous, sc.State())

		for _, cookie := range rec.Result().Cookies() {
			assert.Equal(t, -1, cookie.MaxAge, "cookie %s должна быть погашена", cookie.Name)
		}
	}
}

// Ошибки прикладного уровня (404, 500 от API) сессию не трогают -
// чистка положена только на 401/403.
func TestProxy_ForwardNonAuthErrorKeepsSession(t *testing.T) {
	f := newProxyFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	require.NoError(t, f.records.Save(context.Background(), entities.Identity{Token: "jwt", Role: entities.RoleAdmin}))

	c, rec, sc := proxyContext(t, f, "jwt")
	require.NoError(t, f.ctrl.Forward(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, services.StateAuthenticated, sc.State())
	_, err := f.records.Find(context.Background(), "jwt")
	assert.NoError(t, err)
}

func TestProxy_ForwardUpstreamDown(t *testing.T) {
	provider := commerce.NewProvider(config.UpstreamConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Millisecond * 200,
	}, zap.NewNop())
	store := services.NewSessionStore(cookies.NewSurface(time.Hour, false), repositories.NewMemorySessionRecordRepository(), zap.NewNop())
	ctrl := NewProxyController(provider, store, services.NewAuditService(nil, zap.NewNop()), zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("*")
	c.SetParamValues("products")

	require.NoError(t, ctrl.Forward(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
