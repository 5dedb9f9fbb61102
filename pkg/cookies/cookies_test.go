// Файл: pkg/cookies/cookies_test.go
package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfaceContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSurface_WriteAttributes(t *testing.T) {
	s := NewSurface(time.Hour*24*7, true)
	c, rec := surfaceContext(t)

	s.Write(c, "jwt", "ADMIN")

	token := cookieByName(t, rec, TokenCookie)
	require.NotNil(t, token)
	assert.Equal(t, "jwt", token.Value)
	assert.Equal(t, "/", token.Path)
	assert.Equal(t, int((time.Hour * 24 * 7).Seconds()), token.MaxAge)
	assert.True(t, token.Secure)
	assert.False(t, token.HttpOnly, "cookie читаются фронтом, HttpOnly недопустим")
	assert.Equal(t, http.SameSiteStrictMode, token.SameSite)

	role := cookieByName(t, rec, RoleCookie)
	require.NotNil(t, role)
	assert.Equal(t, "ADMIN", role.Value)
}

func TestSurface_SecureOnlyInProduction(t *testing.T) {
	s := NewSurface(time.Hour, false)
	c, rec := surfaceContext(t)

	s.Write(c, "jwt", "ADMIN")
	token := cookieByName(t, rec, TokenCookie)
	require.NotNil(t, token)
	assert.False(t, token.Secure)
}

// Пустая роль гасит role-cookie: чужих остатков после записи не остаётся.
func TestSurface_WriteEmptyRoleExpiresRoleCookie(t *testing.T) {
	s := NewSurface(time.Hour, false)
	c, rec := surfaceContext(t)

	s.Write(c, "jwt", "")

	role := cookieByName(t, rec, RoleCookie)
	require.NotNil(t, role)
	assert.Equal(t, -1, role.MaxAge)
	assert.Empty(t, role.Value)
}

func TestSurface_Clear(t *testing.T) {
	s := NewSurface(time.Hour, false)
	c, rec := surfaceContext(t)

	s.Clear(c)

	for _, name := range []string{TokenCookie, RoleCookie} {
		cookie := cookieByName(t, rec, name)
		require.NotNil(t, cookie)
		assert.Equal(t, -1, cookie.MaxAge)
		assert.Empty(t, cookie.Value)
	}
}

func TestSurface_ReadFromRequest(t *testing.T) {
	s := NewSurface(time.Hour, false)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: RoleCookie, Value: "STAFF"})
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "jwt", s.ReadToken(c))
	assert.Equal(t, "STAFF", s.ReadRole(c))
	assert.Equal(t, "jwt", TokenFromRequest(req))
}

func TestSurface_ReadMissing(t *testing.T) {
	s := NewSurface(time.Hour, false)
	c, _ := surfaceContext(t)

	assert.Empty(t, s.ReadToken(c))
	assert.Empty(t, s.ReadRole(c))
	assert.Empty(t, TokenFromRequest(c.Request()))
}
