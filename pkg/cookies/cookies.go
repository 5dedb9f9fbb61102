// Файл: pkg/cookies/cookies.go
package cookies

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Имена cookie сессии. Обе видны фронту (не HttpOnly):
// дашборд читает их при гидрации.
const (
	TokenCookie = "token"
	RoleCookie  = "role"
)

// Surface - cookie-поверхность сессии. Единственное место,
// где выставляются и гасятся session-cookie.
type Surface struct {
	ttl    time.Duration
	secure bool
}

func NewSurface(ttl time.Duration, secure bool) *Surface {
	return &Surface{ttl: ttl, secure: secure}
}

func (s *Surface) build(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		MaxAge:   int(s.ttl.Seconds()),
		Secure:   s.secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	}
}

// Write выставляет token и role. Пустая роль гасит role-cookie,
// чтобы после записи не оставалось чужих остатков.
func (s *Surface) Write(c echo.Context, token, role string) {
	c.SetCookie(s.build(TokenCookie, token))
	if role != "" {
		c.SetCookie(s.build(RoleCookie, role))
	} else {
		c.SetCookie(expired(RoleCookie, s.secure))
	}
}

func (s *Surface) ReadToken(c echo.Context) string {
	return readCookie(c, TokenCookie)
}

func (s *Surface) ReadRole(c echo.Context) string {
	return readCookie(c, RoleCookie)
}

// Clear гасит обе cookie. Повторный вызов безопасен.
func (s *Surface) Clear(c echo.Context) {
	c.SetCookie(expired(TokenCookie, s.secure))
	c.SetCookie(expired(RoleCookie, s.secure))
}

func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func expired(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenFromRequest читает token-cookie напрямую из запроса.
// Нужен там, где echo.Context ещё недоступен (edge-проверка).
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
