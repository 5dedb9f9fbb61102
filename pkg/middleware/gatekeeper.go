// Файл: pkg/middleware/gatekeeper.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shop-admin-gateway/pkg/cookies"
)

// Публичные и служебные пути дашборда.
const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathRegister       = "/register"
	PathForgotPassword = "/forgot-password"
	ProtectedPrefix    = "/admin"
)

type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

// Decision - результат edge-проверки. Middleware лишь применяет его,
// сама проверка - чистая функция, тестируемая без HTTP.
type Decision struct {
	Action Action
	Target string
}

func redirectTo(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

var publicPaths = map[string]bool{
	PathRoot:           true,
	PathLogin:          true,
	PathSignup:         true,
	PathRegister:       true,
	PathForgotPassword: true,
}

// Decide - таблица решений edge-проверки, в строгом порядке.
// Проверка нарочно грубая: смотрим только наличие токена в cookie,
// не его валидность и не роль. Глубокая проверка - дальше по конвейеру.
func Decide(path string, hasToken bool) Decision {
	// 1. Легаси-алиас регистрации уводим на каноничный путь всегда,
	// независимо от состояния сессии.
	if path == PathRegister || strings.HasPrefix(path, PathRegister+"/") {
		return redirectTo(PathSignup)
	}

	// 2. Закрытая зона без токена - на форму входа.
	if !publicPaths[path] && strings.HasPrefix(path, ProtectedPrefix) && !hasToken {
		return redirectTo(PathLogin)
	}

	// 3. Вошедшему нечего делать на страницах входа.
	if hasToken && (path == PathLogin || path == PathSignup) {
		return redirectTo(ProtectedPrefix)
	}

	return Decision{Action: ActionAllow}
}

// Gatekeeper применяет Decide до какой-либо обработки запроса.
// Доступа к записи сессии и SessionContext у него нет намеренно -
// только cookie запроса и путь.
func Gatekeeper() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hasToken := cookies.TokenFromRequest(c.Request()) != ""
			decision := Decide(c.Request().URL.Path, hasToken)
			if decision.Action == ActionRedirect {
				return c.Redirect(http.StatusFound, decision.Target)
			}
			return next(c)
		}
	}
}
