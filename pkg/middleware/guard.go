// Файл: pkg/middleware/guard.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/utils"
)

type GuardAction int

const (
	GuardAllow GuardAction = iota
	GuardLoading
	GuardRedirect
)

type GuardDecision struct {
	Action GuardAction
	Target string
}

// DecideGuard - проверка зоны, требующей конкретной роли.
// Пока сессия гидрируется - заглушка и ноль редиректов (иначе
// пользователь поймает редирект-вспышку до завершения гидрации).
// Аноним - на форму входа. Вошедший с неподходящей ролью - в общую
// закрытую зону: пользователь валидный, просто прав не хватает.
// Нераспознанная роль прав не даёт никогда.
func DecideGuard(state services.SessionState, identity entities.Identity, required entities.Role) GuardDecision {
	switch state {
	case services.StateBootstrapping:
		return GuardDecision{Action: GuardLoading}
	case services.StateAnonymous:
		return GuardDecision{Action: GuardRedirect, Target: PathLogin}
	}

	if !identity.IsAuthenticated() {
		return GuardDecision{Action: GuardRedirect, Target: PathLogin}
	}
	if !required.Valid() || identity.Role != required {
		return GuardDecision{Action: GuardRedirect, Target: ProtectedPrefix}
	}
	return GuardDecision{Action: GuardAllow}
}

// RequireRole перепроверяет роль на каждый запрос по гидрированному
// SessionContext - закрывает окно между edge-пропуском и полной
// гидрацией, а также смену роли по ходу сессии.
func RequireRole(required entities.Role, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc, err := utils.GetSessionContext(c)
			if err != nil {
				logger.Error("RequireRole: маршрут не обёрнут session-middleware", zap.Error(err))
				return utils.ErrorResponse(c, err, logger)
			}

			decision := DecideGuard(sc.State(), sc.Identity(), required)
			switch decision.Action {
			case GuardLoading:
				return c.JSON(http.StatusOK, map[string]interface{}{
					"status": true,
					"body":   map[string]string{"state": "loading"},
				})
			case GuardRedirect:
				return c.Redirect(http.StatusFound, decision.Target)
			}
			return next(c)
		}
	}
}
