// Файл: internal/services/session_context.go
package services

import (
	"sync"

	"github.com/labstack/echo/v4"

	"shop-admin-gateway/internal/entities"
)

type SessionState int

const (
	StateBootstrapping SessionState = iota
	StateAuthenticated
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateAnonymous:
		return "ANONYMOUS"
	}
	return "BOOTSTRAPPING"
}

// SessionContext - единственный источник правды о текущей сессии для
// обработчиков. Создаётся заново на каждый запрос (в тестах - руками),
// стартует в BOOTSTRAPPING и после единственной гидрации из SessionStore
// переходит в AUTHENTICATED или ANONYMOUS.
type SessionContext struct {
	mu       sync.RWMutex
	state    SessionState
	identity entities.Identity
	hydrated bool
}

func NewSessionContext() *SessionContext {
	return &SessionContext{state: StateBootstrapping}
}

// Hydrate выполняет ровно одно чтение из хранилища за жизнь контекста.
// Повторные вызовы ничего не перечитывают.
func (sc *SessionContext) Hydrate(store SessionStoreInterface, c echo.Context) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.hydrated {
		return
	}
	sc.hydrated = true

	identity := store.Read(c)
	if !identity.IsAuthenticated() {
		sc.state = StateAnonymous
		return
	}

	if identity.UserID == "" {
		identity.UserID = entities.PendingUserID
	}
	sc.identity = identity
	sc.state = StateAuthenticated
}

// Login переводит контекст в AUTHENTICATED синхронно, из результата
// CredentialService - без перечитывания хранилища. Сессия видна
// в том же стеке вызовов, где завершился логин.
func (sc *SessionContext) Login(identity entities.Identity) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if identity.UserID == "" {
		identity.UserID = entities.PendingUserID
	}
	sc.identity = identity
	sc.state = StateAuthenticated
	sc.hydrated = true
}

// Logout переводит контекст в ANONYMOUS из любого состояния.
func (sc *SessionContext) Logout() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.identity = entities.Identity{}
	sc.state = StateAnonymous
	sc.hydrated = true
}

func (sc *SessionContext) State() SessionState {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.state
}

func (sc *SessionContext) Identity() entities.Identity {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.identity
}

// IsAuthenticated производный: есть токен - вошли. Отдельный флаг
// не храним, чтобы состоянию не с чем было разъезжаться.
func (sc *SessionContext) IsAuthenticated() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.state == StateAuthenticated && sc.identity.IsAuthenticated()
}
