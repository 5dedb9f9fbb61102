package entities

import "time"

// Типы событий жизненного цикла сессии для журнала аудита.
const (
	SessionEventLogin       = "login"
	SessionEventLoginFailed = "login_failed"
	SessionEventLogout      = "logout"
	SessionEventForcedClear = "forced_clear"
)

// SessionEvent - запись журнала аудита сессий.
// TokenHash - первые 16 hex-символов sha256 от токена; сырой токен
// в базу не попадает никогда.
type SessionEvent struct {
	ID        string    `json:"id" db:"id"`
	Kind      string    `json:"kind" db:"kind"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	TokenHash string    `json:"token_hash" db:"token_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
