package contextkeys

type contextKey string

const (
	SessionContextKey contextKey = "SessionContext"
)
