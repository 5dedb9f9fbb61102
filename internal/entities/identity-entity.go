package entities

// PendingUserID - заглушка для userId, когда бэкенд не вернул
// постоянный идентификатор при логине. Значение отображаемое,
// доверять ему как настоящему id нельзя.
const PendingUserID = "pending"

// Identity - логическая запись сессии: кто вошёл в админку.
type Identity struct {
	Token   string  `json:"token"`
	Email   string  `json:"email"`
	Role    Role    `json:"role"`
	StoreID *uint64 `json:"store_id,omitempty"`
	UserID  string  `json:"user_id,omitempty"`
}

// IsAuthenticated - производный признак: есть токен, значит вошли.
// Отдельного флага нет намеренно, чтобы им нельзя было разъехаться.
func (i Identity) IsAuthenticated() bool {
	return i.Token != ""
}
