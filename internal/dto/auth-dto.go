package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ResetPasswordDTO struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// IdentityDTO - публичное представление сессии, отдаётся фронту
// после логина и из /auth/me.
type IdentityDTO struct {
	Token   string  `json:"token"`
	Email   string  `json:"email"`
	Role    string  `json:"role,omitempty"`
	StoreID *uint64 `json:"storeId,omitempty"`
	UserID  string  `json:"userId,omitempty"`
}
