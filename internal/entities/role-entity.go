package entities

import "strings"

// Role - каноничная роль пользователя в админке.
// Пустая строка означает "роль не распознана".
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleCustomer   Role = "CUSTOMER"
	RoleUnknown    Role = ""
)

const rolePrefix = "ROLE_"

// NormalizeRole приводит сырую строку роли из бэкенда к каноничному значению.
// Бэкенд присылает роли в разном виде: "role_admin", "Admin", "ADMIN" - всё это ADMIN.
// Нераспознанное значение превращается в RoleUnknown, без ошибок и паник:
// отсутствие роли - штатная ситуация, а не сбой.
func NormalizeRole(raw string) Role {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.TrimPrefix(cleaned, rolePrefix)

	switch Role(cleaned) {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleCustomer:
		return Role(cleaned)
	}
	return RoleUnknown
}

func (r Role) Valid() bool {
	return r != RoleUnknown
}

func (r Role) String() string {
	return string(r)
}
