package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// AuditFilterDTO - фильтры списка событий аудита.
// null-типы отличают "фильтр не задан" от пустого значения.
type AuditFilterDTO struct {
	Kind     null.String
	Email    null.String
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}
