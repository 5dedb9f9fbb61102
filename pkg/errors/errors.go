package errors

import (
	"fmt"
	"net/http"
)

var (
	// Авторизация и сессия
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrTokenNotFound      = fmt.Errorf("токен не найден")
	ErrTooManyAttempts    = fmt.Errorf("слишком много попыток входа")

	// Внешний API
	ErrUpstreamDown = fmt.Errorf("сервер недоступен, попробуйте позже")

	// Контекст
	ErrSessionContextNotFound = fmt.Errorf("SessionContext не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// HttpError - единый тип ошибки для ответов API.
// Message уходит пользователю, Err и Context - только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, nil)
}

func NewUnauthorizedError(message string) *HttpError {
	return NewHttpError(http.StatusUnauthorized, message, nil, nil)
}

// NewFieldError - ошибка, привязанная к конкретному полю формы.
// Фронт показывает её под нужным input-ом.
func NewFieldError(code int, field, message string) *HttpError {
	httpErr := NewHttpError(code, message, nil, nil)
	httpErr.Details = map[string]string{"field": field}
	return httpErr
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
