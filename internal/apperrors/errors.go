package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Доменные ошибки. Хендлеры переводят их в HTTP-статусы через Status,
// дальше границы запроса они не уходят.
var (
	ErrNotFound        = errors.New("не найдено")
	ErrConflict        = errors.New("конфликт уникальности")
	ErrAccessDenied    = errors.New("доступ запрещён")
	ErrUnauthenticated = errors.New("требуется авторизация")
	ErrInvalidToken    = errors.New("неверный или просроченный токен")
)

// ValidationError — не заполнено обязательное поле. Field — первое
// нарушенное поле в порядке проверки.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("поле %q обязательно", e.Field)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Status сопоставляет доменной ошибке HTTP-статус.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
