package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Общие
	ErrNotFound = fmt.Errorf("запись не найдена")

	// Движок распределения
	ErrConcurrency        = fmt.Errorf("не удалось получить блокировку оборудования, повторите операцию")
	ErrInvariantViolation = fmt.Errorf("нарушение инварианта количеств")
)

// Kind — класс ошибки движка. Попадает в payload ответа как error_kind.
type Kind string

const (
	KindValidation  Kind = "validation_error"
	KindConflict    Kind = "conflict_error"
	KindNotFound    Kind = "not_found_error"
	KindConcurrency Kind = "concurrency_error"
	KindInvariant   Kind = "invariant_violation"
)

type HttpError struct {
	Code    int
	Kind    Kind
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// NewValidationError — запрошенное количество превышает доступное, дубликат
// локации в плане и т.п. Числовая граница, которая была нарушена, кладётся
// в details под ключом "bound".
func NewValidationError(message string, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: message,
		Details: details,
	}
}

// NewConflictError — переход статуса заблокирован пересекающимся
// обязательством другой брони. В details кладём сам список конфликтов.
func NewConflictError(message string, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
		Details: details,
	}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

func NewConcurrencyError(message string) *HttpError {
	return &HttpError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindConcurrency,
		Message: message,
		Err:     ErrConcurrency,
	}
}

// NewInvariantViolation — инварианты раскладки нарушены после применения мутации.
// При корректных блокировках недостижимо; считается внутренней ошибкой.
func NewInvariantViolation(message string, details map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInvariant,
		Message: message,
		Err:     ErrInvariantViolation,
		Details: details,
	}
}

// IsKind проверяет класс ошибки, не разворачивая её вручную на каждом вызове.
func IsKind(err error, kind Kind) bool {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Kind == kind
	}
	return false
}
