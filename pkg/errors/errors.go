package errors

import (
	"fmt"
	"net/http"
)

// Error представляет кастомную ошибку с дополнительной информацией
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// ErrorCode представляет код ошибки
type ErrorCode string

// Определение кодов ошибок
const (
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrBackendRejected ErrorCode = "BACKEND_REJECTED"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrInternal        ErrorCode = "INTERNAL_ERROR"
)

// Error возвращает сообщение об ошибке
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap возвращает причину ошибки
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is проверяет, является ли ошибка указанного типа
func (e *Error) Is(target error) bool {
	if targetError, ok := target.(*Error); ok {
		return e.Code == targetError.Code
	}
	return false
}

// New создает новую кастомную ошибку
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает существующую ошибку в кастомную
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WithDetails добавляет детали к ошибке
func (e *Error) WithDetails(details string) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// FromStatusCode создает ошибку по HTTP статусу ответа бэкенда.
// detail — человекочитаемая причина из тела ответа, statusText — запасной вариант.
func FromStatusCode(statusCode int, detail, statusText string) *Error {
	message := detail
	if message == "" {
		message = statusText
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return New(ErrUnauthorized, message)
	case http.StatusNotFound:
		return New(ErrNotFound, message)
	default:
		return New(ErrBackendRejected, message).
			WithDetails(fmt.Sprintf("статус бэкенда: %d", statusCode))
	}
}

// HTTPStatus возвращает HTTP статус, соответствующий коду ошибки
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}

	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBackendRejected:
		return http.StatusUnprocessableEntity
	case ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GetUserMessage возвращает пользовательское сообщение об ошибке
func (e *Error) GetUserMessage() string {
	if e == nil {
		return ""
	}

	if e.Message != "" {
		return e.Message
	}

	// Возвращаем сообщения на русском по умолчанию
	switch e.Code {
	case ErrValidation:
		return "Ошибка валидации данных"
	case ErrUnauthorized:
		return "Не авторизован"
	case ErrBackendRejected:
		return "Бэкенд отклонил операцию"
	case ErrNotFound:
		return "Ресурс не найден"
	case ErrInternal:
		return "Внутренняя ошибка"
	default:
		return "Произошла ошибка"
	}
}
