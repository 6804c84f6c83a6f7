package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	// Ошибка без причины возвращает только сообщение
	err := New(ErrValidation, "некорректный ввод")
	assert.Equal(t, "некорректный ввод", err.Error())

	// Ошибка с причиной включает ее в сообщение
	wrapped := Wrap(fmt.Errorf("сбой сети"), ErrInternal, "запрос не выполнен")
	assert.Equal(t, "запрос не выполнен: сбой сети", wrapped.Error())
}

func TestError_Is(t *testing.T) {
	err := New(ErrUnauthorized, "токен отклонен")

	// Сравнение идет по коду, а не по сообщению
	assert.ErrorIs(t, err, New(ErrUnauthorized, "другое сообщение"))
	assert.NotErrorIs(t, err, New(ErrValidation, "токен отклонен"))
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("исходная ошибка")
	err := Wrap(cause, ErrInternal, "обертка")

	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "не должно создаваться"))
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		detail     string
		statusText string
		wantCode   ErrorCode
		wantMsg    string
	}{
		{
			name:       "401 становится ошибкой авторизации",
			statusCode: http.StatusUnauthorized,
			detail:     "token expired",
			statusText: "Unauthorized",
			wantCode:   ErrUnauthorized,
			wantMsg:    "token expired",
		},
		{
			name:       "404 становится not found",
			statusCode: http.StatusNotFound,
			statusText: "Not Found",
			wantCode:   ErrNotFound,
			wantMsg:    "Not Found",
		},
		{
			name:       "прочие статусы - отказ бэкенда с detail",
			statusCode: http.StatusUnprocessableEntity,
			detail:     "ip_limit must be non-negative",
			statusText: "Unprocessable Entity",
			wantCode:   ErrBackendRejected,
			wantMsg:    "ip_limit must be non-negative",
		},
		{
			name:       "без detail используется текст статуса",
			statusCode: http.StatusInternalServerError,
			statusText: "Internal Server Error",
			wantCode:   ErrBackendRejected,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatusCode(tt.statusCode, tt.detail, tt.statusText)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
		})
	}
}

func TestError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, New(ErrValidation, "").HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, New(ErrUnauthorized, "").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, New(ErrNotFound, "").HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, New(ErrBackendRejected, "").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, New(ErrInternal, "").HTTPStatus())
}

func TestError_GetUserMessage(t *testing.T) {
	// Сообщение ошибки имеет приоритет
	err := New(ErrValidation, "имя системы не может быть пустым")
	assert.Equal(t, "имя системы не может быть пустым", err.GetUserMessage())

	// Без сообщения возвращается текст по коду
	empty := New(ErrUnauthorized, "")
	assert.Equal(t, "Не авторизован", empty.GetUserMessage())
}
