package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"LicenseKeyAdmin/internal/session"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
	"LicenseKeyAdmin/pkg/metrics"
)

const userAgent = "LicenseKeyAdmin-CLI/1.0"

// Gateway - единственная точка взаимодействия с бэкендом лицензий.
// Прикрепляет bearer токен и JSON-заголовки к каждому запросу, статусы
// ответов не интерпретирует - это ответственность вызывающего кода.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewGateway создает новый шлюз к бэкенду
func NewGateway(baseURL string, timeout time.Duration, sess *session.Session, m *metrics.Metrics, log logger.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: sess,
		metrics: m,
		logger:  log,
	}
}

// Do выполняет JSON запрос к бэкенду с bearer токеном.
// Отмена контекста прерывает запрос; такая ошибка не считается сбоем
// приложения и должна гаситься вызывающим кодом.
func (g *Gateway) Do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	// Сериализуем тело запроса, если оно есть
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка кодирования запроса: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	// Content-Type ставим только при наличии тела
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("User-Agent", userAgent)

	// Прикрепляем bearer токен текущей сессии
	if token := g.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return g.execute(ctx, httpReq, method, path)
}

// DoForm выполняет form-encoded запрос без bearer токена.
// Используется только для входа, когда токена еще нет.
func (g *Gateway) DoForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", userAgent)

	return g.execute(ctx, httpReq, http.MethodPost, path)
}

// execute выполняет подготовленный запрос со сбором метрик и трассировкой
func (g *Gateway) execute(ctx context.Context, httpReq *http.Request, method, path string) (*http.Response, error) {
	_, span := g.metrics.StartSpan(ctx, method, path)
	defer span.End()

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		// Отмену не логируем как ошибку - это штатное завершение цикла
		if ctx.Err() != nil {
			return nil, fmt.Errorf("запрос прерван: %w", ctx.Err())
		}

		g.metrics.ErrorsCount.WithLabelValues(method, path, "transport_error").Inc()
		g.logger.Error("ошибка выполнения HTTP запроса",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err))
		return nil, fmt.Errorf("ошибка выполнения HTTP запроса: %w", err)
	}

	g.metrics.ObserveRequest(method, path, resp.StatusCode, duration)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	g.logger.Debug("HTTP запрос выполнен",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", duration))

	return resp, nil
}

// errorPayload представляет структурированное тело ошибки бэкенда
type errorPayload struct {
	Detail string `json:"detail"`
}

// DecodeError строит типизированную ошибку по неуспешному ответу бэкенда.
// Причина берется из поля detail тела ответа, иначе из текста статуса.
func DecodeError(resp *http.Response) *pkgerrors.Error {
	var payload errorPayload
	if body, err := io.ReadAll(resp.Body); err == nil {
		// Тело может быть не JSON - тогда просто игнорируем его
		_ = json.Unmarshal(body, &payload)
	}

	return pkgerrors.FromStatusCode(resp.StatusCode, payload.Detail, http.StatusText(resp.StatusCode))
}
