package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
)

// tokenResponse представляет ответ бэкенда на запрос входа
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthClient - клиент операций аутентификации
type AuthClient struct {
	gateway *Gateway
	logger  logger.Logger
}

// NewAuthClient создает новый клиент аутентификации
func NewAuthClient(gateway *Gateway, log logger.Logger) *AuthClient {
	return &AuthClient{
		gateway: gateway,
		logger:  log,
	}
}

// Login выполняет вход оператора и возвращает access токен.
// Бэкенд принимает form-encoded логин и пароль на POST /token.
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	c.logger.Info("попытка входа оператора", logger.String("username", username))

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.gateway.DoForm(ctx, "/token", form)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		backendErr := DecodeError(resp)
		c.logger.Warn("неудачная попытка входа",
			logger.String("username", username),
			logger.Int("status", resp.StatusCode))
		return "", backendErr
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка декодирования ответа входа")
	}

	if token.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.ErrInternal, "бэкенд вернул пустой access_token")
	}

	c.logger.Info("оператор успешно вошел", logger.String("username", username))
	return token.AccessToken, nil
}
