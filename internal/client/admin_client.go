package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
)

// ActiveSystem представляет зарегистрированную систему, на которую
// выпускаются лицензии
type ActiveSystem struct {
	ID         int    `json:"id"`
	SystemName string `json:"system_name"`
}

// License представляет выпущенный лицензионный ключ.
// IPLimit == nil означает отсутствие ограничения по количеству IP.
type License struct {
	LicenseKey   string  `json:"license_key"`
	ActiveSystem *string `json:"active_system"`
	CreateAt     string  `json:"create_at"`
	IPLimit      *int    `json:"ip_limit"`
}

// SystemName возвращает отображаемое имя привязанной системы
func (l License) SystemName() string {
	if l.ActiveSystem == nil {
		return ""
	}
	return *l.ActiveSystem
}

// AdminClient - клиент административных операций бэкенда лицензий
type AdminClient struct {
	gateway *Gateway
	logger  logger.Logger
}

// NewAdminClient создает новый административный клиент
func NewAdminClient(gateway *Gateway, log logger.Logger) *AdminClient {
	return &AdminClient{
		gateway: gateway,
		logger:  log,
	}
}

// ListSystems получает список зарегистрированных систем
func (c *AdminClient) ListSystems(ctx context.Context) ([]ActiveSystem, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, "/active_system", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, DecodeError(resp)
	}

	var systems []ActiveSystem
	if err := json.NewDecoder(resp.Body).Decode(&systems); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка декодирования списка систем")
	}

	return systems, nil
}

// ListLicenses получает список выпущенных лицензий
func (c *AdminClient) ListLicenses(ctx context.Context) ([]License, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, "/licenses", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, DecodeError(resp)
	}

	var licenses []License
	if err := json.NewDecoder(resp.Body).Decode(&licenses); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка декодирования списка лицензий")
	}

	return licenses, nil
}

// RegisterSystem регистрирует новую систему
func (c *AdminClient) RegisterSystem(ctx context.Context, systemName string) error {
	body := map[string]interface{}{
		"system_name": systemName,
	}

	resp, err := c.gateway.Do(ctx, http.MethodPost, "/active_system", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DecodeError(resp)
	}

	c.logger.Info("система зарегистрирована", logger.String("system_name", systemName))
	return nil
}

// GenerateKey выпускает новый лицензионный ключ для системы.
// Содержимое и формат ключа полностью определяются бэкендом.
func (c *AdminClient) GenerateKey(ctx context.Context, systemID int) error {
	body := map[string]interface{}{
		"active_system_id": systemID,
	}

	resp, err := c.gateway.Do(ctx, http.MethodPost, "/generate", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DecodeError(resp)
	}

	c.logger.Info("лицензионный ключ выпущен", logger.Int("system_id", systemID))
	return nil
}

// UpdateIPLimit изменяет ограничение IP для ключа.
// limit == nil снимает ограничение. Операция идемпотентна: повторная
// отправка той же пары (ключ, лимит) не меняет состояние бэкенда.
func (c *AdminClient) UpdateIPLimit(ctx context.Context, licenseKey string, limit *int) error {
	body := map[string]interface{}{
		"ip_limit": limit,
	}

	path := fmt.Sprintf("/license_key/%s", url.PathEscape(licenseKey))
	resp, err := c.gateway.Do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DecodeError(resp)
	}

	if limit != nil {
		c.logger.Info("ограничение IP обновлено",
			logger.String("license_key", licenseKey),
			logger.Int("ip_limit", *limit))
	} else {
		c.logger.Info("ограничение IP снято", logger.String("license_key", licenseKey))
	}
	return nil
}
