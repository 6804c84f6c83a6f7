package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"LicenseKeyAdmin/internal/client"
	climetrics "LicenseKeyAdmin/internal/metrics"
	"LicenseKeyAdmin/internal/state"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
	"LicenseKeyAdmin/pkg/validation"
)

// Manager выполняет административные мутации.
// Общая схема каждой операции: валидация - вызов бэкенда - при успехе
// повторная синхронизация. Локальное состояние никогда не меняется
// оптимистично: отображаемые данные всегда результат реальной
// синхронизации.
type Manager struct {
	client       *client.AdminClient
	synchronizer *state.Synchronizer
	validator    *validation.Validator
	metrics      *climetrics.CLIMetrics
	logger       logger.Logger
}

// NewManager создает новый менеджер мутаций
func NewManager(
	adminClient *client.AdminClient,
	synchronizer *state.Synchronizer,
	cliMetrics *climetrics.CLIMetrics,
	log logger.Logger,
) *Manager {
	return &Manager{
		client:       adminClient,
		synchronizer: synchronizer,
		validator:    validation.NewValidator(),
		metrics:      cliMetrics,
		logger:       log,
	}
}

// RegisterSystem регистрирует новую систему.
// Пустое имя или имя из одних пробелов отклоняется локально без
// сетевого вызова.
func (m *Manager) RegisterSystem(ctx context.Context, systemName string) error {
	start := time.Now()

	if err := m.validator.ValidateNotBlank("имя системы", systemName); err != nil {
		m.metrics.CommandExecuted("register_system", false, time.Since(start))
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "некорректное имя системы")
	}

	if err := m.client.RegisterSystem(ctx, systemName); err != nil {
		m.metrics.CommandExecuted("register_system", false, time.Since(start))
		m.logger.Error("ошибка регистрации системы",
			logger.String("system_name", systemName),
			logger.Error(err))
		return err
	}

	m.metrics.CommandExecuted("register_system", true, time.Since(start))

	// Успешная мутация подтверждается повторной синхронизацией
	return m.resync(ctx)
}

// IssueLicense выпускает лицензионный ключ для выбранной системы.
// Отсутствие выбранной системы отклоняется локально.
func (m *Manager) IssueLicense(ctx context.Context, systemID int) error {
	start := time.Now()

	if err := m.validator.ValidatePositiveInt("идентификатор системы", systemID); err != nil {
		m.metrics.CommandExecuted("issue_license", false, time.Since(start))
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "система не выбрана")
	}

	if err := m.client.GenerateKey(ctx, systemID); err != nil {
		m.metrics.CommandExecuted("issue_license", false, time.Since(start))
		m.logger.Error("ошибка выпуска лицензии",
			logger.Int("system_id", systemID),
			logger.Error(err))
		return err
	}

	m.metrics.CommandExecuted("issue_license", true, time.Since(start))

	return m.resync(ctx)
}

// UpdateIPLimit изменяет ограничение IP для лицензионного ключа.
//
// Нормализация ввода: строка обрезается; пустая строка означает снятие
// ограничения; непустая должна быть неотрицательным целым числом.
// Ошибка валидации не доходит до сети. Отказ бэкенда НЕ вызывает
// повторную синхронизацию - отображаемое значение остается прежним,
// как и значение на бэкенде. Успех подтверждается синхронизацией,
// чтобы показать значение с учетом нормализации на стороне бэкенда.
func (m *Manager) UpdateIPLimit(ctx context.Context, licenseKey, rawInput string) error {
	start := time.Now()

	if err := m.validator.ValidateNotBlank("лицензионный ключ", licenseKey); err != nil {
		m.metrics.CommandExecuted("update_ip_limit", false, time.Since(start))
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "некорректный лицензионный ключ")
	}

	limit, err := ParseIPLimit(rawInput)
	if err != nil {
		m.metrics.CommandExecuted("update_ip_limit", false, time.Since(start))
		return err
	}

	if err := m.client.UpdateIPLimit(ctx, licenseKey, limit); err != nil {
		m.metrics.CommandExecuted("update_ip_limit", false, time.Since(start))
		m.logger.Error("ошибка обновления ограничения IP",
			logger.String("license_key", licenseKey),
			logger.Error(err))
		return err
	}

	m.metrics.CommandExecuted("update_ip_limit", true, time.Since(start))

	return m.resync(ctx)
}

// ParseIPLimit разбирает ввод оператора для ограничения IP.
// Пустая строка означает отсутствие ограничения (nil). Непустая строка
// должна быть целым числом >= 0, иначе возвращается ошибка валидации.
func ParseIPLimit(rawInput string) (*int, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return nil, nil
	}

	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.ErrValidation,
			"ограничение IP должно быть целым числом или пустой строкой для снятия ограничения")
	}

	if parsed < 0 {
		return nil, pkgerrors.New(pkgerrors.ErrValidation,
			"ограничение IP не может быть отрицательным")
	}

	return &parsed, nil
}

// resync запускает синхронизацию после успешной мутации.
// Отмена цикла не считается сбоем и не показывается оператору.
func (m *Manager) resync(ctx context.Context) error {
	if _, err := m.synchronizer.Sync(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}
