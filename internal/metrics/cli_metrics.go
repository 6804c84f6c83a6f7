package metrics

import (
	"time"

	"LicenseKeyAdmin/pkg/logger"
	"LicenseKeyAdmin/pkg/metrics"
)

// CLIMetrics содержит метрики операций CLI
type CLIMetrics struct {
	metrics.Metrics
	logger logger.Logger
}

// NewCLIMetrics создает новые метрики для CLI
func NewCLIMetrics(log logger.Logger) *CLIMetrics {
	m := metrics.NewMetrics("lkadmin")

	return &CLIMetrics{
		Metrics: *m,
		logger:  log,
	}
}

// CommandExecuted регистрирует выполнение команды
func (c *CLIMetrics) CommandExecuted(command string, success bool, duration time.Duration) {
	c.logger.Debug("команда выполнена",
		logger.String("command", command),
		logger.Bool("success", success),
		logger.Duration("duration", duration))

	c.RequestCount.WithLabelValues("cli", command, statusLabel(success)).Inc()
	c.RequestDuration.WithLabelValues("cli", command).Observe(duration.Seconds())

	// Если команда неуспешна, увеличиваем счетчик ошибок
	if !success {
		c.ErrorsCount.WithLabelValues("cli", command, "execution_failed").Inc()
	}
}

// OutputGenerated регистрирует генерацию вывода
func (c *CLIMetrics) OutputGenerated(format string, recordCount int, duration time.Duration) {
	c.logger.Debug("вывод сформирован",
		logger.String("format", format),
		logger.Int("record_count", recordCount),
		logger.Duration("duration", duration))

	c.RequestCount.WithLabelValues("cli", "output_"+format, "success").Inc()
	c.RequestDuration.WithLabelValues("cli", "output_"+format).Observe(duration.Seconds())
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
