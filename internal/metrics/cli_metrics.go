package metrics

import (
	"time"

	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/metrics"
)

// CLIMetrics содержит метрики для CLI операций
type CLIMetrics struct {
	metrics.Metrics
	logger logger.Logger
}

// NewCLIMetrics создает новые метрики для CLI
func NewCLIMetrics(log logger.Logger) *CLIMetrics {
	m := metrics.NewMetrics("invera_cli")

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

	if !success {
		c.ErrorsCount.WithLabelValues("cli", command, "execution_failed").Inc()
	}
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
