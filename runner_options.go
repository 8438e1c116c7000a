package status_logger

import (
	"github.com/sirupsen/logrus"
)

type RunnerOption func(*MigrationRunner)

func WithLogger(logger logrus.FieldLogger) RunnerOption {
	return func(m *MigrationRunner) {
		m.logger = logger
	}
}
