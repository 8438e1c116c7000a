package status_logger

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Maksumys/status-logger/internal/models"
)

// Config is populated from STATUS_LOGGER_* environment variables with
// defaults for every key.
type Config struct {
	ClickHouse   ClickHouseConfig `mapstructure:"clickhouse"`
	SourceURL    string           `mapstructure:"source_url"`
	UserAgent    string           `mapstructure:"user_agent"`
	Table        string           `mapstructure:"table"`
	PollInterval time.Duration    `mapstructure:"poll_interval"`
}

// FetchTimeout is the per-fetch deadline: half the polling interval, so a
// hung request is cancelled well before the next tick fires.
func (c Config) FetchTimeout() time.Duration {
	return c.PollInterval / 2
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STATUS_LOGGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("clickhouse.addr", "localhost:9000")
	v.SetDefault("clickhouse.database", "default")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("clickhouse.password", "")
	v.SetDefault("source_url", "http://localhost:8080/api/status")
	v.SetDefault("user_agent", "status-logger/1.0 (+https://github.com/Maksumys/status-logger)")
	v.SetDefault("table", models.StatusRow{}.TableName())
	v.SetDefault("poll_interval", time.Minute)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.WithMessage(err, "failed to unmarshal configuration")
	}

	if config.PollInterval <= 0 {
		return Config{}, errors.Errorf("poll interval must be positive, got %s", config.PollInterval)
	}
	if config.SourceURL == "" {
		return Config{}, errors.New("source url must not be empty")
	}
	if config.Table == "" {
		return Config{}, errors.New("table must not be empty")
	}

	return config, nil
}
