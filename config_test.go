package status_logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", config.ClickHouse.Addr)
	assert.Equal(t, "default", config.ClickHouse.Database)
	assert.Equal(t, "status_raw", config.Table)
	assert.Equal(t, time.Minute, config.PollInterval)
	assert.NotEmpty(t, config.SourceURL)
	assert.NotEmpty(t, config.UserAgent)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("STATUS_LOGGER_CLICKHOUSE_ADDR", "ch.internal:9440")
	t.Setenv("STATUS_LOGGER_SOURCE_URL", "http://pool.internal/api/status")
	t.Setenv("STATUS_LOGGER_POLL_INTERVAL", "30s")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ch.internal:9440", config.ClickHouse.Addr)
	assert.Equal(t, "http://pool.internal/api/status", config.SourceURL)
	assert.Equal(t, 30*time.Second, config.PollInterval)
}

func TestFetchTimeoutIsHalfInterval(t *testing.T) {
	config := Config{PollInterval: time.Minute}
	assert.Equal(t, 30*time.Second, config.FetchTimeout())
}

func TestLoadConfigRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("STATUS_LOGGER_POLL_INTERVAL", "0s")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll interval")
}
