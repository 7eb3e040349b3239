package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envconfig falls back to the bare tag name (HOST, PORT, ...) when the prefixed key is
// unset, so those are cleared for the duration of a test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "HOST", "PORT", "LEVEL", "FORMAT", "EXPORTER", "CURRENCY", "LOCALE", "TOP_N", "CSV_FILE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "data_gabungan.csv", cfg.Dataset.CSVFile)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, []string{"http://localhost:8084"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
	assert.Equal(t, "AUD", cfg.Display.Currency)
	assert.Equal(t, "es-CO", cfg.Display.Locale)
	assert.Equal(t, 5, cfg.Display.TopN)
	assert.Equal(t, "localhost:8084", cfg.Address())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("DATASET_CSV_FILE", "/data/orders.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("DISPLAY_TOP_N", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
	assert.Equal(t, "/data/orders.csv", cfg.Dataset.CSVFile)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)
	assert.Equal(t, 10, cfg.Display.TopN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"port not a number", "SERVER_PORT", "eighty"},
		{"negative read timeout", "SERVER_READ_TIMEOUT", "-1s"},
		{"unknown log level", "LOG_LEVEL", "trace"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"zero rate limit", "SECURITY_RATE_LIMIT_RPS", "0"},
		{"unknown exporter", "TRACING_EXPORTER", "jaeger"},
		{"sample ratio above one", "TRACING_SAMPLE_RATIO", "1.5"},
		{"top-n zero", "DISPLAY_TOP_N", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
