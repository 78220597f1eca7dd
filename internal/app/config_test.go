package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "2023-11-01", cfg.DefaultReportDate)
	assert.Equal(t, 100, cfg.UpstreamPageLimit)
	assert.Equal(t, 4, cfg.UpstreamFetchConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, "15 1 * * *", cfg.WarmupCron)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.HasServiceAccount())
}

func TestLoadConfigRequiresCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadDefaultDate(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("DEFAULT_REPORT_DATE", "01-11-2023")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DEFAULT_REPORT_DATE")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPSTREAM_SERVICE_USER", "svc")
	t.Setenv("UPSTREAM_SERVICE_PASSWORD", "secret")
	t.Setenv("WARMUP_DAYS", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.HasServiceAccount())
	assert.Equal(t, 7, cfg.WarmupDays)
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{LogFormat: "JSON"}, &buf).Info("hello", slog.String("k", "v"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])

	buf.Reset()
	newLogger(&Config{LogFormat: "text"}, &buf).Info("hello")
	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
}
