package logger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fourloop/sourceflow/internal/config"
	"github.com/fourloop/sourceflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Levels(t *testing.T) {
	app := &config.AppConfig{Name: "SourceFlow", Environment: "development"}

	log, err := logger.NewLogger(&config.LoggingConfig{Level: "debug", Format: "console"}, app)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = logger.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, app)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	app := &config.AppConfig{Name: "SourceFlow", Environment: "production"}

	log, err := logger.NewLogger(&config.LoggingConfig{Level: "loud"}, app)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	app := &config.AppConfig{Name: "SourceFlow", Environment: "production"}

	log, err := logger.NewLogger(&config.LoggingConfig{Level: "info", Output: path}, app)
	require.NoError(t, err)

	log.Info("request stored", zap.Int64("request_id", 7))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "request stored", line["msg"])
	assert.Equal(t, "SourceFlow", line["app"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, float64(7), line["request_id"])
}

func TestForRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	req := httptest.NewRequest(http.MethodPost, "/requests/3/update", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	logger.ForRequest(zap.New(core), req, "abc").Info("updated")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/requests/3/update", fields["path"])
	assert.Equal(t, "192.0.2.1:4000", fields["remote_addr"])
}
