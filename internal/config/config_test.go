package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, int64(16*1024*1024), cfg.Upload.MaxFileSize)
}

func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `# Server configuration
server:
  port: "9090"
  shutdown_timeout: 5s

# Logging configuration
logging:
  level: "debug"
  format: "console"

# Storage configuration
storage:
  backend: "memory"

# Upload limits
upload:
  max_file_size: 1048576
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err, "Failed to create temporary file")
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err, "Failed to write to temporary file")
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err, "Failed to load configuration from file")

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, int64(1048576), cfg.Upload.MaxFileSize)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, int64(2048), cfg.Upload.MaxFileSize)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
