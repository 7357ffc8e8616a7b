package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupAndGet(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	var buf bytes.Buffer
	Setup(Config{
		Level:  "debug",
		Format: FormatJSON,
		Output: &buf,
	})

	log := Get()
	require.NotNil(t, log)

	log.Info("test message", map[string]interface{}{
		"session_id": "abc",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	var buf bytes.Buffer
	Setup(Config{
		Level:  "warn",
		Format: FormatJSON,
		Output: &buf,
	})

	Get().Debug("dropped")
	Get().Info("dropped too")
	assert.Empty(t, buf.String())

	Get().Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	// Must not panic.
	log.Info("ignored")
	log.Errorf("ignored %d", 1)
	log.Debug("ignored", map[string]interface{}{"k": "v"})
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatConsole, ParseLogFormat("console"))
	assert.Equal(t, FormatJSON, ParseLogFormat("json"))
	assert.Equal(t, FormatJSON, ParseLogFormat("something-else"))
}

func TestHTTPMiddleware(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	var buf bytes.Buffer
	Setup(Config{
		Level:  "info",
		Format: FormatJSON,
		Output: &buf,
	})

	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["message"])
	assert.Equal(t, "/api/sessions/missing", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}
