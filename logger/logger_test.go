package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "json")
	log.Component("loader").WithField("file", "UCLA.csv").Info("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "UCLA.csv", entry["file"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn", "text")
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "json")
	log.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	// A nil error returns the plain entry.
	assert.NotNil(t, log.WithError(nil))
}

func TestWithRequestID(t *testing.T) {
	log := Discard()

	r := httptest.NewRequest("GET", "/api/files", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", log.WithRequest(r).Data["req_id"])

	r = httptest.NewRequest("GET", "/api/files", nil)
	id, _ := log.WithRequest(r).Data["req_id"].(string)
	assert.Len(t, id, 36)
}
