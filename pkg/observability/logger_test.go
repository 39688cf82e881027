package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/contextkeys"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.Info("recipe published")

	entry := logLine(t, &buf)
	assert.Equal(t, "recipe published", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("group_id", 42).Info("member added")

	entry := logLine(t, &buf)
	assert.Equal(t, float64(42), entry["group_id"])
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithError(errors.New("connection refused")).Error("import failed")

	entry := logLine(t, &buf)
	assert.Equal(t, "connection refused", entry["error"])

	// A nil error adds nothing.
	buf.Reset()
	logger.WithError(nil).Info("ok")
	entry = logLine(t, &buf)
	assert.NotContains(t, entry, "error")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Info("quiet")
	assert.Zero(t, buf.Len())

	logger.Warn("loud")
	assert.NotZero(t, buf.Len())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = contextkeys.WithRequestID(ctx, "req-123")
	ctx = contextkeys.WithUserID(ctx, "7")

	FromContext(ctx).Info("handled")

	entry := logLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "7", entry["user_id"])
}

func TestGetLoggerDefaults(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
}
