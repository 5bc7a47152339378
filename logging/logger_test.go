package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(level LogLevel) (*TeamMeshLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	cfg.AddSource = false
	return NewLogger(cfg), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestTeamMeshLogger_LevelFiltering(t *testing.T) {
	logger, buf := captureLogger(LogLevelWarn)

	logger.Debug("debug line")
	logger.Info("info line")
	assert.Zero(t, buf.Len())

	logger.Warn("warn line")
	assert.NotZero(t, buf.Len())
}

func TestTeamMeshLogger_WithComponentAndAgent(t *testing.T) {
	logger, buf := captureLogger(LogLevelInfo)

	enriched := logger.WithComponent("bus").WithAgent("backend-1", "backend_dev")
	enriched.Info("queued")

	entry := lastEntry(t, buf)
	assert.Equal(t, "bus", entry["component"])
	assert.Equal(t, "backend-1", entry["agent_id"])
	assert.Equal(t, "backend_dev", entry["agent_role"])
}

func TestTeamMeshLogger_WithContextCloning(t *testing.T) {
	logger, buf := captureLogger(LogLevelInfo)

	child := logger.WithContext("sprint", "sprint-7")
	child.Info("planned")
	entry := lastEntry(t, buf)
	assert.Equal(t, "sprint-7", entry["sprint"])

	// the parent is untouched
	buf.Reset()
	logger.Info("base")
	entry = lastEntry(t, buf)
	_, ok := entry["sprint"]
	assert.False(t, ok)
}

func TestTeamMeshLogger_LogDelivery(t *testing.T) {
	logger, buf := captureLogger(LogLevelInfo)

	logger.LogDelivery("h1", "m1", 0, false, fmt.Errorf("handler unavailable"))

	entry := lastEntry(t, buf)
	assert.Equal(t, "Message delivery failed", entry["msg"])
	assert.Equal(t, "h1", entry["handler_id"])
	assert.Equal(t, "handler unavailable", entry["error"])
}

func TestTeamMeshLogger_ErrorWithStack(t *testing.T) {
	logger, buf := captureLogger(LogLevelInfo)

	logger.ErrorWithStack(fmt.Errorf("boom"), "delivery fault")

	entry := lastEntry(t, buf)
	assert.Equal(t, "delivery fault", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["stack_trace"])
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	// must not panic with or without args
	logger.Debug("a")
	logger.Info("b", "k", "v")
	logger.Warn("c")
	logger.Error("d")
}
