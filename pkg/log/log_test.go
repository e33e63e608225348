package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("this should not appear")
	testLogger.Info("info message", "operation", "test")
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), "code", 7)

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	for _, msg := range []string{"info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in %s", msg, buffer.String())
		}
	}
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, testLogger.ContainsField("code", 7.0))
	assert.False(t, testLogger.Enabled(context.Background(), LevelDebug))
	assert.True(t, testLogger.Enabled(context.Background(), LevelError))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	child := testLogger.With(ModelNameKey, "Perceptron", ComponentKey, "neural")
	child.Info("contextual message", EpochKey, 3)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Perceptron", entries[0][ModelNameKey])
	assert.Equal(t, "neural", entries[0][ComponentKey])
	assert.Equal(t, 3.0, entries[0][EpochKey])

	testLogger.Clear()
	assert.Empty(t, buffer.String())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ModelNameKey, "LogisticRegression").Info("epoch done",
		EpochKey, 4,
		LossKey, 0.25,
		ConvergedKey, false,
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "epoch done", entry["message"])
	assert.Equal(t, "LogisticRegression", entry[ModelNameKey])
	assert.Equal(t, 4.0, entry[EpochKey])
	assert.Equal(t, 0.25, entry[LossKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestZerologLoggerErrorStack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := errors.NewValidationError("variance", "must be non-negative", -1.0)
	logger.Error("sampler construction failed", err, "mean", 0.0)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry[ErrAttrKey], "must be non-negative")
	assert.Equal(t, 0.0, entry["mean"])
}

func TestBridgeWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)
	BridgeWarnings(logger)
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewUndefinedMetricWarning("precision", 1, "no predicted samples", 0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	warning, ok := entry["warning"].(map[string]interface{})
	require.True(t, ok, "warning object missing: %s", buf.String())
	assert.Equal(t, "UndefinedMetricWarning", warning["type"])
	assert.Equal(t, 1.0, warning["class"])
}

func TestSetupLoggerTo(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "debug"))

	err := errors.NewValidationError("variance", "must be non-negative", -2.0)
	slog.Error("fatal", ErrAttr(err))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "fatal", entry["message"])

	assert.Error(t, SetupLoggerTo(&buf, "verbose"))
}

func TestDefaultLogger(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)
	GetLogger().Info("through default")
	assert.True(t, testLogger.ContainsMessage("through default"))
}
