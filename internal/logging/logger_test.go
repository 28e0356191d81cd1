package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		level    LogLevel
		expected logrus.Level
	}{
		{name: "Debug level", level: LevelDebug, expected: logrus.DebugLevel},
		{name: "Info level", level: LevelInfo, expected: logrus.InfoLevel},
		{name: "Warn level", level: LevelWarn, expected: logrus.WarnLevel},
		{name: "Error level", level: LevelError, expected: logrus.ErrorLevel},
		{name: "Upper case is accepted", level: LogLevel("DEBUG"), expected: logrus.DebugLevel},
		{name: "Invalid level defaults to Info", level: LogLevel("invalid"), expected: logrus.InfoLevel},
		{name: "Empty level defaults to Info", level: LogLevel(""), expected: logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.level))
		})
	}
}

func TestMaskSensitive(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty string", input: "", expected: "<not set>"},
		{name: "Short string", input: "abc", expected: "<set>"},
		{name: "Exactly 4 characters", input: "abcd", expected: "<set>"},
		{name: "Long string", input: "abcdefghijklm", expected: "abcd...***"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaskSensitive(tc.input))
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	originalLogger := defaultLogger
	defer func() {
		defaultLogger = originalLogger
	}()

	var buf bytes.Buffer
	SetupLogger(&buf, LevelDebug)

	tests := []struct {
		name    string
		logFunc func(string, ...any)
		level   string
		message string
	}{
		{name: "Debug logging", logFunc: Debug, level: "level=debug", message: "debug message"},
		{name: "Info logging", logFunc: Info, level: "level=info", message: "info message"},
		{name: "Warn logging", logFunc: Warn, level: "level=warning", message: "warn message"},
		{name: "Error logging", logFunc: Error, level: "level=error", message: "error message"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			tc.logFunc(tc.message, "key", "value")

			output := buf.String()
			assert.Contains(t, output, tc.level)
			assert.Contains(t, output, tc.message)
			assert.Contains(t, output, "key=value")
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	originalLogger := defaultLogger
	defer func() {
		defaultLogger = originalLogger
	}()

	var buf bytes.Buffer
	SetupLogger(&buf, LevelWarn)

	Info("hidden message")
	assert.Empty(t, buf.String())

	Warn("visible message")
	assert.Contains(t, buf.String(), "visible message")
}

func TestOddArguments(t *testing.T) {
	originalLogger := defaultLogger
	defer func() {
		defaultLogger = originalLogger
	}()

	var buf bytes.Buffer
	SetupLogger(&buf, LevelInfo)

	Info("odd args", "rows", 3, "dangling")
	output := buf.String()
	assert.Contains(t, output, "rows=3")
	assert.True(t, strings.Contains(output, badKey), "expected %s in %q", badKey, output)
}

func TestWith(t *testing.T) {
	originalLogger := defaultLogger
	defer func() {
		defaultLogger = originalLogger
	}()

	var buf bytes.Buffer
	SetupLogger(&buf, LevelInfo)

	entry := With("run_id", "abc")
	require.NotNil(t, entry)
	entry.Info("first")
	entry.Info("second")

	assert.Equal(t, 2, strings.Count(buf.String(), "run_id=abc"))
}

func TestGetLogger(t *testing.T) {
	require.NotNil(t, GetLogger())
}
