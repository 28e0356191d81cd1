// Package logging provides centralized logging functionality for the application.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug for detailed troubleshooting information.
	LevelDebug LogLevel = "debug"
	// LevelInfo for general operational information.
	LevelInfo LogLevel = "info"
	// LevelWarn for potentially harmful situations.
	LevelWarn LogLevel = "warn"
	// LevelError for error events that might still allow the application to continue.
	LevelError LogLevel = "error"
)

// badKey holds a trailing value that has no matching key.
const badKey = "!BADKEY"

var (
	// defaultLogger is the default logger instance.
	defaultLogger *logrus.Logger
)

func init() {
	logLevelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = string(LevelInfo)
	}

	SetupLogger(os.Stdout, LogLevel(logLevelStr))
}

// ParseLevel maps a LogLevel onto a logrus level. Unknown values fall back to info.
func ParseLevel(level LogLevel) logrus.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetupLogger configures the logger with the specified output and level.
func SetupLogger(w io.Writer, level LogLevel) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(ParseLevel(level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
	defaultLogger = logger
}

// fields turns alternating key/value arguments into logrus fields.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f[badKey] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) {
	defaultLogger.WithFields(fields(args)).Debug(msg)
}

// Info logs a message at info level.
func Info(msg string, args ...any) {
	defaultLogger.WithFields(fields(args)).Info(msg)
}

// Warn logs a message at warn level.
func Warn(msg string, args ...any) {
	defaultLogger.WithFields(fields(args)).Warn(msg)
}

// Error logs a message at error level.
func Error(msg string, args ...any) {
	defaultLogger.WithFields(fields(args)).Error(msg)
}

// With returns an entry carrying the given key/value pairs, for call sites
// that log several lines about the same unit of work.
func With(args ...any) *logrus.Entry {
	return defaultLogger.WithFields(fields(args))
}

// GetLogger returns the default logger.
func GetLogger() *logrus.Logger {
	return defaultLogger
}

// MaskSensitive masks sensitive data for logging.
func MaskSensitive(value string) string {
	if value == "" {
		return "<not set>"
	}
	if len(value) <= 4 {
		return "<set>"
	}
	return value[:4] + "..." + strings.Repeat("*", 3)
}
