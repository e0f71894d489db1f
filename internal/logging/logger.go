package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "INKBRIDGE_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks INKBRIDGE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger from the INKBRIDGE_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %q", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRequest logs one outbound attempt. The API key is redacted.
func LogRequest(method, url, deviceID, apiKey string, attempt int) {
	Debug("Sending request",
		zap.String("method", method),
		zap.String("url", RedactQuery(url)),
		zap.String("device_id", deviceID),
		zap.String("api_key", Redact(apiKey)),
		zap.Int("attempt", attempt),
	)
}

// LogOutcome logs the final outcome of a request.
func LogOutcome(endpoint, outcome string, attempts int, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("endpoint", endpoint),
		zap.String("outcome", outcome),
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", elapsed),
	}
	if outcome == "OK" {
		Debug("Request complete", fields...)
		return
	}
	Info("Request failed", fields...)
}

// LogHTTPRequest logs a request served by the mock backend.
func LogHTTPRequest(remoteAddr, method, path string, status int) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
}

// Redact hides all but the last four characters of a secret.
func Redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 4) + secret[len(secret)-4:]
}

// RedactQuery redacts the api_key query parameter in a URL string.
func RedactQuery(url string) string {
	const param = "api_key="
	idx := strings.Index(url, param)
	if idx < 0 {
		return url
	}
	start := idx + len(param)
	end := strings.IndexByte(url[start:], '&')
	if end < 0 {
		return url[:start] + Redact(url[start:])
	}
	return url[:start] + Redact(url[start:start+end]) + url[start+end:]
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
