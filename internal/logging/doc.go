// Package logging provides structured logging for the InkBridge client and mock backend.
//
// This package wraps a global zap logger with convenience functions for the logging
// patterns used throughout the bridge. Logging is silent unless a level is requested,
// so library users and CLI commands produce no unexpected output.
//
// # Log Levels
//
//   - Debug: Per-attempt transport details, cache hits and misses, store reads
//   - Info: Startup state transitions, registration, request outcomes
//   - Warn: Retries, unreadable stores, registration rejections
//   - Error: Failures the caller cannot recover from
//
// # Structured Logging
//
//	logging.Info("Device registered",
//	    zap.String("device_id", "AABBCC112233"),
//	    zap.String("friendly_user", "alice"),
//	)
//
// # Specialized Logging
//
// Outbound request logging (API keys are redacted):
//
//	logging.LogRequest(method, url, deviceID, apiKey, attempt)
//	logging.LogOutcome(endpoint, outcome, attempts, elapsed)
//
// Inbound request logging for the mock backend:
//
//	logging.LogHTTPRequest(remoteAddr, method, path, status)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, INKBRIDGE_LOG_LEVEL is consulted.
package logging
