// Package ui provides styled terminal output for the inkbridge CLI.
//
// Commands print through a Printer, which renders headers, key/value tables and
// success, failure or warning boxes with Lipgloss. Output follows a "print once and
// exit" pattern; nothing is interactive.
//
// # Plain Output
//
// When stdout is not a terminal (pipes, redirects, CI logs), call DisableStylingIfNotTTY
// at startup and all styles render as plain text.
//
// # Logging Integration
//
// This package expects logging to be controlled via the INKBRIDGE_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
