// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// fetch-audit handles plaintext vault exports, so log output is a real leak
// vector: a single careless attribute can write a password to a terminal
// scrollback or a CI log. This package extends slog to provide:
//   - Automatic sanitization of credential values (passwords, usernames, TOTP
//     secrets, master keys)
//   - Pattern-based masking of values that look like secrets regardless of key
//   - Configurable log levels with verbose mode support
//
// Even in verbose mode, sensitive values are masked. The audit engine itself
// never logs entry passwords; this handler is the backstop for everything else.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("entry skipped",
//	    "password", "hunter2", // Will be sanitized to "***REDACTED***"
//	    "url", "https://example.com",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
