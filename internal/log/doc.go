// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (cookies, tokens, secrets)
//   - Configurable log levels with a debug mode
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie)
//   - Workspace session tokens in every shape the API accepts (versioned
//     "v02:..." values, URL-encoded variants, classic long-hex cookies)
//   - Secret values detected by pattern matching (passwords, keys, JWTs)
//
// Even in debug mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored. Page identifiers
// (32 hex characters) are deliberately not matched so debug output stays
// useful for tracing remote operations.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // debug=true
//
//	// Use as a standard slog.Logger
//	logger.Info("request sent",
//	    "cookie", "token_v2=abc123",  // Will be sanitized
//	    "url", "https://www.notion.so/api/v3/getRecordValues",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
