// Package logging provides structured logging for the Online School API.
//
// It wraps log/slog with level filtering, JSON or text output, and default
// fields (service, version) on every entry.
//
// Configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log secrets, tokens, passwords, or password hashes. Authentication
// failures are logged without their cause.
package logging
