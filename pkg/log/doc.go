// Package log provides structured channel event logging.
//
// This package defines the Logger interface and Event types for capturing
// channel-level events: state transitions, wire messages, and errors. It is
// separate from operational logging (slog); channel capture provides a
// machine-readable trace of the notification channel for debugging.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/ticketflow/notify.nlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Kinds
//
//   - State: connection lifecycle transitions
//   - Message: decoded wire envelopes (notifications, invokes, results)
//   - Error: decode failures, subscriber callback failures, transport errors
//
// # File Format
//
// Log files use CBOR encoding with integer keys (.nlog extension). ReadFile
// and ReadEvents decode a stream back into events.
package log
