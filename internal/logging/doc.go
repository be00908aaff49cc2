// Package logging builds the slog loggers used across poolconv.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log collection. The "auto" format picks between them based
// on whether stdout is a terminal.
package logging
