// Package logging assembles structured slog loggers and formatting helpers used
// across medialift.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and can tee every record into a JSON run log under the configured log
// directory. Context helpers tag log lines with the current run ID so a single
// invocation can be traced end to end. A no-op logger is provided for tests and
// wiring code that has nothing to report to.
package logging
