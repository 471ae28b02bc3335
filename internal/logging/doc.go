// Package logging assembles structured slog loggers and formatting helpers used
// across photosort.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so grouping and placement code can tag log
// lines with the run ID and group index automatically. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
