// Package services defines the shared error and context conventions used by
// the grouping, geocoding, and sorting components.
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper so callers can decide per
//     kind whether to skip a file, fall back, or abort the run.
//   - Kind, which turns any wrapped error into a stable string for logs and
//     JSON reports.
//   - Context helpers that stamp run identifiers and group indexes for logging.
package services
