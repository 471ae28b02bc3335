// Package geocache persists resolved place names across runs in SQLite.
//
// Only successful resolutions are stored; failures stay in the per-run cache
// of the geocode package so a transient outage is retried on the next run.
// Entries are keyed by provider and rounded coordinate.
package geocache
