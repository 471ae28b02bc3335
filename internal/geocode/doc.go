// Package geocode turns group coordinates into human-readable place names.
//
// A Resolver fronts one Provider (Google Maps Geocoding or OpenStreetMap
// Nominatim) with three layers: a per-run cache keyed by rounded coordinate,
// an optional persistent store shared across runs, and a process-wide Limiter
// that keeps successive external calls at least a minimum interval apart.
//
// Resolve never fails. Disabled geocoding, provider errors, quota problems,
// and empty answers all degrade to the coordinate string produced by
// CoordinateString; the underlying error is reported alongside for logging.
package geocode
