// Package preflight provides readiness checks run before a sort.
//
// The CLI runs RunAll before touching any file: the source directory must be
// readable (and writable unless the run is a dry run), the metadata backend's
// binaries must be installed, and an enabled geocoding provider must be
// configured. Each check is gated by its config toggle.
package preflight
