// Package config loads, normalizes, and validates photosort configuration.
//
// Configuration lives in TOML (default ~/.config/photosort/config.toml, with a
// project-local photosort.toml fallback). Every field has a default, so a run
// without any file behaves like the classic sorter: ten still-image and raw
// extensions, capture-time ordering, 0.01 degree tolerance, four decimal
// places, and coordinate-string folder names.
//
// Credentials may come from the environment: PHOTOSORT_GEOCODING_API_KEY or
// GOOGLE_MAPS_API_KEY fill geocoding.api_key when the file leaves it empty.
package config
