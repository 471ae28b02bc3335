// Package main hosts the photosort CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into sort runs,
// plan previews, single-coordinate geocoding lookups, geocode cache
// maintenance, and configuration scaffolding. It centralizes configuration
// resolution and logging setup so subcommands only wire internal packages
// together and render their results.
package main
