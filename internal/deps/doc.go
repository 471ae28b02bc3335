// Package deps checks that external binaries needed by the configured
// metadata backend are installed.
package deps
