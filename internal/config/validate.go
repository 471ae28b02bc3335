package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateGrouping(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	return c.validateGeocoding()
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	switch c.Scan.Order {
	case "capture", "mtime":
		return nil
	default:
		return fmt.Errorf("scan.order: unsupported value %q (want capture or mtime)", c.Scan.Order)
	}
}

func (c *Config) validateGrouping() error {
	if c.Grouping.Tolerance < 0 || c.Grouping.Tolerance >= 180 {
		return errors.New("grouping.tolerance must be between 0 and 180 degrees")
	}
	if c.Grouping.Precision < 0 || c.Grouping.Precision > maxPrecision {
		return fmt.Errorf("grouping.precision must be between 0 and %d", maxPrecision)
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Backend {
	case "goexif", "exiftool":
		return nil
	default:
		return fmt.Errorf("metadata.backend: unsupported value %q (want goexif or exiftool)", c.Metadata.Backend)
	}
}

func (c *Config) validateGeocoding() error {
	switch c.Geocoding.Provider {
	case "google", "nominatim":
	default:
		return fmt.Errorf("geocoding.provider: unsupported value %q (want google or nominatim)", c.Geocoding.Provider)
	}
	if !c.Geocoding.Enabled {
		return nil
	}
	if c.Geocoding.Provider == "google" && strings.TrimSpace(c.Geocoding.APIKey) == "" {
		return errors.New("geocoding.api_key must be set when geocoding.enabled is true with the google provider (or set GOOGLE_MAPS_API_KEY)")
	}
	if c.Geocoding.CacheEnabled && strings.TrimSpace(c.Geocoding.CachePath) == "" {
		return errors.New("geocoding.cache_path must be set when geocoding.cache_enabled is true")
	}
	return nil
}
