package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeScan()
	c.normalizeMetadata()
	if err := c.normalizeGeocoding(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeScan() {
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Scan.Extensions = exts

	c.Scan.Order = strings.ToLower(strings.TrimSpace(c.Scan.Order))
	if c.Scan.Order == "" {
		c.Scan.Order = defaultScanOrder
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Backend = strings.ToLower(strings.TrimSpace(c.Metadata.Backend))
	if c.Metadata.Backend == "" {
		c.Metadata.Backend = defaultMetadataBackend
	}
	c.Metadata.ExiftoolPath = strings.TrimSpace(c.Metadata.ExiftoolPath)
}

func (c *Config) normalizeGeocoding() error {
	c.Geocoding.Provider = strings.ToLower(strings.TrimSpace(c.Geocoding.Provider))
	if c.Geocoding.Provider == "" {
		c.Geocoding.Provider = defaultGeocodingProvider
	}
	c.Geocoding.APIKey = strings.TrimSpace(c.Geocoding.APIKey)
	if c.Geocoding.APIKey == "" {
		if value, ok := os.LookupEnv("PHOTOSORT_GEOCODING_API_KEY"); ok {
			c.Geocoding.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("GOOGLE_MAPS_API_KEY"); ok {
			c.Geocoding.APIKey = strings.TrimSpace(value)
		}
	}
	c.Geocoding.BaseURL = strings.TrimSpace(c.Geocoding.BaseURL)
	if c.Geocoding.BaseURL == "" {
		switch c.Geocoding.Provider {
		case "nominatim":
			c.Geocoding.BaseURL = defaultNominatimBaseURL
		default:
			c.Geocoding.BaseURL = defaultGoogleBaseURL
		}
	}
	c.Geocoding.UserAgent = strings.TrimSpace(c.Geocoding.UserAgent)
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = defaultGeocodingUserAgent
	}
	c.Geocoding.Language = strings.TrimSpace(c.Geocoding.Language)
	if c.Geocoding.Language == "" {
		c.Geocoding.Language = defaultGeocodingLanguage
	}
	if c.Geocoding.MinIntervalMS < 0 {
		c.Geocoding.MinIntervalMS = 0
	}
	if c.Geocoding.TimeoutSeconds <= 0 {
		c.Geocoding.TimeoutSeconds = defaultGeocodingTimeout
	}
	if strings.TrimSpace(c.Geocoding.CachePath) == "" {
		c.Geocoding.CachePath = defaultGeocodeCachePath()
	}
	var err error
	if c.Geocoding.CachePath, err = expandPath(c.Geocoding.CachePath); err != nil {
		return fmt.Errorf("geocoding.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.DestDir, err = expandPath(strings.TrimSpace(c.Output.DestDir)); err != nil {
		return fmt.Errorf("output.dest_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
