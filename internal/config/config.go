package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan contains configuration for the directory scanner.
type Scan struct {
	Extensions []string `toml:"extensions"`
	Order      string   `toml:"order"` // "capture" or "mtime"
}

// Grouping contains configuration for boundary detection.
type Grouping struct {
	// Tolerance is the maximum per-axis difference in degrees between two
	// coordinates that still belong to the same location.
	Tolerance float64 `toml:"tolerance"`
	// Precision is the number of decimal places GPS values are rounded to
	// before they are cached and compared.
	Precision int `toml:"precision"`
	// VerifyOrder fails the run when probed timestamps go backwards.
	VerifyOrder bool `toml:"verify_order"`
}

// Metadata contains configuration for EXIF extraction.
type Metadata struct {
	Backend      string `toml:"backend"` // "goexif" or "exiftool"
	ExiftoolPath string `toml:"exiftool_path"`
}

// Geocoding contains configuration for reverse geocoding of group locations.
type Geocoding struct {
	Enabled        bool   `toml:"enabled"`
	Provider       string `toml:"provider"` // "google" or "nominatim"
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	Language       string `toml:"language"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CacheEnabled   bool   `toml:"cache_enabled"`
	CachePath      string `toml:"cache_path"`
}

// Output contains configuration for where grouped files end up.
type Output struct {
	// DestDir receives the YYYY-MM-DD_<label> folders. Empty means the
	// source directory itself.
	DestDir string `toml:"dest_dir"`
	DryRun  bool   `toml:"dry_run"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for photosort.
//
// Configuration sections by subsystem:
//   - Scan: recognised extensions and input ordering
//   - Grouping: location tolerance, rounding precision, order verification
//   - Metadata: EXIF extraction backend
//   - Geocoding: place-name resolution, rate limiting, persistent cache
//   - Output: destination root and dry-run default
//   - Logging: log format, level, and optional log directory
type Config struct {
	Scan      Scan      `toml:"scan"`
	Grouping  Grouping  `toml:"grouping"`
	Metadata  Metadata  `toml:"metadata"`
	Geocoding Geocoding `toml:"geocoding"`
	Output    Output    `toml:"output"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photosort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the configured features write into.
func (c *Config) EnsureDirectories() error {
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}
	if c.Geocoding.CacheEnabled && strings.TrimSpace(c.Geocoding.CachePath) != "" {
		dir := filepath.Dir(c.Geocoding.CachePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create geocode cache directory %q: %w", dir, err)
		}
	}
	return nil
}

// GeocodeMinInterval returns the minimum spacing between external geocoding calls.
func (c *Config) GeocodeMinInterval() time.Duration {
	return time.Duration(c.Geocoding.MinIntervalMS) * time.Millisecond
}

// GeocodeTimeout returns the HTTP timeout for a single geocoding request.
func (c *Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.Geocoding.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultGeocodeCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "photosort", "geocode.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/photosort/geocode.db"
	}
	return filepath.Join(home, ".cache", "photosort", "geocode.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
