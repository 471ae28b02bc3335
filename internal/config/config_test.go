package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"photosort/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "photosort", "geocode.db")
	if cfg.Geocoding.CachePath != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Geocoding.CachePath, wantCache)
	}
	if cfg.Geocoding.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Geocoding.APIKey)
	}
	if cfg.Geocoding.Enabled {
		t.Fatal("expected geocoding disabled by default")
	}
	if cfg.Geocoding.BaseURL != "https://maps.googleapis.com/maps/api/geocode/json" {
		t.Fatalf("unexpected base url: %q", cfg.Geocoding.BaseURL)
	}
	if cfg.GeocodeMinInterval() != 100*time.Millisecond {
		t.Fatalf("unexpected min interval: %s", cfg.GeocodeMinInterval())
	}
	if cfg.Grouping.Tolerance != 0.01 {
		t.Fatalf("unexpected tolerance: %v", cfg.Grouping.Tolerance)
	}
	if cfg.Grouping.Precision != 4 {
		t.Fatalf("unexpected precision: %d", cfg.Grouping.Precision)
	}
	if !cfg.Grouping.VerifyOrder {
		t.Fatal("expected order verification enabled by default")
	}
	if cfg.Scan.Order != "capture" {
		t.Fatalf("unexpected scan order: %q", cfg.Scan.Order)
	}
	if len(cfg.Scan.Extensions) != 10 {
		t.Fatalf("expected 10 default extensions, got %v", cfg.Scan.Extensions)
	}
	if cfg.Metadata.Backend != "goexif" {
		t.Fatalf("unexpected metadata backend: %q", cfg.Metadata.Backend)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("PHOTOSORT_GEOCODING_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := struct {
		Scan struct {
			Extensions []string `toml:"extensions"`
			Order      string   `toml:"order"`
		} `toml:"scan"`
		Grouping struct {
			Tolerance float64 `toml:"tolerance"`
			Precision int     `toml:"precision"`
		} `toml:"grouping"`
		Geocoding struct {
			Enabled   bool   `toml:"enabled"`
			Provider  string `toml:"provider"`
			CachePath string `toml:"cache_path"`
		} `toml:"geocoding"`
		Output struct {
			DestDir string `toml:"dest_dir"`
		} `toml:"output"`
	}{}
	payload.Scan.Extensions = []string{"JPG", ".Heic", "jpg", " "}
	payload.Scan.Order = "MTIME"
	payload.Grouping.Tolerance = 0.05
	payload.Grouping.Precision = 3
	payload.Geocoding.Enabled = true
	payload.Geocoding.Provider = "Nominatim"
	payload.Geocoding.CachePath = "~/geo/cache.db"
	payload.Output.DestDir = "~/sorted"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if got := strings.Join(cfg.Scan.Extensions, ","); got != ".jpg,.heic" {
		t.Fatalf("unexpected normalized extensions: %q", got)
	}
	if cfg.Scan.Order != "mtime" {
		t.Fatalf("unexpected order: %q", cfg.Scan.Order)
	}
	if cfg.Grouping.Tolerance != 0.05 || cfg.Grouping.Precision != 3 {
		t.Fatalf("unexpected grouping: %+v", cfg.Grouping)
	}
	if cfg.Geocoding.Provider != "nominatim" {
		t.Fatalf("unexpected provider: %q", cfg.Geocoding.Provider)
	}
	if cfg.Geocoding.BaseURL != "https://nominatim.openstreetmap.org/reverse" {
		t.Fatalf("expected nominatim base url, got %q", cfg.Geocoding.BaseURL)
	}
	if cfg.Geocoding.CachePath != filepath.Join(tempHome, "geo", "cache.db") {
		t.Fatalf("unexpected cache path: %q", cfg.Geocoding.CachePath)
	}
	if cfg.Output.DestDir != filepath.Join(tempHome, "sorted") {
		t.Fatalf("unexpected dest dir: %q", cfg.Output.DestDir)
	}
}

func TestConfigFileKeyTakesPrecedenceOverEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-google")
	t.Setenv("PHOTOSORT_GEOCODING_API_KEY", "env-photosort")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[geocoding]\nenabled = true\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Geocoding.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.Geocoding.APIKey)
	}

	if err := os.WriteFile(configPath, []byte("[geocoding]\nenabled = true\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	cfg, _, _, err = config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Geocoding.APIKey != "env-photosort" {
		t.Fatalf("expected PHOTOSORT_GEOCODING_API_KEY to win over GOOGLE_MAPS_API_KEY, got %q", cfg.Geocoding.APIKey)
	}
}

func TestLoadRejectsGoogleWithoutKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("PHOTOSORT_GEOCODING_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[geocoding]\nenabled = true\nprovider = \"google\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error when google geocoding is enabled without a key")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_google_maps_api_key_here") {
		t.Fatalf("sample config missing placeholder key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Grouping.Tolerance != 0.01 {
		t.Fatalf("expected sample tolerance 0.01, got %v", cfg.Grouping.Tolerance)
	}
	if !strings.Contains(cfg.Geocoding.CachePath, "photosort") {
		t.Fatalf("expected cache path to contain photosort, got %q", cfg.Geocoding.CachePath)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Grouping.Tolerance = -0.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative tolerance")
	}

	cfg = config.Default()
	cfg.Grouping.Precision = 12
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for precision beyond limit")
	}

	cfg = config.Default()
	cfg.Scan.Order = "name"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown scan order")
	}

	cfg = config.Default()
	cfg.Metadata.Backend = "libexif"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown metadata backend")
	}

	cfg = config.Default()
	cfg.Geocoding.Provider = "bing"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = config.Default()
	cfg.Geocoding.Enabled = true
	cfg.Geocoding.Provider = "nominatim"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected nominatim without key to validate, got %v", err)
	}
}
