package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"photosort/internal/config"
	"photosort/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	photoDir   string
}

func setupCLITestEnv(t *testing.T, mutate ...func(*config.Config)) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Geocoding.CachePath = filepath.Join(base, "cache", "geocode.db")
	cfgVal.Geocoding.MinIntervalMS = 0
	for _, fn := range mutate {
		fn(&cfgVal)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfgVal)

	photoDir := filepath.Join(base, "photos")
	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		t.Fatalf("mkdir photos: %v", err)
	}

	return &cliTestEnv{
		cfg:        &cfgVal,
		configPath: configPath,
		baseDir:    base,
		photoDir:   photoDir,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	payload, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeUndatedPhotos writes placeholder photos without EXIF data, so the
// sorter falls back to modification times and no location.
func writeUndatedPhotos(t *testing.T, dir string) {
	t.Helper()
	day1 := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.Local)
	day2 := time.Date(2024, time.July, 16, 12, 0, 0, 0, time.Local)
	testsupport.WritePhoto(t, dir, "IMG_0001.jpg", day1)
	testsupport.WritePhoto(t, dir, "IMG_0002.JPG", day1.Add(time.Minute))
	testsupport.WritePhoto(t, dir, "IMG_0003.png", day2)
	testsupport.WritePhoto(t, dir, "notes.txt", day1)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func TestSortCommandMovesPhotosByDay(t *testing.T) {
	env := setupCLITestEnv(t)
	writeUndatedPhotos(t, env.photoDir)

	out, stderr, err := runCLI(t, []string{"sort", env.photoDir}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, out, "Moved 3 photos into 2 folders")

	day1 := filepath.Join(env.photoDir, "2024-07-15_no_location")
	requireExists(t, filepath.Join(day1, "IMG_0001.jpg"))
	requireExists(t, filepath.Join(day1, "IMG_0002.JPG"))
	requireExists(t, filepath.Join(env.photoDir, "2024-07-16_no_location", "IMG_0003.png"))
	requireExists(t, filepath.Join(env.photoDir, "notes.txt"))

	requireContains(t, stderr, "metadata extraction failed")
	requireExists(t, filepath.Join(env.cfg.Logging.Dir, "photosort.log"))
}

func TestSortCommandDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	writeUndatedPhotos(t, env.photoDir)

	out, stderr, err := runCLI(t, []string{"sort", env.photoDir, "--dry-run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sort --dry-run: %v\nstderr: %s", err, stderr)
	}
	var payload sortOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Report == nil || !payload.Report.DryRun || payload.Report.Moved != 3 {
		t.Fatalf("unexpected report %+v", payload.Report)
	}
	if len(payload.Plan.Groups) != 2 || payload.Plan.Groups[0].Folder != "2024-07-15_no_location" {
		t.Fatalf("unexpected plan %+v", payload.Plan)
	}
	if payload.Plan.Prefetched != 3 || payload.Plan.Reads != 0 {
		t.Fatalf("expected capture order to prefetch every photo, got prefetched=%d reads=%d",
			payload.Plan.Prefetched, payload.Plan.Reads)
	}
	if got := payload.Plan.Groups[0].Files; len(got) != 2 || got[0] != "IMG_0001.jpg" {
		t.Fatalf("unexpected files %v", got)
	}
	requireExists(t, filepath.Join(env.photoDir, "IMG_0001.jpg"))
	if _, err := os.Stat(filepath.Join(env.photoDir, "2024-07-15_no_location")); !os.IsNotExist(err) {
		t.Fatalf("dry run created a folder: %v", err)
	}
}

func TestSortCommandDestination(t *testing.T) {
	env := setupCLITestEnv(t)
	writeUndatedPhotos(t, env.photoDir)
	dest := filepath.Join(env.baseDir, "sorted")

	if _, stderr, err := runCLI(t, []string{"sort", env.photoDir, "--dest", dest, "--order", "mtime"}, env.configPath); err != nil {
		t.Fatalf("sort --dest: %v\nstderr: %s", err, stderr)
	}
	requireExists(t, filepath.Join(dest, "2024-07-16_no_location", "IMG_0003.png"))
}

func TestSortCommandRejectsInvalidInput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sort", filepath.Join(env.baseDir, "missing")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	requireContains(t, out, "Source directory")

	if _, _, err := runCLI(t, []string{"sort", env.photoDir, "--tolerance", "-1"}, env.configPath); err == nil {
		t.Fatal("expected error for negative tolerance")
	}
	if _, _, err := runCLI(t, []string{"sort", env.photoDir, "--order", "random"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestPlanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	writeUndatedPhotos(t, env.photoDir)

	out, stderr, err := runCLI(t, []string{"plan", env.photoDir}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, out, "2024-07-15_no_location")
	requireContains(t, out, "2024-07-16_no_location")
	requireContains(t, out, "3 photos in 2 groups (0 metadata reads, 3 prefetched)")
	requireExists(t, filepath.Join(env.photoDir, "IMG_0001.jpg"))
}

func TestGeocodeCommandDisabled(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"geocode", "48.8566", "2.3522"}, env.configPath)
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	requireContains(t, out, "48.8566N_2.3522E (disabled)")

	if _, _, err := runCLI(t, []string{"geocode", "91", "0"}, env.configPath); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}

func TestGeocodeAndCacheCommands(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"address":{"city":"Paris","country":"France"}}`))
	}))
	defer server.Close()

	env := setupCLITestEnv(t, func(cfg *config.Config) {
		cfg.Geocoding.Enabled = true
		cfg.Geocoding.Provider = "nominatim"
		cfg.Geocoding.BaseURL = server.URL
	})

	out, stderr, err := runCLI(t, []string{"geocode", "48.8566", "2.3522"}, env.configPath)
	if err != nil {
		t.Fatalf("geocode: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, out, "Paris, France (provider)")

	out, _, err = runCLI(t, []string{"geocode", "48.85661", "2.35219"}, env.configPath)
	if err != nil {
		t.Fatalf("geocode second run: %v", err)
	}
	requireContains(t, out, "Paris, France (store)")
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one provider call across runs, got %d", got)
	}

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Paris, France")
	requireContains(t, out, "1 cached place names")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 cached place names")

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list after clear: %v", err)
	}
	requireContains(t, out, "is empty")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireExists(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
