package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for empty command: %#v", results[2])
	}
}

func TestRequirements(t *testing.T) {
	if reqs := Requirements("goexif", ""); len(reqs) != 0 {
		t.Fatalf("goexif should need no binaries, got %v", reqs)
	}
	reqs := Requirements("exiftool", "")
	if len(reqs) != 1 || reqs[0].Command != "exiftool" {
		t.Fatalf("unexpected requirements %v", reqs)
	}
	reqs = Requirements("exiftool", "/opt/exiftool/bin/exiftool")
	if reqs[0].Command != "/opt/exiftool/bin/exiftool" {
		t.Fatalf("expected configured path, got %q", reqs[0].Command)
	}
}
