package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"photosort/internal/preflight"
	"photosort/internal/services"
	"photosort/internal/sorter"
)

func TestRenderCheckLine(t *testing.T) {
	ok := renderCheckLine(preflight.Result{Name: "Source directory", Passed: true, Detail: "/photos (read ok)"}, false)
	if !strings.Contains(ok, "[OK] /photos (read ok)") || strings.Contains(ok, ansiReset) {
		t.Fatalf("unexpected plain line %q", ok)
	}
	failed := renderCheckLine(preflight.Result{Name: "ExifTool", Detail: "binary \"exiftool\" not found"}, true)
	if !strings.HasPrefix(failed, ansiRed) || !strings.Contains(failed, "[ERROR]") {
		t.Fatalf("unexpected coloured line %q", failed)
	}
}

func TestPrintReportSummaries(t *testing.T) {
	plan := sorter.Plan{Groups: make([]sorter.PlannedGroup, 2)}
	var buf bytes.Buffer
	printReport(&buf, plan, sorter.Report{Moved: 5, Renamed: 1}, false)
	if got := strings.TrimSpace(buf.String()); got != "Moved 5 photos into 2 folders (1 renamed)" {
		t.Fatalf("unexpected summary %q", got)
	}

	buf.Reset()
	report := sorter.Report{
		Moved:  1,
		Failed: 1,
		Outcomes: []sorter.Outcome{{
			Path: "/photos/a.jpg",
			Kind: services.KindMoveFailed,
			Err:  errors.New("permission denied"),
		}},
	}
	printReport(&buf, plan, report, false)
	requireContains(t, buf.String(), "(1 failed)")
	requireContains(t, buf.String(), "failed: /photos/a.jpg: permission denied")

	buf.Reset()
	printReport(&buf, plan, sorter.Report{DryRun: true, Moved: 3}, false)
	requireContains(t, buf.String(), "Dry run: would move 3 photos")
}

func TestPrintPlanEmpty(t *testing.T) {
	var buf bytes.Buffer
	printPlan(&buf, sorter.Plan{})
	if strings.TrimSpace(buf.String()) != "No photos found" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
