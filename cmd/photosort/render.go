package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"photosort/internal/preflight"
	"photosort/internal/sorter"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(text, color string, enabled bool) string {
	if !enabled || color == "" {
		return text
	}
	return color + text + ansiReset
}

func renderCheckLine(result preflight.Result, color bool) string {
	status, code := "OK", ansiGreen
	if !result.Passed {
		status, code = "ERROR", ansiRed
	}
	line := fmt.Sprintf("%s%-*s [%s] %s", statusIndent, statusLabelWidth, result.Name+":", status, result.Detail)
	return colorize(line, code, color)
}

func printChecks(out io.Writer, results []preflight.Result, color bool) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(out, "Preflight:")
	for _, r := range results {
		fmt.Fprintln(out, renderCheckLine(r, color))
	}
}

func printPlan(out io.Writer, plan sorter.Plan) {
	if len(plan.Groups) == 0 {
		fmt.Fprintln(out, "No photos found")
		return
	}
	rows := make([][]string, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		rows = append(rows, []string{
			strconv.Itoa(g.Number),
			g.Label.Folder,
			strconv.Itoa(g.Len()),
			g.Location,
			string(g.Label.Source),
		})
	}
	fmt.Fprintln(out, renderTable("",
		[]string{"#", "Folder", "Photos", "Location", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d photos in %d groups (%d metadata reads, %d prefetched)\n",
		plan.Total, len(plan.Groups), plan.Reads, plan.Prefetched)
	if plan.Geocode != nil && (plan.Geocode.ProviderCalls > 0 || plan.Geocode.StoreHits > 0) {
		fmt.Fprintf(out, "Geocoding: %d lookups, %d cached, %d failed\n",
			plan.Geocode.ProviderCalls, plan.Geocode.CacheHits+plan.Geocode.StoreHits, plan.Geocode.Failures)
	}
}

func printReport(out io.Writer, plan sorter.Plan, report sorter.Report, color bool) {
	verb := "Moved"
	if report.DryRun {
		verb = "Dry run: would move"
	}
	summary := fmt.Sprintf("%s %d photos into %d folders", verb, report.Moved, len(plan.Groups))
	var extras []string
	if report.Renamed > 0 {
		extras = append(extras, fmt.Sprintf("%d renamed", report.Renamed))
	}
	if report.Failed > 0 {
		extras = append(extras, fmt.Sprintf("%d failed", report.Failed))
	}
	if report.Skipped > 0 {
		extras = append(extras, fmt.Sprintf("%d skipped", report.Skipped))
	}
	if len(extras) > 0 {
		summary += " (" + strings.Join(extras, ", ") + ")"
	}
	code := ansiGreen
	if report.Failed > 0 || report.Cancelled {
		code = ansiYellow
	}
	fmt.Fprintln(out, colorize(summary, code, color))
	for _, o := range report.Outcomes {
		if o.Failed() {
			fmt.Fprintln(out, colorize(fmt.Sprintf("%sfailed: %s: %v", statusIndent, o.Path, o.Err), ansiRed, color))
		}
	}
}

func planToOutput(plan sorter.Plan) planOutput {
	out := planOutput{
		RunID:      plan.RunID,
		Total:      plan.Total,
		Reads:      plan.Reads,
		Prefetched: plan.Prefetched,
		Groups:     make([]groupOutput, 0, len(plan.Groups)),
		Geocode:    plan.Geocode,
	}
	for _, g := range plan.Groups {
		files := make([]string, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, f.Name)
		}
		out.Groups = append(out.Groups, groupOutput{
			Number:   g.Number,
			Folder:   g.Label.Folder,
			Date:     g.Date,
			Location: g.Location,
			Place:    g.Label.Place,
			Source:   string(g.Label.Source),
			Files:    files,
		})
	}
	return out
}

func reportToOutput(report sorter.Report) *reportOutput {
	out := &reportOutput{
		DryRun:    report.DryRun,
		Moved:     report.Moved,
		Renamed:   report.Renamed,
		Failed:    report.Failed,
		Skipped:   report.Skipped,
		Cancelled: report.Cancelled,
		Outcomes:  make([]outcomeOutput, 0, len(report.Outcomes)),
	}
	for _, o := range report.Outcomes {
		entry := outcomeOutput{Path: o.Path, Dest: o.Dest, Group: o.Group, Kind: string(o.Kind)}
		if o.Err != nil {
			entry.Error = o.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, entry)
	}
	return out
}
