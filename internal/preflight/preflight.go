package preflight

import (
	"context"

	"photosort/internal/config"
)

// SourceCheck names the source directory check.
const SourceCheck = "Source directory"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the checks that apply to sorting sourceDir under cfg.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config, sourceDir string, dryRun bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if dryRun {
		results = append(results, CheckDirectoryReadable(SourceCheck, sourceDir))
	} else {
		results = append(results, CheckDirectoryAccess(SourceCheck, sourceDir))
		if cfg.Output.DestDir != "" && cfg.Output.DestDir != sourceDir {
			results = append(results, CheckDestination("Destination directory", cfg.Output.DestDir))
		}
	}

	results = append(results, CheckMetadataBackend(cfg)...)

	if cfg.Geocoding.Enabled {
		results = append(results, CheckGeocoding(cfg))
		if cfg.Geocoding.CacheEnabled {
			results = append(results, CheckDestination("Geocode cache", dirOf(cfg.Geocoding.CachePath)))
		}
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
