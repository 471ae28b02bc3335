package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/fileutil"
	"photosort/internal/geocache"
	"photosort/internal/geocode"
	"photosort/internal/logging"
	"photosort/internal/photometa"
	"photosort/internal/preflight"
	"photosort/internal/scan"
	"photosort/internal/services"
	"photosort/internal/sorter"
)

type runFlags struct {
	dryRun    bool
	noGeocode bool
	noVerify  bool
	tolerance float64
	precision int
	order     string
	dest      string
}

func (f *runFlags) register(cmd *cobra.Command, withApply bool) {
	flags := cmd.Flags()
	flags.BoolVar(&f.noGeocode, "no-geocode", false, "Name located groups by coordinates instead of place names")
	flags.BoolVar(&f.noVerify, "no-verify-order", false, "Skip the unsorted-input check")
	flags.Float64Var(&f.tolerance, "tolerance", 0, "Per-axis coordinate tolerance in degrees")
	flags.IntVar(&f.precision, "precision", 0, "Decimal places GPS values are rounded to")
	flags.StringVar(&f.order, "order", "", "Input ordering: capture or mtime")
	if withApply {
		flags.BoolVar(&f.dryRun, "dry-run", false, "Show where photos would go without moving them")
		flags.StringVar(&f.dest, "dest", "", "Directory that receives the dated folders (default: the source directory)")
	}
}

// resolve applies command-line overrides to a copy of base.
func (f *runFlags) resolve(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		cfg.Grouping.Tolerance = f.tolerance
	}
	if flags.Changed("precision") {
		cfg.Grouping.Precision = f.precision
	}
	if flags.Changed("order") {
		cfg.Scan.Order = strings.ToLower(strings.TrimSpace(f.order))
	}
	if f.noVerify {
		cfg.Grouping.VerifyOrder = false
	}
	if f.noGeocode {
		cfg.Geocoding.Enabled = false
	}
	if f.dryRun {
		cfg.Output.DryRun = true
	}
	if flags.Changed("dest") {
		dest, err := config.ExpandPath(strings.TrimSpace(f.dest))
		if err != nil {
			return nil, fmt.Errorf("resolve --dest: %w", err)
		}
		cfg.Output.DestDir = dest
	}
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "flags", "", err)
	}
	return &cfg, nil
}

// runEnv holds the collaborators of one sort or plan invocation.
type runEnv struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor photometa.Extractor
	store     *geocache.Store
	resolver  *geocode.Resolver
	sorter    *sorter.Sorter
}

func openRunEnv(cfg *config.Config, logger *slog.Logger) (*runEnv, error) {
	env := &runEnv{cfg: cfg, logger: logger}

	extractor, err := photometa.NewExtractor(cfg.Metadata.Backend, cfg.Metadata.ExiftoolPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "metadata backend", cfg.Metadata.Backend, err)
	}
	env.extractor = extractor

	var store geocode.Store
	if cfg.Geocoding.Enabled && cfg.Geocoding.CacheEnabled {
		s, err := geocache.Open(cfg.Geocoding.CachePath)
		if err != nil {
			logging.WarnWithContext(logger, "geocode cache unavailable", "geocode_cache_unavailable",
				logging.String(logging.FieldPath, cfg.Geocoding.CachePath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "place names are fetched without the persistent cache"),
				logging.String(logging.FieldErrorHint, "run 'photosort cache clear' or remove the cache file"),
			)
		} else {
			env.store = s
			store = s
		}
	}

	resolver, err := geocode.NewFromConfig(cfg, store, logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.resolver = resolver
	env.sorter = sorter.NewFromConfig(cfg, extractor, resolver, logger)
	return env, nil
}

func (e *runEnv) Close() {
	if e == nil {
		return
	}
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.extractor != nil {
		_ = photometa.CloseExtractor(e.extractor)
	}
}

func (e *runEnv) plan(ctx context.Context, dir string) (sorter.Plan, error) {
	photos, err := scan.Scan(ctx, dir, scan.Options{
		Extensions: e.cfg.Scan.Extensions,
		Order:      e.cfg.Scan.Order,
		Extractor:  e.extractor,
		Logger:     e.logger,
	})
	if err == nil {
		var plan sorter.Plan
		plan, err = e.sorter.Plan(ctx, photos)
		if err == nil {
			return plan, nil
		}
	}
	if services.IsFatal(err) && !errors.Is(err, context.Canceled) {
		logging.ErrorWithContext(e.logger, "run aborted", "run_aborted",
			logging.String("dir", dir),
			logging.String("error_kind", string(services.Kind(err))),
			logging.Error(err),
		)
	}
	return sorter.Plan{}, err
}

func sourceDir(arg string) (string, error) {
	dir, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return abs, nil
}

func checkPreflight(results []preflight.Result) error {
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	marker := services.ErrConfiguration
	if failed[0].Name == preflight.SourceCheck {
		marker = services.ErrInputUnavailable
	}
	return services.Wrap(marker, "cli", "preflight", strings.Join(names, "; "), nil)
}

func isLocked(err error) bool {
	return errors.Is(err, fileutil.ErrLocked)
}
