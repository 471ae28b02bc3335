package scan

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/karrick/godirwalk"

	"photosort/internal/config"
	"photosort/internal/logging"
	"photosort/internal/photometa"
	"photosort/internal/services"
)

// Ordering modes.
const (
	OrderCapture = "capture"
	OrderMtime   = "mtime"
)

// Options configures a scan.
type Options struct {
	// Extensions is the allow-list of lowercase extensions with a leading dot.
	// Empty means the configured defaults.
	Extensions []string
	Order      string
	// Extractor reads capture times in OrderCapture mode.
	Extractor photometa.Extractor
	Logger    *slog.Logger
	// ProgressEvery controls how often ordering progress is logged.
	ProgressEvery int
}

// Scan returns the photos directly inside dir, sorted for grouping. Only an
// unreadable dir is an error; per-file problems are carried on the Photo.
func Scan(ctx context.Context, dir string, opts Options) ([]photometa.Photo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "scan")

	photos, err := list(dir, extensionSet(opts.Extensions), logger)
	if err != nil {
		return nil, err
	}

	switch opts.Order {
	case OrderMtime:
		sortByModTime(photos)
	case "", OrderCapture:
		if err := prefetch(ctx, photos, opts, logger); err != nil {
			return nil, err
		}
		sortByCapture(photos)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "scan", "order", "unknown order "+opts.Order, nil)
	}

	logger.Info("source directory scanned",
		logging.String(logging.FieldPath, dir),
		logging.Int("photos", len(photos)),
		logging.String("order", orderName(opts.Order)),
	)
	return photos, nil
}

func list(dir string, allowed map[string]struct{}, logger *slog.Logger) ([]photometa.Photo, error) {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrInputUnavailable, "scan", "read directory", dir, err)
	}

	photos := make([]photometa.Photo, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping unreadable entry",
				logging.String(logging.FieldPath, path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "scan_entry_unreadable"),
				logging.String(logging.FieldImpact, "file left in place"),
			)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		photos = append(photos, photometa.Photo{
			Path:    path,
			Name:    name,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return photos, nil
}

func prefetch(ctx context.Context, photos []photometa.Photo, opts Options, logger *slog.Logger) error {
	if opts.Extractor == nil {
		return services.Wrap(services.ErrConfiguration, "scan", "order", "capture order requires a metadata extractor", nil)
	}
	sampler := logging.NewProgressSampler(opts.ProgressEvery)
	for i := range photos {
		if err := ctx.Err(); err != nil {
			return err
		}
		meta, err := opts.Extractor.Extract(photos[i].Path)
		if err != nil {
			photos[i].PrefetchErr = err
		} else {
			photos[i].Prefetched = &meta
		}
		if done := i + 1; sampler.ShouldLog(done, len(photos)) {
			logger.Info("reading capture times",
				logging.Int("done", done),
				logging.Int("total", len(photos)),
			)
		}
	}
	return nil
}

func captureTime(p photometa.Photo) time.Time {
	if p.Prefetched != nil && !p.Prefetched.Taken.IsZero() {
		return p.Prefetched.Taken
	}
	return p.ModTime
}

func sortByCapture(photos []photometa.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		ti, tj := captureTime(photos[i]), captureTime(photos[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return lessByModTime(photos[i], photos[j])
	})
}

func sortByModTime(photos []photometa.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		return lessByModTime(photos[i], photos[j])
	})
}

func lessByModTime(a, b photometa.Photo) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.Before(b.ModTime)
	}
	return a.Name < b.Name
}

func extensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = config.Default().Scan.Extensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func orderName(order string) string {
	if order == "" {
		return OrderCapture
	}
	return order
}
