package geocode

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"photosort/internal/config"
	"photosort/internal/geocache"
	"photosort/internal/logging"
	"photosort/internal/photometa"
	"photosort/internal/services"
)

// Source identifies where a Resolution's name came from.
type Source string

const (
	SourceDisabled Source = "disabled"
	SourceProvider Source = "provider"
	SourceCache    Source = "cache"
	SourceStore    Source = "store"
	SourceFallback Source = "fallback"
	// SourceNone marks a label for photos without GPS data; nothing was resolved.
	SourceNone Source = "none"
)

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	// Name is the place name, or the coordinate string when Source is
	// SourceDisabled or SourceFallback.
	Name   string `json:"name"`
	Source Source `json:"source"`
	// Err explains a fallback; it is informational and never fatal.
	Err error `json:"-"`
}

// Resolved reports whether Name is a real place name.
func (r Resolution) Resolved() bool {
	switch r.Source {
	case SourceProvider, SourceCache, SourceStore:
		return true
	default:
		return false
	}
}

// Stats summarizes resolver activity for a run.
type Stats struct {
	ProviderCalls int `json:"provider_calls"`
	CacheHits     int `json:"cache_hits"`
	StoreHits     int `json:"store_hits"`
	Failures      int `json:"failures"`
}

// Store is the persistent cache a Resolver consults. geocache.Store satisfies it.
type Store interface {
	Lookup(ctx context.Context, provider string, coord photometa.Coordinate) (geocache.Entry, bool, error)
	Put(ctx context.Context, entry geocache.Entry) error
}

type runEntry struct {
	name string
	err  error
}

// Resolver resolves coordinates through a run cache, an optional persistent
// store, and a rate-limited provider.
type Resolver struct {
	mu        sync.Mutex
	provider  Provider
	store     Store
	limiter   *Limiter
	precision int
	entries   map[photometa.Coordinate]runEntry
	stats     Stats
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProvider enables geocoding through p.
func WithProvider(p Provider) Option {
	return func(r *Resolver) { r.provider = p }
}

// WithStore attaches a persistent store.
func WithStore(s Store) Option {
	return func(r *Resolver) { r.store = s }
}

// WithLimiter overrides the call limiter.
func WithLimiter(l *Limiter) Option {
	return func(r *Resolver) {
		if l != nil {
			r.limiter = l
		}
	}
}

// WithPrecision sets the decimal places of cache keys.
func WithPrecision(precision int) Option {
	return func(r *Resolver) {
		if precision >= 0 {
			r.precision = precision
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver. Without WithProvider it is disabled and
// every call returns the coordinate string.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		limiter:   NewLimiter(DefaultMinInterval),
		precision: photometa.DefaultPrecision,
		entries:   make(map[photometa.Coordinate]runEntry),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "geocode")
	return r
}

// NewFromConfig builds a Resolver from configuration. store may be nil.
func NewFromConfig(cfg *config.Config, store Store, logger *slog.Logger) (*Resolver, error) {
	opts := []Option{
		WithLogger(logger),
		WithPrecision(cfg.Grouping.Precision),
		WithLimiter(NewLimiter(cfg.GeocodeMinInterval())),
	}
	if cfg.Geocoding.Enabled {
		provider, err := NewProvider(cfg, &http.Client{Timeout: cfg.GeocodeTimeout()})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "geocode", "build provider", "", err)
		}
		opts = append(opts, WithProvider(provider))
		if store != nil {
			opts = append(opts, WithStore(store))
		}
	}
	return NewResolver(opts...), nil
}

// Enabled reports whether a provider is configured.
func (r *Resolver) Enabled() bool {
	return r != nil && r.provider != nil
}

// Stats returns a snapshot of resolver activity.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Resolve returns a display name for (lat, lon). It never fails: problems
// degrade to the coordinate string with Err set.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) Resolution {
	key := photometa.Coordinate{Lat: lat, Lon: lon}.Round(r.precision)
	fallback := CoordinateString(key)
	if !r.Enabled() {
		return Resolution{Name: fallback, Source: SourceDisabled}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		r.stats.CacheHits++
		if entry.err != nil {
			return Resolution{Name: fallback, Source: SourceFallback, Err: entry.err}
		}
		return Resolution{Name: entry.name, Source: SourceCache}
	}

	if name, ok := r.lookupStore(ctx, key); ok {
		r.stats.StoreHits++
		r.entries[key] = runEntry{name: name}
		return Resolution{Name: name, Source: SourceStore}
	}

	name, err := r.callProvider(ctx, key)
	if err != nil {
		r.stats.Failures++
		wrapped := services.Wrap(services.ErrGeocodeFailure, "geocode", r.provider.Name(), fallback, err)
		if ctx.Err() == nil {
			r.entries[key] = runEntry{err: wrapped}
		}
		attrs := []logging.Attr{
			logging.String("coordinate", fallback),
			logging.Error(err),
			logging.String(logging.FieldImpact, "folder named by coordinates"),
		}
		if errors.Is(err, ErrNoResult) {
			r.logger.Info("no place name for coordinate", logging.Args(attrs...)...)
		} else {
			logging.WarnWithContext(r.logger, "reverse geocoding failed", "geocode_failed",
				append(attrs, logging.String(logging.FieldErrorHint, "check network access, API key, and provider quota"))...)
		}
		return Resolution{Name: fallback, Source: SourceFallback, Err: wrapped}
	}

	r.entries[key] = runEntry{name: name}
	r.saveStore(ctx, key, name)
	r.logger.Debug("coordinate resolved",
		logging.String("coordinate", fallback),
		logging.String("place", name),
	)
	return Resolution{Name: name, Source: SourceProvider}
}

func (r *Resolver) callProvider(ctx context.Context, key photometa.Coordinate) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	r.stats.ProviderCalls++
	name, err := r.provider.Reverse(ctx, key)
	r.limiter.Mark()
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNoResult
	}
	return name, nil
}

func (r *Resolver) lookupStore(ctx context.Context, key photometa.Coordinate) (string, bool) {
	if r.store == nil {
		return "", false
	}
	entry, ok, err := r.store.Lookup(ctx, r.provider.Name(), key)
	if err != nil {
		r.logger.Warn("geocode cache lookup failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "geocode_cache_lookup_failed"),
			logging.String(logging.FieldErrorHint, "run 'photosort cache clear' if the cache is corrupt"),
			logging.String(logging.FieldImpact, "provider queried instead"),
		)
		return "", false
	}
	if !ok || strings.TrimSpace(entry.Name) == "" {
		return "", false
	}
	return entry.Name, true
}

func (r *Resolver) saveStore(ctx context.Context, key photometa.Coordinate, name string) {
	if r.store == nil {
		return
	}
	err := r.store.Put(ctx, geocache.Entry{
		Provider:   r.provider.Name(),
		Coordinate: key,
		Name:       name,
		ResolvedAt: time.Now(),
	})
	if err != nil {
		r.logger.Warn("geocode cache write failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "geocode_cache_write_failed"),
			logging.String(logging.FieldErrorHint, "check permissions on the geocode cache path"),
			logging.String(logging.FieldImpact, "name will be fetched again next run"),
		)
	}
}
