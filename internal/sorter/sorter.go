package sorter

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"photosort/internal/config"
	"photosort/internal/geocode"
	"photosort/internal/grouping"
	"photosort/internal/logging"
	"photosort/internal/naming"
	"photosort/internal/photometa"
	"photosort/internal/services"
)

// Sorter plans and applies photo sorts.
type Sorter struct {
	extractor   photometa.Extractor
	resolver    naming.Resolver
	tolerance   float64
	precision   int
	verifyOrder bool
	logger      *slog.Logger
}

// Option configures a Sorter.
type Option func(*Sorter)

// WithTolerance sets the per-axis coordinate tolerance in degrees.
func WithTolerance(tolerance float64) Option {
	return func(s *Sorter) { s.tolerance = tolerance }
}

// WithPrecision sets the decimal places GPS values are rounded to.
func WithPrecision(precision int) Option {
	return func(s *Sorter) { s.precision = precision }
}

// WithOrderCheck enables or disables the unsorted-input check.
func WithOrderCheck(enabled bool) Option {
	return func(s *Sorter) { s.verifyOrder = enabled }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sorter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Sorter. A nil resolver names groups by coordinates.
func New(extractor photometa.Extractor, resolver naming.Resolver, opts ...Option) *Sorter {
	s := &Sorter{
		extractor:   extractor,
		resolver:    resolver,
		tolerance:   grouping.DefaultTolerance,
		precision:   photometa.DefaultPrecision,
		verifyOrder: true,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = geocode.NewResolver()
	}
	s.logger = logging.NewComponentLogger(s.logger, "sorter")
	return s
}

// NewFromConfig builds a Sorter using the grouping settings in cfg.
func NewFromConfig(cfg *config.Config, extractor photometa.Extractor, resolver naming.Resolver, logger *slog.Logger) *Sorter {
	return New(extractor, resolver,
		WithTolerance(cfg.Grouping.Tolerance),
		WithPrecision(cfg.Grouping.Precision),
		WithOrderCheck(cfg.Grouping.VerifyOrder),
		WithLogger(logger),
	)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// EnsureRunID returns ctx carrying a run ID, generating one when absent.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := services.RunIDFromContext(ctx); ok {
		return ctx, id
	}
	id := NewRunID()
	return services.WithRunID(ctx, id), id
}
