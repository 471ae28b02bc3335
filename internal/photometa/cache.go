package photometa

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"photosort/internal/logging"
	"photosort/internal/services"
)

// DefaultPrecision is the number of decimal places GPS values keep (about 11 m).
const DefaultPrecision = 4

// Photo is a file handle supplied by the scanner.
type Photo struct {
	Path    string
	Name    string
	ModTime time.Time
	Size    int64
	// Prefetched holds metadata the scanner already read to order the list.
	// Consuming it does not count as a read.
	Prefetched  *Metadata
	PrefetchErr error
}

// Record is the memoized metadata for one index.
type Record struct {
	Coordinate *Coordinate
	Date       Date
	Taken      time.Time
	// TakenFromFile is true when Taken came from the file modification time.
	TakenFromFile bool
	// Err carries an ErrUnreadableFile-marked error when extraction failed.
	Err error
}

// Key returns the record's location key.
func (r Record) Key() LocationKey {
	return KeyFor(r.Coordinate)
}

// Cache memoizes metadata per index of an ordered photo list. Records are
// created lazily on first request and never change afterwards.
type Cache struct {
	mu        sync.Mutex
	photos    []Photo
	records   []*Record
	extractor Extractor
	precision int
	reads     int
	logger    *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrecision sets the decimal places coordinates are rounded to at write time.
func WithPrecision(precision int) Option {
	return func(c *Cache) {
		if precision >= 0 {
			c.precision = precision
		}
	}
}

// WithLogger attaches a logger for extraction warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache constructs a cache over photos backed by extractor.
func NewCache(photos []Photo, extractor Extractor, opts ...Option) *Cache {
	c := &Cache{
		photos:    photos,
		records:   make([]*Record, len(photos)),
		extractor: extractor,
		precision: DefaultPrecision,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "photometa")
	return c
}

// Len returns the number of photos in the list.
func (c *Cache) Len() int {
	return len(c.photos)
}

// Photo returns the file handle at index i.
func (c *Cache) Photo(i int) (Photo, error) {
	if err := c.checkIndex(i); err != nil {
		return Photo{}, err
	}
	return c.photos[i], nil
}

// Reads returns how many extractions have been performed.
func (c *Cache) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Loaded reports whether index i already has a record.
func (c *Cache) Loaded(i int) bool {
	if c.checkIndex(i) != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[i] != nil
}

// Record returns the memoized record for index i, extracting it on first use.
func (c *Cache) Record(i int) (Record, error) {
	if err := c.checkIndex(i); err != nil {
		return Record{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec := c.records[i]; rec != nil {
		return rec.clone(), nil
	}
	rec := c.load(c.photos[i], i)
	c.records[i] = rec
	return rec.clone(), nil
}

// CoordinateOf returns the rounded GPS coordinate of index i, or nil.
func (c *Cache) CoordinateOf(i int) (*Coordinate, error) {
	rec, err := c.Record(i)
	if err != nil {
		return nil, err
	}
	return rec.Coordinate, nil
}

// DateOf returns the calendar date of index i.
func (c *Cache) DateOf(i int) (Date, error) {
	rec, err := c.Record(i)
	if err != nil {
		return Date{}, err
	}
	return rec.Date, nil
}

// TimestampOf returns the capture timestamp (or mtime fallback) of index i.
func (c *Cache) TimestampOf(i int) (time.Time, error) {
	rec, err := c.Record(i)
	if err != nil {
		return time.Time{}, err
	}
	return rec.Taken, nil
}

// KeyOf returns the location key of index i.
func (c *Cache) KeyOf(i int) (LocationKey, error) {
	rec, err := c.Record(i)
	if err != nil {
		return LocationKey{}, err
	}
	return rec.Key(), nil
}

func (c *Cache) checkIndex(i int) error {
	if i < 0 || i >= len(c.photos) {
		return fmt.Errorf("photometa: index %d out of range [0,%d)", i, len(c.photos))
	}
	return nil
}

func (c *Cache) load(photo Photo, index int) *Record {
	var (
		meta Metadata
		err  error
	)
	switch {
	case photo.Prefetched != nil || photo.PrefetchErr != nil:
		if photo.Prefetched != nil {
			meta = *photo.Prefetched
		}
		err = photo.PrefetchErr
	case c.extractor == nil:
		err = fmt.Errorf("no metadata extractor configured")
	default:
		c.reads++
		meta, err = c.extractor.Extract(photo.Path)
	}

	rec := &Record{}
	if err != nil {
		rec.Err = services.Wrap(services.ErrUnreadableFile, "photometa", "extract", photo.Name, err)
		logging.WarnWithContext(c.logger, "metadata extraction failed", "metadata_unreadable",
			logging.String(logging.FieldPath, photo.Path),
			logging.Int(logging.FieldIndex, index),
			logging.Error(err),
			logging.String(logging.FieldImpact, "photo grouped as no_location using file modification time"),
			logging.String(logging.FieldErrorHint, "check the file is a supported, uncorrupted image"),
		)
		meta = Metadata{}
	}
	if meta.Coordinate != nil && meta.Coordinate.Valid() {
		rounded := meta.Coordinate.Round(c.precision)
		rec.Coordinate = &rounded
	}
	rec.Taken = meta.Taken
	if rec.Taken.IsZero() {
		rec.Taken = photo.ModTime
		rec.TakenFromFile = true
	}
	rec.Date = DateOf(rec.Taken)
	return rec
}

func (r *Record) clone() Record {
	out := *r
	if r.Coordinate != nil {
		coord := *r.Coordinate
		out.Coordinate = &coord
	}
	return out
}
