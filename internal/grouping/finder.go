package grouping

import (
	"fmt"
	"log/slog"
	"time"

	"photosort/internal/logging"
	"photosort/internal/photometa"
	"photosort/internal/services"
)

// DefaultTolerance is the per-axis coordinate tolerance in degrees.
const DefaultTolerance = 0.01

// Group is an inclusive index range of one group.
type Group struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of photos in the group.
func (g Group) Len() int {
	return g.End - g.Start + 1
}

// Source is the metadata view the finder probes. photometa.Cache satisfies it.
type Source interface {
	Len() int
	DateOf(i int) (photometa.Date, error)
	KeyOf(i int) (photometa.LocationKey, error)
	TimestampOf(i int) (time.Time, error)
}

// Finder locates group boundaries over a Source.
//
// The Source must be ordered by capture timestamp ascending (ties broken by
// modification time) with each group's photos contiguous. Under that
// precondition the matching indices after an anchor form a prefix, which is
// what makes the bisection correct.
type Finder struct {
	source      Source
	tolerance   float64
	verifyOrder bool
	logger      *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithTolerance sets the per-axis coordinate tolerance in degrees.
func WithTolerance(tolerance float64) Option {
	return func(f *Finder) {
		if tolerance >= 0 {
			f.tolerance = tolerance
		}
	}
}

// WithOrderCheck enables or disables the unsorted-input check.
func WithOrderCheck(enabled bool) Option {
	return func(f *Finder) {
		f.verifyOrder = enabled
	}
}

// WithLogger attaches a logger for boundary diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinder constructs a Finder over source.
func NewFinder(source Source, opts ...Option) *Finder {
	f := &Finder{
		source:      source,
		tolerance:   DefaultTolerance,
		verifyOrder: true,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "grouping")
	return f
}

// anchor captures what every member of a group must match.
type anchor struct {
	index int
	date  photometa.Date
	key   photometa.LocationKey
	taken time.Time
}

// GroupEnd returns the largest j >= start such that every index in [start, j]
// shares the anchor's date and a compatible location key.
func (f *Finder) GroupEnd(start, total int) (int, error) {
	if total > f.source.Len() {
		return 0, fmt.Errorf("grouping: total %d exceeds source length %d", total, f.source.Len())
	}
	if start < 0 || start >= total {
		return 0, fmt.Errorf("grouping: start %d out of range [0,%d)", start, total)
	}
	if start == total-1 {
		return start, nil
	}

	a, err := f.anchorAt(start)
	if err != nil {
		return 0, err
	}

	// Exponential phase: probe start+1, start+2, start+4, ... clamped to the
	// last index, until a probe diverges or the end is reached.
	lo, hi := start, total
	last := total - 1
	for step := 1; ; step *= 2 {
		probe := start + step
		if probe >= last {
			probe = last
		}
		same, err := f.matches(a, probe)
		if err != nil {
			return 0, err
		}
		if !same {
			hi = probe
			break
		}
		lo = probe
		if probe == last {
			return lo, nil
		}
	}

	// Binary phase: lo matches, hi diverges; the boundary lies in [lo, hi).
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		same, err := f.matches(a, mid)
		if err != nil {
			return 0, err
		}
		if same {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// Partition splits [0, total) into consecutive groups.
func (f *Finder) Partition(total int) ([]Group, error) {
	var groups []Group
	it := f.Iterate(total)
	for {
		g, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return groups, nil
		}
		groups = append(groups, g)
	}
}

// Iterate returns an iterator yielding groups in order.
func (f *Finder) Iterate(total int) *Iterator {
	return &Iterator{finder: f, total: total}
}

// Iterator walks groups one at a time so callers can act on each group as it
// is discovered.
type Iterator struct {
	finder *Finder
	total  int
	next   int
}

// Next returns the next group, or ok=false after the last one.
func (it *Iterator) Next() (Group, bool, error) {
	if it.next >= it.total {
		return Group{}, false, nil
	}
	end, err := it.finder.GroupEnd(it.next, it.total)
	if err != nil {
		return Group{}, false, err
	}
	g := Group{Start: it.next, End: end}
	it.next = end + 1
	it.finder.logger.Debug("group boundary found",
		logging.Int("start", g.Start),
		logging.Int("end", g.End),
		logging.Int("size", g.Len()),
	)
	return g, true, nil
}

func (f *Finder) anchorAt(i int) (anchor, error) {
	date, err := f.source.DateOf(i)
	if err != nil {
		return anchor{}, err
	}
	key, err := f.source.KeyOf(i)
	if err != nil {
		return anchor{}, err
	}
	taken, err := f.source.TimestampOf(i)
	if err != nil {
		return anchor{}, err
	}
	return anchor{index: i, date: date, key: key, taken: taken}, nil
}

func (f *Finder) matches(a anchor, i int) (bool, error) {
	date, err := f.source.DateOf(i)
	if err != nil {
		return false, err
	}
	if f.verifyOrder {
		taken, err := f.source.TimestampOf(i)
		if err != nil {
			return false, err
		}
		if taken.Before(a.taken) {
			return false, services.Wrap(services.ErrUnsortedInput, "grouping", "find boundary",
				fmt.Sprintf("index %d (%s) is earlier than anchor %d (%s)", i, taken.Format(time.RFC3339), a.index, a.taken.Format(time.RFC3339)), nil)
		}
	}
	if date != a.date {
		return false, nil
	}
	key, err := f.source.KeyOf(i)
	if err != nil {
		return false, err
	}
	return photometa.Compatible(a.key, key, f.tolerance), nil
}
