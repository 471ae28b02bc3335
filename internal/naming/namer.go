package naming

import (
	"context"
	"fmt"
	"log/slog"

	"photosort/internal/geocode"
	"photosort/internal/grouping"
	"photosort/internal/logging"
	"photosort/internal/photometa"
	"photosort/internal/textutil"
)

// NoLocationLabel is the label for groups whose photos carry no GPS data.
const NoLocationLabel = "no_location"

// Source is the metadata view the namer reads. photometa.Cache satisfies it.
type Source interface {
	DateOf(i int) (photometa.Date, error)
	KeyOf(i int) (photometa.LocationKey, error)
}

// Resolver turns a coordinate into a display name. geocode.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) geocode.Resolution
}

// Label describes the destination of one group.
type Label struct {
	Folder     string                `json:"folder"`
	Date       photometa.Date        `json:"-"`
	Place      string                `json:"place"`
	Source     geocode.Source        `json:"source"`
	Coordinate *photometa.Coordinate `json:"coordinate,omitempty"`
	// GeocodeErr is set when the place fell back to coordinates after a failed lookup.
	GeocodeErr error `json:"-"`
}

// Namer produces folder names for groups.
type Namer struct {
	source   Source
	resolver Resolver
	logger   *slog.Logger
}

// NewNamer builds a Namer. A nil resolver names every located group by its
// coordinate string.
func NewNamer(source Source, resolver Resolver, logger *slog.Logger) *Namer {
	if resolver == nil {
		resolver = geocode.NewResolver()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Namer{
		source:   source,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "naming"),
	}
}

// NameFor names group g after its first photo's date and location. Only the
// start index is read; the finder has already read it, so naming adds no
// metadata reads.
func (n *Namer) NameFor(ctx context.Context, g grouping.Group) (Label, error) {
	date, err := n.source.DateOf(g.Start)
	if err != nil {
		return Label{}, fmt.Errorf("name group %d-%d: %w", g.Start, g.End, err)
	}
	key, err := n.source.KeyOf(g.Start)
	if err != nil {
		return Label{}, fmt.Errorf("name group %d-%d: %w", g.Start, g.End, err)
	}

	label := Label{Date: date}
	coord, ok := key.Coordinate()
	if !ok {
		label.Place = NoLocationLabel
		label.Source = geocode.SourceNone
	} else {
		label.Coordinate = &coord
		res := n.resolver.Resolve(ctx, coord.Lat, coord.Lon)
		label.Source = res.Source
		label.GeocodeErr = res.Err
		label.Place = textutil.SanitizeLabel(res.Name)
		if label.Place == "" {
			label.Place = CoordinateString(coord)
			if res.Resolved() {
				n.logger.Debug("place name empty after sanitizing",
					logging.String("place", res.Name),
					logging.String("coordinate", label.Place),
				)
			}
		}
	}
	label.Folder = FolderName(date, label.Place)
	return label, nil
}

// FolderName joins a date and a label as YYYY-MM-DD_<label>.
func FolderName(date photometa.Date, label string) string {
	return date.String() + "_" + label
}

// CoordinateString renders a coordinate as "48.8566N_2.3522E".
func CoordinateString(c photometa.Coordinate) string {
	return geocode.CoordinateString(c)
}
