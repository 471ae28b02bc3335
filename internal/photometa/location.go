package photometa

import (
	"fmt"
	"math"
)

// compareSlack absorbs float error when differences of rounded values are
// compared against a decimal tolerance (0.3622-0.3522 is not exactly 0.01).
const compareSlack = 1e-9

// Coordinate is a latitude/longitude pair in signed decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies on the globe.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Round returns the coordinate rounded to precision decimal places.
func (c Coordinate) Round(precision int) Coordinate {
	return Coordinate{Lat: roundTo(c.Lat, precision), Lon: roundTo(c.Lon, precision)}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

func roundTo(value float64, precision int) float64 {
	if precision < 0 {
		return value
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(value*scale) / scale
}

// LocationKey is either a coordinate or the no-location sentinel.
type LocationKey struct {
	coord Coordinate
	known bool
}

// NoLocation returns the sentinel key for photos without GPS data.
func NoLocation() LocationKey {
	return LocationKey{}
}

// KeyFor builds a key from an optional coordinate.
func KeyFor(c *Coordinate) LocationKey {
	if c == nil {
		return NoLocation()
	}
	return LocationKey{coord: *c, known: true}
}

// Coordinate returns the key's coordinate and whether it has one.
func (k LocationKey) Coordinate() (Coordinate, bool) {
	return k.coord, k.known
}

// IsNone reports whether k is the no-location sentinel.
func (k LocationKey) IsNone() bool {
	return !k.known
}

func (k LocationKey) String() string {
	if !k.known {
		return "no_location"
	}
	return k.coord.String()
}

// Compatible reports whether a and b denote the same place: both lack GPS, or
// both have coordinates whose latitude and longitude each differ by at most
// tolerance degrees. A coordinate is never compatible with no-location.
func Compatible(a, b LocationKey, tolerance float64) bool {
	if a.known != b.known {
		return false
	}
	if !a.known {
		return true
	}
	return math.Abs(a.coord.Lat-b.coord.Lat) <= tolerance+compareSlack &&
		math.Abs(a.coord.Lon-b.coord.Lon) <= tolerance+compareSlack
}
