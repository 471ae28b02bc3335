package photometa

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"
)

// exiftoolTimeFields lists timestamp tags in preference order.
var exiftoolTimeFields = []string{"DateTimeOriginal", "CreateDate", "ModifyDate"}

// ExiftoolExtractor reads metadata through a long-lived exiftool process.
type ExiftoolExtractor struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewExiftoolExtractor starts exiftool. An empty binaryPath uses exiftool from PATH.
func NewExiftoolExtractor(binaryPath string) (*ExiftoolExtractor, error) {
	opts := []func(*exiftool.Exiftool) error{exiftool.NoPrintConversion()}
	if strings.TrimSpace(binaryPath) != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExiftoolExtractor{et: et}, nil
}

// Extract implements Extractor.
func (e *ExiftoolExtractor) Extract(path string) (Metadata, error) {
	e.mu.Lock()
	fis := e.et.ExtractMetadata(path)
	e.mu.Unlock()
	if len(fis) == 0 {
		return Metadata{}, errors.New("exiftool returned no metadata")
	}
	fi := fis[0]
	if fi.Err != nil {
		return Metadata{}, fmt.Errorf("extract: %w", fi.Err)
	}

	var meta Metadata
	if c, ok := exiftoolCoordinate(fi); ok {
		meta.Coordinate = &c
	}
	for _, field := range exiftoolTimeFields {
		raw, err := fi.GetString(field)
		if err != nil {
			continue
		}
		if ts, ok := parseExifTime(raw); ok {
			meta.Taken = ts
			break
		}
	}
	return meta, nil
}

// Close stops the exiftool process.
func (e *ExiftoolExtractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}

// exiftoolCoordinate applies hemisphere references so values come out signed
// whether exiftool reported the composite (signed) or raw EXIF (unsigned) tag.
func exiftoolCoordinate(fi exiftool.FileMetadata) (Coordinate, bool) {
	lat, err := fi.GetFloat("GPSLatitude")
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := fi.GetFloat("GPSLongitude")
	if err != nil {
		return Coordinate{}, false
	}
	if ref, err := fi.GetString("GPSLatitudeRef"); err == nil && strings.HasPrefix(strings.ToUpper(ref), "S") {
		lat = -math.Abs(lat)
	}
	if ref, err := fi.GetString("GPSLongitudeRef"); err == nil && strings.HasPrefix(strings.ToUpper(ref), "W") {
		lon = -math.Abs(lon)
	}
	c := Coordinate{Lat: lat, Lon: lon}
	return c, c.Valid()
}
