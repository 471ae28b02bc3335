package photometa

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// goexifTimeFields lists timestamp tags in preference order.
var goexifTimeFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime}

// GoexifExtractor decodes EXIF in-process. It handles JPEG and TIFF-based raw files.
type GoexifExtractor struct{}

// NewGoexifExtractor returns the pure-Go extractor.
func NewGoexifExtractor() *GoexifExtractor {
	return &GoexifExtractor{}
}

// Extract implements Extractor.
func (GoexifExtractor) Extract(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			err = fmt.Errorf("no exif data")
		}
		return Metadata{}, fmt.Errorf("decode exif: %w", err)
	}

	var meta Metadata
	if lat, lon, err := x.LatLong(); err == nil {
		c := Coordinate{Lat: lat, Lon: lon}
		if c.Valid() {
			meta.Coordinate = &c
		}
	}
	for _, field := range goexifTimeFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
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
