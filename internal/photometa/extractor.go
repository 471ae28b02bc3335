package photometa

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// exifTimeLayout is the fixed EXIF date/time layout.
const exifTimeLayout = "2006:01:02 15:04:05"

// Metadata is the subset of embedded metadata the sorter needs.
type Metadata struct {
	// Coordinate is nil when the file carries no usable GPS position.
	Coordinate *Coordinate
	// Taken is zero when no capture timestamp tag was found.
	Taken time.Time
}

// Extractor reads capture metadata from a single file.
type Extractor interface {
	Extract(path string) (Metadata, error)
}

// NewExtractor builds the extractor for backend ("goexif" or "exiftool").
// Callers should pass the result to CloseExtractor when done.
func NewExtractor(backend, exiftoolPath string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "goexif":
		return NewGoexifExtractor(), nil
	case "exiftool":
		return NewExiftoolExtractor(exiftoolPath)
	default:
		return nil, fmt.Errorf("unsupported metadata backend %q", backend)
	}
}

// CloseExtractor releases backend resources, if any.
func CloseExtractor(ex Extractor) error {
	if closer, ok := ex.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// parseExifTime parses an EXIF timestamp. Sub-second and zone suffixes are
// ignored; the result is in the local zone, matching camera clock semantics.
func parseExifTime(raw string) (time.Time, bool) {
	value := strings.Trim(strings.TrimSpace(raw), "\x00")
	if len(value) < len(exifTimeLayout) {
		return time.Time{}, false
	}
	value = value[:len(exifTimeLayout)]
	if strings.HasPrefix(value, "0000") {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(exifTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
