package testsupport

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"photosort/internal/photometa"
)

// FakeExtractor serves canned metadata by path and counts calls.
type FakeExtractor struct {
	mu    sync.Mutex
	data  map[string]photometa.Metadata
	errs  map[string]error
	calls map[string]int
	total int
}

// NewFakeExtractor returns an empty fake.
func NewFakeExtractor() *FakeExtractor {
	return &FakeExtractor{
		data:  make(map[string]photometa.Metadata),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// Set registers metadata for path.
func (f *FakeExtractor) Set(path string, meta photometa.Metadata) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[path] = meta
}

// Fail makes extraction of path fail.
func (f *FakeExtractor) Fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		err = errors.New("corrupt file")
	}
	f.errs[path] = err
}

// Extract implements photometa.Extractor.
func (f *FakeExtractor) Extract(path string) (photometa.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	f.total++
	if err, ok := f.errs[path]; ok {
		return photometa.Metadata{}, err
	}
	meta, ok := f.data[path]
	if !ok {
		return photometa.Metadata{}, fmt.Errorf("no fake metadata for %s", path)
	}
	return meta, nil
}

// Calls returns how often path was extracted.
func (f *FakeExtractor) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// Total returns the number of extractions across all paths.
func (f *FakeExtractor) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// Shot describes one synthetic photo.
type Shot struct {
	Taken time.Time
	Coord *photometa.Coordinate
}

// Coord returns a coordinate pointer.
func Coord(lat, lon float64) *photometa.Coordinate {
	return &photometa.Coordinate{Lat: lat, Lon: lon}
}

// Photos builds an in-memory photo list plus a fake extractor serving each
// shot's metadata. Paths are synthetic under dir and never touch disk.
func Photos(dir string, shots []Shot) ([]photometa.Photo, *FakeExtractor) {
	fake := NewFakeExtractor()
	photos := make([]photometa.Photo, len(shots))
	for i, shot := range shots {
		name := fmt.Sprintf("IMG_%04d.jpg", i+1)
		path := filepath.Join(dir, name)
		photos[i] = photometa.Photo{Path: path, Name: name, ModTime: shot.Taken, Size: 64}
		fake.Set(path, photometa.Metadata{Coordinate: shot.Coord, Taken: shot.Taken})
	}
	return photos, fake
}

// Run appends count shots at coord starting at start, one minute apart.
func Run(shots []Shot, start time.Time, coord *photometa.Coordinate, count int) []Shot {
	for i := 0; i < count; i++ {
		shots = append(shots, Shot{Taken: start.Add(time.Duration(i) * time.Minute), Coord: coord})
	}
	return shots
}
