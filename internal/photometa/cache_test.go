package photometa_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photosort/internal/photometa"
	"photosort/internal/services"
	"photosort/internal/testsupport"
)

var day = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

func TestCacheReadsOncePerIndex(t *testing.T) {
	shots := testsupport.Run(nil, day, testsupport.Coord(48.85661, 2.35222), 3)
	photos, fake := testsupport.Photos("/photos", shots)
	cache := photometa.NewCache(photos, fake)

	for _i := 0; _i < 3; _i++ {
		if _, err := cache.CoordinateOf(1); err != nil {
			t.Fatalf("CoordinateOf: %v", err)
		}
		if _, err := cache.DateOf(1); err != nil {
			t.Fatalf("DateOf: %v", err)
		}
		if _, err := cache.KeyOf(1); err != nil {
			t.Fatalf("KeyOf: %v", err)
		}
	}
	if got := fake.Calls(photos[1].Path); got != 1 {
		t.Fatalf("expected one extraction, got %d", got)
	}
	if cache.Reads() != 1 {
		t.Fatalf("expected Reads()=1, got %d", cache.Reads())
	}
	if cache.Loaded(0) || !cache.Loaded(1) {
		t.Fatal("unexpected Loaded state")
	}
}

func TestCacheRoundsAtWriteTime(t *testing.T) {
	photos, fake := testsupport.Photos("/photos", []testsupport.Shot{{Taken: day, Coord: testsupport.Coord(48.85661, 2.35228)}})
	cache := photometa.NewCache(photos, fake, photometa.WithPrecision(3))
	coord, err := cache.CoordinateOf(0)
	if err != nil {
		t.Fatalf("CoordinateOf: %v", err)
	}
	if coord == nil || coord.Lat != 48.857 || coord.Lon != 2.352 {
		t.Fatalf("unexpected rounded coordinate %+v", coord)
	}

	coord.Lat = 0
	again, _ := cache.CoordinateOf(0)
	if again.Lat != 48.857 {
		t.Fatal("cached coordinate was mutated through returned pointer")
	}
}

func TestCacheMissingGPSAndTimestamp(t *testing.T) {
	mtime := time.Date(2022, time.January, 2, 3, 4, 5, 0, time.UTC)
	photos := []photometa.Photo{{Path: "/photos/a.jpg", Name: "a.jpg", ModTime: mtime}}
	fake := testsupport.NewFakeExtractor()
	fake.Set("/photos/a.jpg", photometa.Metadata{})

	rec, err := photometa.NewCache(photos, fake).Record(0)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Coordinate != nil || !rec.Key().IsNone() {
		t.Fatalf("expected no location, got %+v", rec.Coordinate)
	}
	if !rec.TakenFromFile || !rec.Taken.Equal(mtime) || rec.Date.String() != "2022-01-02" {
		t.Fatalf("expected mtime fallback, got %+v", rec)
	}
	if rec.Err != nil {
		t.Fatalf("missing tags must not be an error: %v", rec.Err)
	}
}

func TestCacheExtractionFailureFallsBack(t *testing.T) {
	mtime := time.Date(2021, time.July, 4, 12, 0, 0, 0, time.UTC)
	photos := []photometa.Photo{{Path: "/photos/bad.jpg", Name: "bad.jpg", ModTime: mtime}}
	fake := testsupport.NewFakeExtractor()
	fake.Fail("/photos/bad.jpg", errors.New("truncated"))

	cache := photometa.NewCache(photos, fake)
	rec, err := cache.Record(0)
	if err != nil {
		t.Fatalf("Record must not fail on unreadable files: %v", err)
	}
	if rec.Coordinate != nil {
		t.Fatal("expected nil coordinate on failure")
	}
	if rec.Date.String() != "2021-07-04" {
		t.Fatalf("expected mtime date, got %s", rec.Date)
	}
	if !errors.Is(rec.Err, services.ErrUnreadableFile) {
		t.Fatalf("expected unreadable marker, got %v", rec.Err)
	}
	if _, err := cache.Record(0); err != nil || fake.Calls("/photos/bad.jpg") != 1 {
		t.Fatal("failed extraction should also be memoized")
	}
}

func TestCachePrefetchedIsNotARead(t *testing.T) {
	coord := testsupport.Coord(51.5074, -0.1278)
	photos := []photometa.Photo{{
		Path:       "/photos/p.jpg",
		Name:       "p.jpg",
		Prefetched: &photometa.Metadata{Coordinate: coord, Taken: day},
	}}
	fake := testsupport.NewFakeExtractor()
	cache := photometa.NewCache(photos, fake)
	key, err := cache.KeyOf(0)
	if err != nil {
		t.Fatalf("KeyOf: %v", err)
	}
	if c, ok := key.Coordinate(); !ok || c.Lon != -0.1278 {
		t.Fatalf("unexpected key %s", key)
	}
	if cache.Reads() != 0 || fake.Total() != 0 {
		t.Fatalf("prefetched metadata must not trigger reads (reads=%d)", cache.Reads())
	}
}

func TestCacheIndexOutOfRange(t *testing.T) {
	cache := photometa.NewCache(nil, testsupport.NewFakeExtractor())
	if _, err := cache.DateOf(0); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := cache.CoordinateOf(-1); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestGoexifExtractorRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := photometa.NewGoexifExtractor().Extract(path); err == nil {
		t.Fatal("expected decode error for non-image content")
	}
	if _, err := photometa.NewGoexifExtractor().Extract(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatal("expected open error for missing file")
	}
}

func TestNewExtractorRejectsUnknownBackend(t *testing.T) {
	if _, err := photometa.NewExtractor("libexif", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	ex, err := photometa.NewExtractor("goexif", "")
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	if err := photometa.CloseExtractor(ex); err != nil {
		t.Fatalf("CloseExtractor: %v", err)
	}
}
