package grouping_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"photosort/internal/grouping"
	"photosort/internal/photometa"
	"photosort/internal/services"
	"photosort/internal/testsupport"
)

var (
	paris  = testsupport.Coord(48.8566, 2.3522)
	london = testsupport.Coord(51.5074, -0.1278)
)

func newFinder(t *testing.T, shots []testsupport.Shot, opts ...grouping.Option) (*grouping.Finder, *photometa.Cache) {
	t.Helper()
	photos, fake := testsupport.Photos("/photos", shots)
	cache := photometa.NewCache(photos, fake)
	return grouping.NewFinder(cache, opts...), cache
}

func TestPartitionParisLondonNoLocation(t *testing.T) {
	day1 := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.July, 16, 9, 0, 0, 0, time.UTC)
	var shots []testsupport.Shot
	shots = testsupport.Run(shots, day1, paris, 5)
	shots = testsupport.Run(shots, day1.Add(6*time.Hour), london, 5)
	shots = testsupport.Run(shots, day2, nil, 2)

	finder, _ := newFinder(t, shots)
	groups, err := finder.Partition(len(shots))
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	want := []grouping.Group{{Start: 0, End: 4}, {Start: 5, End: 9}, {Start: 10, End: 11}}
	if len(groups) != len(want) {
		t.Fatalf("got groups %v, want %v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("group %d = %v, want %v", i, groups[i], want[i])
		}
	}
}

func TestLongitudeBeyondToleranceSplits(t *testing.T) {
	at := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	shots := []testsupport.Shot{
		{Taken: at, Coord: testsupport.Coord(48.8566, 2.3522)},
		{Taken: at.Add(time.Minute), Coord: testsupport.Coord(48.8566, 2.3672)},
	}
	finder, _ := newFinder(t, shots)
	end, err := finder.GroupEnd(0, 2)
	if err != nil {
		t.Fatalf("GroupEnd: %v", err)
	}
	if end != 0 {
		t.Fatalf("expected items in separate groups, got end=%d", end)
	}
}

func TestToleranceBoundaryIsInclusive(t *testing.T) {
	at := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	shots := []testsupport.Shot{
		{Taken: at, Coord: testsupport.Coord(48.8566, 2.3522)},
		{Taken: at.Add(time.Minute), Coord: testsupport.Coord(48.8666, 2.3622)},
	}
	finder, _ := newFinder(t, shots)
	end, err := finder.GroupEnd(0, 2)
	if err != nil {
		t.Fatalf("GroupEnd: %v", err)
	}
	if end != 1 {
		t.Fatalf("expected a difference of exactly the tolerance to match, got end=%d", end)
	}
}

func TestGroupEndSingleAndLastIndex(t *testing.T) {
	at := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	finder, cache := newFinder(t, testsupport.Run(nil, at, paris, 3))
	end, err := finder.GroupEnd(2, 3)
	if err != nil || end != 2 {
		t.Fatalf("GroupEnd(last) = %d, %v", end, err)
	}
	if cache.Reads() != 0 {
		t.Fatalf("last-index group should not read metadata, got %d reads", cache.Reads())
	}
	if _, err := finder.GroupEnd(3, 3); err == nil {
		t.Fatal("expected error for start beyond total")
	}
	if _, err := finder.GroupEnd(0, 4); err == nil {
		t.Fatal("expected error for total beyond source length")
	}
}

func TestPartitionEmpty(t *testing.T) {
	finder, _ := newFinder(t, nil)
	groups, err := finder.Partition(0)
	if err != nil || len(groups) != 0 {
		t.Fatalf("Partition(0) = %v, %v", groups, err)
	}
}

func TestReadCostIsSublinear(t *testing.T) {
	start := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	var shots []testsupport.Shot
	for g := 0; g < 10; g++ {
		coord := testsupport.Coord(10+float64(g), 20)
		shots = testsupport.Run(shots, start.Add(time.Duration(g*100)*time.Minute), coord, 100)
	}
	finder, cache := newFinder(t, shots)
	groups, err := finder.Partition(len(shots))
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(groups) != 10 {
		t.Fatalf("expected 10 groups, got %d", len(groups))
	}
	for i, g := range groups {
		if g.Start != i*100 || g.End != i*100+99 {
			t.Fatalf("group %d = %v", i, g)
		}
	}
	if reads := cache.Reads(); reads >= 200 {
		t.Fatalf("expected well under 200 reads for 1000 photos in 10 groups, got %d", reads)
	}
}

func TestPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	places := []*photometa.Coordinate{
		nil,
		testsupport.Coord(48.8566, 2.3522),
		testsupport.Coord(48.8566, 2.3722),
		testsupport.Coord(40.7128, -74.0060),
		testsupport.Coord(-33.8688, 151.2093),
	}

	for trial := 0; trial < 50; trial++ {
		var shots []testsupport.Shot
		at := time.Date(2023, time.January, 1, 8, 0, 0, 0, time.UTC)
		usedToday := map[int]bool{}
		groupCount := 1 + rng.Intn(12)
		for _i := 0; _i < groupCount; _i++ {
			place := rng.Intn(len(places))
			// Same place twice on one day would break the clustering precondition.
			if usedToday[place] {
				at = time.Date(at.Year(), at.Month(), at.Day()+1, 8, 0, 0, 0, time.UTC)
				usedToday = map[int]bool{}
			}
			usedToday[place] = true
			size := 1 + rng.Intn(40)
			shots = testsupport.Run(shots, at, places[place], size)
			at = at.Add(time.Duration(size) * time.Minute)
		}

		finder, cache := newFinder(t, shots)
		groups, err := finder.Partition(len(shots))
		if err != nil {
			t.Fatalf("trial %d: Partition: %v", trial, err)
		}

		next := 0
		for _, g := range groups {
			if g.Start != next || g.End < g.Start {
				t.Fatalf("trial %d: groups not contiguous: %v", trial, groups)
			}
			anchorDate, _ := cache.DateOf(g.Start)
			anchorKey, _ := cache.KeyOf(g.Start)
			for i := g.Start; i <= g.End; i++ {
				d, _ := cache.DateOf(i)
				k, _ := cache.KeyOf(i)
				if d != anchorDate || !photometa.Compatible(anchorKey, k, grouping.DefaultTolerance) {
					t.Fatalf("trial %d: index %d not homogeneous with group %v", trial, i, g)
				}
			}
			if g.End < len(shots)-1 {
				d, _ := cache.DateOf(g.End + 1)
				k, _ := cache.KeyOf(g.End + 1)
				if d == anchorDate && photometa.Compatible(anchorKey, k, grouping.DefaultTolerance) {
					t.Fatalf("trial %d: index %d should have extended group %v", trial, g.End+1, g)
				}
			}
			next = g.End + 1
		}
		if next != len(shots) {
			t.Fatalf("trial %d: groups cover %d of %d indices", trial, next, len(shots))
		}
	}
}

func TestUnsortedInputDetected(t *testing.T) {
	at := time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC)
	shots := []testsupport.Shot{
		{Taken: at, Coord: paris},
		{Taken: at.Add(time.Minute), Coord: paris},
		{Taken: at.Add(-time.Hour), Coord: paris},
		{Taken: at.Add(3 * time.Minute), Coord: paris},
	}

	finder, _ := newFinder(t, shots)
	_, err := finder.GroupEnd(0, len(shots))
	if !errors.Is(err, services.ErrUnsortedInput) {
		t.Fatalf("expected unsorted input error, got %v", err)
	}

	finder, _ = newFinder(t, shots, grouping.WithOrderCheck(false))
	end, err := finder.GroupEnd(0, len(shots))
	if err != nil || end != 3 {
		t.Fatalf("GroupEnd without order check = %d, %v", end, err)
	}
}

func TestWiderToleranceMerges(t *testing.T) {
	at := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	shots := []testsupport.Shot{
		{Taken: at, Coord: testsupport.Coord(48.8566, 2.3522)},
		{Taken: at.Add(time.Minute), Coord: testsupport.Coord(48.8566, 2.3672)},
	}
	finder, _ := newFinder(t, shots, grouping.WithTolerance(0.02))
	end, err := finder.GroupEnd(0, 2)
	if err != nil || end != 1 {
		t.Fatalf("GroupEnd with wide tolerance = %d, %v", end, err)
	}
}

func TestIteratorYieldsInOrder(t *testing.T) {
	at := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	var shots []testsupport.Shot
	shots = testsupport.Run(shots, at, paris, 3)
	shots = testsupport.Run(shots, at.Add(time.Hour), london, 2)
	finder, _ := newFinder(t, shots)

	it := finder.Iterate(len(shots))
	var got []grouping.Group
	for {
		g, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, g)
	}
	if len(got) != 2 || got[0].Len() != 3 || got[1].Len() != 2 {
		t.Fatalf("unexpected groups %v", got)
	}
}
