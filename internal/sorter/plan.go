package sorter

import (
	"context"
	"fmt"
	"time"

	"photosort/internal/geocode"
	"photosort/internal/grouping"
	"photosort/internal/logging"
	"photosort/internal/naming"
	"photosort/internal/photometa"
	"photosort/internal/services"
)

// PlannedGroup is one group and its destination.
type PlannedGroup struct {
	// Number is the 1-based position of the group in the run.
	Number   int               `json:"number"`
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Date     string            `json:"date"`
	Location string            `json:"location"`
	Label    naming.Label      `json:"label"`
	Files    []photometa.Photo `json:"-"`
}

// Len returns the number of photos in the group.
func (g PlannedGroup) Len() int {
	return len(g.Files)
}

// Plan is the result of grouping and naming a photo list.
type Plan struct {
	RunID  string         `json:"run_id"`
	Groups []PlannedGroup `json:"groups"`
	// Reads is the number of metadata extractions grouping performed.
	Reads int `json:"reads"`
	// Prefetched counts photos whose metadata the scanner already extracted
	// to order the list.
	Prefetched int            `json:"prefetched"`
	Total      int            `json:"total"`
	Geocode    *geocode.Stats `json:"geocode,omitempty"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
}

type statsReporter interface {
	Stats() geocode.Stats
}

// Plan partitions photos into groups and names each one. photos must be in
// grouping order as returned by the scanner.
func (s *Sorter) Plan(ctx context.Context, photos []photometa.Photo) (Plan, error) {
	ctx, runID := EnsureRunID(ctx)
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	cache := photometa.NewCache(photos, s.extractor,
		photometa.WithPrecision(s.precision),
		photometa.WithLogger(logger),
	)
	finder := grouping.NewFinder(cache,
		grouping.WithTolerance(s.tolerance),
		grouping.WithOrderCheck(s.verifyOrder),
		grouping.WithLogger(logger),
	)
	namer := naming.NewNamer(cache, s.resolver, logger)

	plan := Plan{RunID: runID, Total: len(photos)}
	it := finder.Iterate(len(photos))
	for {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		g, ok, err := it.Next()
		if err != nil {
			return plan, err
		}
		if !ok {
			break
		}
		number := len(plan.Groups) + 1
		groupCtx := services.WithGroup(ctx, number)
		label, err := namer.NameFor(groupCtx, g)
		if err != nil {
			return plan, fmt.Errorf("plan group %d: %w", number, err)
		}
		key, err := cache.KeyOf(g.Start)
		if err != nil {
			return plan, fmt.Errorf("plan group %d: %w", number, err)
		}
		plan.Groups = append(plan.Groups, PlannedGroup{
			Number:   number,
			Start:    g.Start,
			End:      g.End,
			Date:     label.Date.String(),
			Location: key.String(),
			Label:    label,
			Files:    photos[g.Start : g.End+1],
		})
		logging.WithContext(groupCtx, s.logger).Debug("group planned",
			logging.Int("start", g.Start),
			logging.Int("end", g.End),
			logging.String("folder", label.Folder),
			logging.String("source", string(label.Source)),
		)
	}

	plan.Reads = cache.Reads()
	plan.Prefetched = countPrefetched(photos)
	plan.Elapsed = time.Since(started)
	if reporter, ok := s.resolver.(statsReporter); ok {
		stats := reporter.Stats()
		plan.Geocode = &stats
	}
	logger.Info("plan ready",
		logging.Int("photos", plan.Total),
		logging.Int("groups", len(plan.Groups)),
		logging.Int("metadata_reads", plan.Reads),
		logging.Int("prefetched", plan.Prefetched),
		logging.Duration("elapsed", plan.Elapsed),
	)
	return plan, nil
}

func countPrefetched(photos []photometa.Photo) int {
	n := 0
	for _, p := range photos {
		if p.Prefetched != nil || p.PrefetchErr != nil {
			n++
		}
	}
	return n
}
