package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"photosort/internal/geocache"
	"photosort/internal/geocode"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the persistent geocode cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func openCache(ctx *commandContext) (*geocache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Geocoding.CacheEnabled {
		return nil, errors.New("geocode cache is disabled (geocoding.cache_enabled = false)")
	}
	return geocache.Open(cfg.Geocoding.CachePath)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached place names",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if entries == nil {
					entries = []geocache.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			printCacheEntries(cmd.OutOrStdout(), store.Path(), entries)
			return nil
		},
	}
}

func printCacheEntries(out io.Writer, path string, entries []geocache.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(out, "Geocode cache %s is empty\n", path)
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		resolved := "unknown"
		if !entry.ResolvedAt.IsZero() {
			resolved = entry.ResolvedAt.Local().Format(stampLayout)
		}
		rows = append(rows, []string{
			entry.Provider,
			geocode.CoordinateString(entry.Coordinate),
			entry.Name,
			resolved,
		})
	}
	fmt.Fprintln(out, renderTable(path,
		[]string{"Provider", "Coordinate", "Place", "Resolved"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d cached place names\n", len(entries))
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached place name",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int64{"removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached place names\n", removed)
			return nil
		},
	}
}
