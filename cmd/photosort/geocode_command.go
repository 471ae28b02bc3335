package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photosort/internal/geocache"
	"photosort/internal/geocode"
	"photosort/internal/photometa"
)

func newGeocodeCommand(ctx *commandContext) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "geocode <lat> <lon>",
		Short: "Resolve one coordinate to the place label a group would get",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			coord, err := parseCoordinate(args[0], args[1])
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			var store geocode.Store
			if cfg.Geocoding.Enabled && cfg.Geocoding.CacheEnabled && !noCache {
				s, err := geocache.Open(cfg.Geocoding.CachePath)
				if err != nil {
					return fmt.Errorf("open geocode cache: %w", err)
				}
				defer s.Close()
				store = s
			}
			resolver, err := geocode.NewFromConfig(cfg, store, logger)
			if err != nil {
				return err
			}

			res := resolver.Resolve(cmd.Context(), coord.Lat, coord.Lon)
			if ctx.jsonOutput() {
				payload := map[string]any{
					"coordinate": geocode.CoordinateString(coord.Round(cfg.Grouping.Precision)),
					"name":       res.Name,
					"source":     res.Source,
				}
				if res.Err != nil {
					payload["error"] = res.Err.Error()
				}
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", res.Name, res.Source)
			if res.Err != nil {
				fmt.Fprintf(out, "Lookup failed: %v\n", res.Err)
			}
			if !resolver.Enabled() {
				fmt.Fprintln(out, "Geocoding is disabled; set [geocoding] enabled = true to resolve place names")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the persistent geocode cache")
	return cmd
}

func parseCoordinate(latArg, lonArg string) (photometa.Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latArg), 64)
	if err != nil {
		return photometa.Coordinate{}, fmt.Errorf("invalid latitude %q", latArg)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonArg), 64)
	if err != nil {
		return photometa.Coordinate{}, fmt.Errorf("invalid longitude %q", lonArg)
	}
	coord := photometa.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return photometa.Coordinate{}, fmt.Errorf("coordinate %s is out of range", coord)
	}
	return coord, nil
}
