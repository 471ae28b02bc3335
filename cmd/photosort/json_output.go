package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"photosort/internal/geocode"
	"photosort/internal/preflight"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type sortOutput struct {
	Preflight []preflight.Result `json:"preflight,omitempty"`
	Plan      planOutput         `json:"plan"`
	Report    *reportOutput      `json:"report,omitempty"`
}

type planOutput struct {
	RunID      string         `json:"run_id"`
	Total      int            `json:"total"`
	Reads      int            `json:"metadata_reads"`
	Prefetched int            `json:"prefetched_reads"`
	Groups     []groupOutput  `json:"groups"`
	Geocode    *geocode.Stats `json:"geocode,omitempty"`
}

type groupOutput struct {
	Number   int      `json:"number"`
	Folder   string   `json:"folder"`
	Date     string   `json:"date"`
	Location string   `json:"location"`
	Place    string   `json:"place"`
	Source   string   `json:"source"`
	Files    []string `json:"files"`
}

type reportOutput struct {
	DryRun    bool            `json:"dry_run"`
	Moved     int             `json:"moved"`
	Renamed   int             `json:"renamed"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Cancelled bool            `json:"cancelled"`
	Outcomes  []outcomeOutput `json:"outcomes"`
}

type outcomeOutput struct {
	Path  string `json:"path"`
	Dest  string `json:"dest,omitempty"`
	Group int    `json:"group"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}
