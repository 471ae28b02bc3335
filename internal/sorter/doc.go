// Package sorter drives a full run: it partitions an ordered photo list into
// groups, names each group, and moves every photo into its group's folder.
//
// Plan does all the metadata and geocoding work and touches no files, so the
// CLI can preview it. Apply executes a plan; per-file problems are recorded
// as outcomes and never abort the run.
package sorter
