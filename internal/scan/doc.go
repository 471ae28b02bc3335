// Package scan lists the photos of one source directory in grouping order.
//
// The listing is flat: subdirectories, dotfiles, and files outside the
// extension allow-list are skipped. Photos are ordered either by capture time,
// which reads every file's timestamp once up front, or by modification time,
// which only stats files and leaves metadata reads to the grouping search.
package scan
