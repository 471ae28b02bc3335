// Package fileutil moves photos into their destination folders and guards a
// source directory against concurrent runs.
//
// MoveUnique never overwrites: a name already present in the destination is
// suffixed as stem_1.ext, stem_2.ext, and so on. Moves across filesystems
// fall back to a copy that is verified by size and SHA256 before the source
// is removed.
package fileutil
