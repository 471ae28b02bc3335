// Package naming turns a photo group into its destination folder name.
//
// Folder names take the form YYYY-MM-DD_<label>, where the date is the
// calendar date of the group's first photo and the label is a sanitized place
// name, the coordinate string when no name is available, or "no_location"
// for photos without GPS data.
package naming
