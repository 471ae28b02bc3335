// Package grouping splits an ordered photo list into contiguous groups that
// share a calendar date and an approximate GPS location.
//
// Finder locates each group's last index with an exponential probe followed by
// a binary search, so a group of s photos costs O(log s) metadata reads rather
// than s. The search assumes the input is sorted by capture time and that
// same-place, same-day photos are contiguous; when verification is enabled a
// probed timestamp earlier than the group's anchor fails the run instead of
// silently producing wrong groups.
package grouping
