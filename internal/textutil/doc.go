// Package textutil provides filename and folder-label sanitization.
//
// Place names returned by geocoders contain separators, punctuation, and
// accented characters that are awkward or unsafe in folder names. SanitizeLabel
// turns them into compact, path-safe tokens such as "Paris_France".
package textutil
