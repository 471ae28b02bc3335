// Package photometa reads and memoizes per-photo capture metadata.
//
// Two extractor backends exist: GoexifExtractor decodes EXIF in-process with
// rwcarlsen/goexif, and ExiftoolExtractor drives the exiftool binary through
// barasher/go-exiftool so HEIC and vendor raw formats work too.
//
// Cache sits between an ordered photo list and an extractor. The first request
// for any field of an index performs one extraction and stores both the GPS
// coordinate and the capture timestamp; every later request for that index is
// a cache hit. Reads reports how many extractions actually ran, which is the
// cost the grouping search minimizes.
package photometa
