package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error markers used to classify failures. Per-file markers (unreadable file,
// geocode failure, destination collision, move failure) never abort a run;
// the remaining markers are fatal to the run that produced them.
var (
	ErrUnreadableFile       = errors.New("unreadable file")
	ErrGeocodeFailure       = errors.New("geocode failure")
	ErrDestinationCollision = errors.New("destination collision")
	ErrMoveFailed           = errors.New("move failed")
	ErrUnsortedInput        = errors.New("unsorted input")
	ErrConfiguration        = errors.New("configuration error")
	ErrInputUnavailable     = errors.New("input unavailable")
)

// ErrorKind is the stable, loggable name of an error marker.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindUnreadableFile       ErrorKind = "unreadable_file"
	KindGeocodeFailure       ErrorKind = "geocode_failure"
	KindDestinationCollision ErrorKind = "destination_collision"
	KindMoveFailed           ErrorKind = "move_failed"
	KindUnsortedInput        ErrorKind = "unsorted_input"
	KindConfiguration        ErrorKind = "configuration"
	KindInputUnavailable     ErrorKind = "input_unavailable"
	KindUnknown              ErrorKind = "unknown"
)

// ErrorClassifier allows errors to declare their classification directly.
type ErrorClassifier interface {
	ErrorKind() string
}

var markerKinds = []struct {
	marker error
	kind   ErrorKind
}{
	{ErrUnreadableFile, KindUnreadableFile},
	{ErrGeocodeFailure, KindGeocodeFailure},
	{ErrDestinationCollision, KindDestinationCollision},
	{ErrMoveFailed, KindMoveFailed},
	{ErrUnsortedInput, KindUnsortedInput},
	{ErrConfiguration, KindConfiguration},
	{ErrInputUnavailable, KindInputUnavailable},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps err to its classification. A nil error yields KindNone.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		if kind := strings.TrimSpace(classifier.ErrorKind()); kind != "" {
			return ErrorKind(kind)
		}
	}
	for _, mk := range markerKinds {
		if errors.Is(err, mk.marker) {
			return mk.kind
		}
	}
	return KindUnknown
}

// IsFatal reports whether err should stop the whole run rather than a single file.
func IsFatal(err error) bool {
	switch Kind(err) {
	case KindNone, KindUnreadableFile, KindGeocodeFailure, KindDestinationCollision, KindMoveFailed:
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
