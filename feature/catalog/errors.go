package catalog

import (
	"errors"
	"fmt"
)

// ErrWalkConsumed is returned when a page walk is ranged over a second time.
var ErrWalkConsumed = errors.New("catalog walk already consumed")

// FetchError reports a failed page request. It aborts the walk.
type FetchError struct {
	// URL is the last attempted page URL.
	URL string
	// Page is the 1-based index of the failed page.
	Page int
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch page %d (%s): status %d: %v", e.Page, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch page %d (%s): %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MappingError reports a single malformed remote record.
// It is recoverable: the record is skipped and the pass continues.
type MappingError struct {
	// Field names the offending field of the raw record.
	Field string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map record: field %s: %v", e.Field, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

var errMissing = errors.New("missing required value")
