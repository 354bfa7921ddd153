package logbook

import (
	"errors"
	"fmt"
)

// ErrNotSequence is wrapped by ParseError when the document root is not a list.
var ErrNotSequence = errors.New("expected a sequence at the document root")

// ErrMissingField indicates a record lacks one of id, startTime or description.
var ErrMissingField = errors.New("missing required field")

// ErrEndBeforeStart indicates a record whose endTime precedes its startTime.
var ErrEndBeforeStart = errors.New("endTime before startTime")

// ParseError means the whole day file could not be read as an entry list.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse entries: %v", e.Err)
	}
	return fmt.Sprintf("parse entries %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RecordError describes one element of the list that was skipped.
type RecordError struct {
	// Index is the zero-based position of the element in the document.
	Index int
	Line  int
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (line %d): %v", e.Index, e.Line, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }
