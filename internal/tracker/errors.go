package tracker

import (
	"errors"
	"fmt"
)

// ErrNoDirectory blocks tracking until a log directory has been chosen.
var ErrNoDirectory = errors.New("log directory not configured")

// WriteError reports a day file that could not be written. Nothing entered
// is lost: the entry is either still open or kept in the finished list and
// goes out with the next successful save.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save entries to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
