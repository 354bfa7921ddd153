package logbook

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one tracked span of work.
type Entry struct {
	ID          uuid.UUID
	StartTime   time.Time
	EndTime     *time.Time
	Description string
}

// NewEntry returns an open entry with a fresh identifier.
func NewEntry(start time.Time, description string) Entry {
	return Entry{
		ID:          uuid.New(),
		StartTime:   start,
		Description: description,
	}
}

// Finished reports whether the entry has been stopped.
func (e Entry) Finished() bool {
	return e.EndTime != nil
}

// Finish returns a copy of e stamped with end. An end before the start is
// clamped to the start so a finished entry never has negative length.
func (e Entry) Finish(end time.Time) Entry {
	if end.Before(e.StartTime) {
		end = e.StartTime
	}
	e.EndTime = &end
	return e
}

// Duration is the tracked length, measured up to now while still open.
func (e Entry) Duration(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	if end.Before(e.StartTime) {
		return 0
	}
	return end.Sub(e.StartTime)
}

// Equal compares entries by instant rather than by time.Location.
func (e Entry) Equal(other Entry) bool {
	if e.ID != other.ID || e.Description != other.Description || !e.StartTime.Equal(other.StartTime) {
		return false
	}
	switch {
	case e.EndTime == nil && other.EndTime == nil:
		return true
	case e.EndTime == nil || other.EndTime == nil:
		return false
	default:
		return e.EndTime.Equal(*other.EndTime)
	}
}
