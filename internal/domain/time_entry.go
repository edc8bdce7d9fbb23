package domain

import (
	"time"
)

// TimeEntry represents a tracked work interval in the domain model.
// A nil SubtaskID marks a card-class entry; a nil EndTime marks a running one.
type TimeEntry struct {
	ID              int64
	UserID          int64
	CardID          int64
	SubtaskID       *int64
	StartTime       time.Time
	EndTime         *time.Time
	Description     *string
	DurationMinutes *int64
}

// IsRunning returns true if the time entry is currently running (no end time).
func (te TimeEntry) IsRunning() bool {
	return te.EndTime == nil
}

// IsCardClass reports whether the entry tracks the whole card.
func (te TimeEntry) IsCardClass() bool {
	return te.SubtaskID == nil
}

// Elapsed returns how long the entry has been running at now.
// Closed entries report their stored interval instead.
func (te TimeEntry) Elapsed(now time.Time) time.Duration {
	if te.EndTime != nil {
		return te.EndTime.Sub(te.StartTime)
	}
	if now.Before(te.StartTime) {
		return 0
	}
	return now.Sub(te.StartTime)
}

// Minutes returns the stored duration of a closed entry, zero for running ones.
func (te TimeEntry) Minutes() int64 {
	if te.DurationMinutes == nil {
		return 0
	}
	return *te.DurationMinutes
}

// OpenEntries is a user's running timers, split by timer class.
type OpenEntries struct {
	CardEntry      *TimeEntry
	SubtaskEntries []*TimeEntry
}

// Count returns the number of running timers.
func (o OpenEntries) Count() int {
	n := len(o.SubtaskEntries)
	if o.CardEntry != nil {
		n++
	}
	return n
}

// SubtaskEntry returns the running entry for subtaskID, if any.
func (o OpenEntries) SubtaskEntry(subtaskID int64) *TimeEntry {
	for _, e := range o.SubtaskEntries {
		if e.SubtaskID != nil && *e.SubtaskID == subtaskID {
			return e
		}
	}
	return nil
}
