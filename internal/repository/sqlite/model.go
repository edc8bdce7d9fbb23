package sqlite

import (
	"math"
	"time"
)

// TimeEntry is a row of time_entries.
// SubtaskID is nil for whole-card tracking; EndTime is nil while running.
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

// Card is a row of cards. Only Status is written by this module.
type Card struct {
	ID     int64
	Title  string
	Status string
}

// Subtask is a row of subtasks.
type Subtask struct {
	ID     int64
	CardID int64
	Title  string
	Status string
}

// OpenEntries holds a user's running entries partitioned by subtask_id nullness.
type OpenEntries struct {
	CardEntry      *TimeEntry
	SubtaskEntries []*TimeEntry
}

// SumFilter narrows SumClosedMinutes. Nil fields are not filtered on.
// StartFrom is inclusive, StartBefore exclusive.
type SumFilter struct {
	CardID      int64
	UserID      *int64
	StartFrom   *time.Time
	StartBefore *time.Time
}

// DurationMinutes returns the whole minutes between start and end, rounded to
// the nearest minute and never negative.
func DurationMinutes(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(math.Round(d.Seconds() / 60))
}
