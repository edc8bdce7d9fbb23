package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const timeEntryColumns = `id, user_id, card_id, subtask_id, start_time, end_time, description, duration_minutes`

// ScanTimeEntry scans a single time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var (
		subtaskID   sql.NullInt64
		startTime   string
		endTime     sql.NullString
		description sql.NullString
		duration    sql.NullInt64
	)

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CardID,
		&subtaskID,
		&startTime,
		&endTime,
		&description,
		&duration,
	)
	if err != nil {
		return nil, err
	}

	if entry.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if endTime.Valid {
		t, err := ParseTimeFromDB(endTime.String)
		if err != nil {
			return nil, err
		}
		entry.EndTime = &t
	}
	if subtaskID.Valid {
		entry.SubtaskID = &subtaskID.Int64
	}
	if description.Valid {
		entry.Description = &description.String
	}
	if duration.Valid {
		entry.DurationMinutes = &duration.Int64
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	var entries []*TimeEntry
	for rows.Next() {
		entry, err := ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ScanCard scans a single card from a database row
func ScanCard(scanner Scanner) (*Card, error) {
	card := &Card{}
	if err := scanner.Scan(&card.ID, &card.Title, &card.Status); err != nil {
		return nil, err
	}
	return card, nil
}

// ScanSubtask scans a single subtask from a database row
func ScanSubtask(scanner Scanner) (*Subtask, error) {
	subtask := &Subtask{}
	if err := scanner.Scan(&subtask.ID, &subtask.CardID, &subtask.Title, &subtask.Status); err != nil {
		return nil, err
	}
	return subtask, nil
}

// ScanSubtasks scans multiple subtasks from database rows
func ScanSubtasks(rows Rows) ([]*Subtask, error) {
	var subtasks []*Subtask
	for rows.Next() {
		subtask, err := ScanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, subtask)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subtasks, nil
}
