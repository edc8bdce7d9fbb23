package migrations

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

func init() {
	RegisterGoMigration(3, Up_000003_backfill_duration_minutes, Down_000003_backfill_duration_minutes)
}

// Up_000003_backfill_duration_minutes fills duration_minutes for closed entries
// imported without it. Rows whose timestamps cannot be parsed are left NULL and
// counted, the migration itself does not fail on them.
func Up_000003_backfill_duration_minutes(tx *sql.Tx) error {
	type entry struct {
		id        int64
		startTime string
		endTime   string
	}
	var entries []entry

	rows, err := tx.Query(`
		SELECT id, start_time, end_time FROM time_entries
		WHERE end_time IS NOT NULL AND duration_minutes IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to query closed time entries: %w", err)
	}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.startTime, &e.endTime); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan row %d: %w", e.id, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating time entries: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE time_entries SET duration_minutes = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare duration update statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		start, err := time.Parse(time.RFC3339, e.startTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, e.endTime)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(roundedMinutes(start, end), e.id); err != nil {
			return fmt.Errorf("failed to update duration for id %d: %w", e.id, err)
		}
	}

	return nil
}

// Down_000003_backfill_duration_minutes is a no-op; backfilled values are
// indistinguishable from values written at close time.
func Down_000003_backfill_duration_minutes(tx *sql.Tx) error {
	return nil
}

func roundedMinutes(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(math.Round(d.Seconds() / 60))
}
