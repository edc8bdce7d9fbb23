package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Queries is the set of store operations. It is implemented both on the
// repository and on a transaction handle passed to RunInTx.
type Queries interface {
	// Time entries
	OpenTimeEntry(ctx context.Context, entry *TimeEntry) error
	CloseTimeEntry(ctx context.Context, id int64, endTime time.Time, description *string) (*TimeEntry, error)
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	FindOpenFor(ctx context.Context, userID int64) (OpenEntries, error)
	ListOpenSubtaskEntries(ctx context.Context, userID, cardID int64) ([]*TimeEntry, error)
	ListFor(ctx context.Context, cardID int64) ([]*TimeEntry, error)
	UpdateDescription(ctx context.Context, id int64, description *string) (*TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id int64) error

	// Aggregates
	SumClosedMinutes(ctx context.Context, filter SumFilter) (int64, error)
	CountOpen(ctx context.Context, userID int64) (int, error)

	// Cards and subtasks
	CreateCard(ctx context.Context, card *Card) error
	GetCard(ctx context.Context, id int64) (*Card, error)
	UpdateCardStatus(ctx context.Context, id int64, status string) error
	CreateSubtask(ctx context.Context, subtask *Subtask) error
	GetSubtask(ctx context.Context, id int64) (*Subtask, error)
	ListSubtasks(ctx context.Context, cardID int64) ([]*Subtask, error)
	UpdateSubtaskStatus(ctx context.Context, id int64, status string) error
}

// Repository defines the interface for database operations
type Repository interface {
	Queries

	// RunInTx runs fn inside one transaction. Any error returned by fn rolls
	// back every write fn made.
	RunInTx(ctx context.Context, fn func(q Queries) error) error

	// Utility
	Close() error
}

// Options tunes per-call timeouts. Zero values disable the timeout.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	*queries
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a repository whose reads and writes are bounded by opts.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// One connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{
		queries: &queries{db: db, opts: opts},
		db:      db,
	}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// RunInTx runs fn in a transaction
func (r *SQLiteRepository) RunInTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(&queries{db: tx, opts: r.opts}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// queries implements Queries over a *sql.DB or a *sql.Tx
type queries struct {
	db   DBTX
	opts Options
}

func (q *queries) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, q.opts.QueryTimeout)
}

func (q *queries) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.opts.WriteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, q.opts.WriteTimeout)
}

// OpenTimeEntry inserts a running entry. A UNIQUE violation from the open-entry
// indexes is reported as a tracking conflict.
func (q *queries) OpenTimeEntry(ctx context.Context, entry *TimeEntry) error {
	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO time_entries (user_id, card_id, subtask_id, start_time)
	VALUES (?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query, entry.UserID, entry.CardID, entry.SubtaskID, FormatTimeForDB(entry.StartTime))
	if err != nil {
		if IsUniqueViolation(err) {
			if entry.SubtaskID != nil {
				return errors.NewSubtaskConflictError(*entry.SubtaskID, 0)
			}
			return errors.NewCardConflictError(entry.CardID, 0)
		}
		return HandleDatabaseError("insert time entry", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return HandleDatabaseError("get last insert ID", err)
	}

	entry.ID = id
	entry.EndTime = nil
	entry.DurationMinutes = nil
	return nil
}

// CloseTimeEntry sets end_time and duration_minutes on a running entry
func (q *queries) CloseTimeEntry(ctx context.Context, id int64, endTime time.Time, description *string) (*TimeEntry, error) {
	entry, err := q.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.EndTime != nil {
		return nil, errors.NewAlreadyClosedError(id)
	}

	// Stored times carry second precision, so compute from the stored form.
	end := endTime.UTC().Truncate(time.Second)
	minutes := DurationMinutes(entry.StartTime, end)
	if description == nil {
		description = entry.Description
	}

	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE time_entries
	SET end_time = ?, duration_minutes = ?, description = ?
	WHERE id = ? AND end_time IS NULL`

	result, err := q.db.ExecContext(ctx, query, FormatTimeForDB(end), minutes, description, id)
	if err != nil {
		return nil, HandleDatabaseError("close time entry", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return nil, errors.NewAlreadyClosedError(id)
	}

	entry.EndTime = &end
	entry.DurationMinutes = &minutes
	entry.Description = description
	return entry, nil
}

// GetTimeEntry retrieves a time entry by ID
func (q *queries) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	return QuerySingle(ctx, q.db, query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// FindOpenFor returns the user's running entries split by timer class
func (q *queries) FindOpenFor(ctx context.Context, userID int64) (OpenEntries, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE user_id = ? AND end_time IS NULL
	ORDER BY start_time ASC, id ASC`

	entries, err := QueryMultiple(ctx, q.db, query, ScanTimeEntries, "time entries", userID)
	if err != nil {
		return OpenEntries{}, err
	}

	var open OpenEntries
	for _, e := range entries {
		if e.SubtaskID == nil {
			open.CardEntry = e
			continue
		}
		open.SubtaskEntries = append(open.SubtaskEntries, e)
	}
	return open, nil
}

// ListOpenSubtaskEntries returns the user's running subtask entries under a card
func (q *queries) ListOpenSubtaskEntries(ctx context.Context, userID, cardID int64) ([]*TimeEntry, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE user_id = ? AND card_id = ? AND subtask_id IS NOT NULL AND end_time IS NULL
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, q.db, query, ScanTimeEntries, "time entries", userID, cardID)
}

// ListFor returns every entry recorded against a card, running ones included
func (q *queries) ListFor(ctx context.Context, cardID int64) ([]*TimeEntry, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE card_id = ?
	ORDER BY start_time ASC, id ASC`

	return QueryMultiple(ctx, q.db, query, ScanTimeEntries, "time entries", cardID)
}

// UpdateDescription replaces the description of a closed entry
func (q *queries) UpdateDescription(ctx context.Context, id int64, description *string) (*TimeEntry, error) {
	entry, err := q.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.EndTime == nil {
		return nil, errors.NewInvalidStateError(id, "edit")
	}

	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `UPDATE time_entries SET description = ? WHERE id = ? AND end_time IS NOT NULL`
	if err := ExecuteWithRowsAffected(ctx, q.db, query, "time entry", fmt.Sprintf("%d", id), description, id); err != nil {
		return nil, err
	}

	entry.Description = description
	return entry, nil
}

// DeleteTimeEntry deletes a closed time entry by ID
func (q *queries) DeleteTimeEntry(ctx context.Context, id int64) error {
	entry, err := q.GetTimeEntry(ctx, id)
	if err != nil {
		return err
	}
	if entry.EndTime == nil {
		return errors.NewInvalidStateError(id, "delete")
	}

	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `DELETE FROM time_entries WHERE id = ? AND end_time IS NOT NULL`
	return ExecuteWithRowsAffected(ctx, q.db, query, "time entry", fmt.Sprintf("%d", id), id)
}

// SumClosedMinutes sums duration_minutes over closed entries matching filter
func (q *queries) SumClosedMinutes(ctx context.Context, filter SumFilter) (int64, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	conditions := []string{"card_id = ?", "end_time IS NOT NULL"}
	args := []interface{}{filter.CardID}

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.StartFrom != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, FormatTimePtrForDB(filter.StartFrom))
	}
	if filter.StartBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, FormatTimePtrForDB(filter.StartBefore))
	}

	query := `SELECT COALESCE(SUM(duration_minutes), 0) FROM time_entries WHERE ` + strings.Join(conditions, " AND ")

	var total int64
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, HandleDatabaseError("sum time entries", err)
	}
	return total, nil
}

// CountOpen counts a user's running entries of both classes
func (q *queries) CountOpen(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM time_entries WHERE user_id = ? AND end_time IS NULL`
	if err := q.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, HandleDatabaseError("count open time entries", err)
	}
	return count, nil
}

// CreateCard inserts a card row
func (q *queries) CreateCard(ctx context.Context, card *Card) error {
	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	if card.Status == "" {
		card.Status = "todo"
	}
	query := `INSERT INTO cards (title, status) VALUES (?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, q.db, query, card.Title, card.Status)
	if err != nil {
		return err
	}
	card.ID = id
	return nil
}

// GetCard retrieves a card by ID
func (q *queries) GetCard(ctx context.Context, id int64) (*Card, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `SELECT id, title, status FROM cards WHERE id = ?`
	return QuerySingle(ctx, q.db, query, ScanCard, "card", fmt.Sprintf("%d", id), id)
}

// UpdateCardStatus sets a card's status
func (q *queries) UpdateCardStatus(ctx context.Context, id int64, status string) error {
	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `UPDATE cards SET status = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, q.db, query, "card", fmt.Sprintf("%d", id), status, id)
}

// CreateSubtask inserts a subtask row
func (q *queries) CreateSubtask(ctx context.Context, subtask *Subtask) error {
	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	if subtask.Status == "" {
		subtask.Status = "todo"
	}
	query := `INSERT INTO subtasks (card_id, title, status) VALUES (?, ?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, q.db, query, subtask.CardID, subtask.Title, subtask.Status)
	if err != nil {
		return err
	}
	subtask.ID = id
	return nil
}

// GetSubtask retrieves a subtask by ID
func (q *queries) GetSubtask(ctx context.Context, id int64) (*Subtask, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `SELECT id, card_id, title, status FROM subtasks WHERE id = ?`
	return QuerySingle(ctx, q.db, query, ScanSubtask, "subtask", fmt.Sprintf("%d", id), id)
}

// ListSubtasks returns all subtasks of a card
func (q *queries) ListSubtasks(ctx context.Context, cardID int64) ([]*Subtask, error) {
	ctx, cancel := q.readCtx(ctx)
	defer cancel()

	query := `SELECT id, card_id, title, status FROM subtasks WHERE card_id = ? ORDER BY id ASC`
	return QueryMultiple(ctx, q.db, query, ScanSubtasks, "subtasks", cardID)
}

// UpdateSubtaskStatus sets a subtask's status
func (q *queries) UpdateSubtaskStatus(ctx context.Context, id int64, status string) error {
	ctx, cancel := q.writeCtx(ctx)
	defer cancel()

	query := `UPDATE subtasks SET status = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, q.db, query, "subtask", fmt.Sprintf("%d", id), status, id)
}
