package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// timerServiceImpl implements the TimerService interface
type timerServiceImpl struct {
	repo    sqlite.Repository
	mapper  *domain.Mapper
	metrics *metrics.Metrics
	locks   *userLocks
	now     Clock
}

// NewTimerService creates a new TimerService instance
func NewTimerService(repo sqlite.Repository, m *metrics.Metrics, clock Clock) TimerService {
	if clock == nil {
		clock = time.Now
	}
	return &timerServiceImpl{
		repo:    repo,
		mapper:  domain.NewMapper(),
		metrics: m,
		locks:   newUserLocks(),
		now:     clock,
	}
}

// RequestStart opens a timer if the user's running timers allow it.
// The rule check and the insert run under the user's lock in one transaction;
// the open-entry unique indexes catch writers outside this process.
func (t *timerServiceImpl) RequestStart(ctx context.Context, req StartRequest) (*domain.TimeEntry, error) {
	if req.UserID <= 0 {
		return nil, errors.NewInvalidInputError("user_id", req.UserID, "must be positive")
	}
	if req.CardID <= 0 {
		return nil, errors.NewInvalidInputError("card_id", req.CardID, "must be positive")
	}

	unlock := t.locks.Lock(req.UserID)
	defer unlock()

	var created sqlite.TimeEntry
	err := t.repo.RunInTx(ctx, func(q sqlite.Queries) error {
		if err := t.checkTarget(ctx, q, req); err != nil {
			return err
		}

		open, err := q.FindOpenFor(ctx, req.UserID)
		if err != nil {
			return err
		}
		if err := CheckStart(t.mapper.TimeEntry.FromOpenEntries(open), req, req.CardID); err != nil {
			return err
		}

		created = sqlite.TimeEntry{
			UserID:    req.UserID,
			CardID:    req.CardID,
			SubtaskID: req.SubtaskID,
			StartTime: t.now().UTC().Truncate(time.Second),
		}
		return q.OpenTimeEntry(ctx, &created)
	})
	if err != nil {
		t.metrics.RecordStart(req.IsSubtask(), errors.GetErrorCode(err))
		logFailure(ctx, "start timer", err, logging.KeyUserID, req.UserID, logging.KeyCardID, req.CardID)
		return nil, err
	}

	t.metrics.RecordStart(req.IsSubtask(), "started")
	entry := t.mapper.TimeEntry.FromDatabase(created)
	args := []any{logging.KeyUserID, entry.UserID, logging.KeyCardID, entry.CardID, logging.KeyEntryID, entry.ID}
	if entry.SubtaskID != nil {
		args = append(args, logging.KeySubtaskID, *entry.SubtaskID)
	}
	logging.InfoContext(ctx, "timer started", args...)
	return &entry, nil
}

// checkTarget verifies the card exists and that a requested subtask belongs to it.
func (t *timerServiceImpl) checkTarget(ctx context.Context, q sqlite.Queries, req StartRequest) error {
	if !req.IsSubtask() {
		_, err := q.GetCard(ctx, req.CardID)
		return err
	}

	subtask, err := q.GetSubtask(ctx, *req.SubtaskID)
	if err != nil {
		return err
	}
	if subtask.CardID != req.CardID {
		return errors.NewInvalidInputError("subtask_id", *req.SubtaskID,
			fmt.Sprintf("subtask belongs to card %d, not card %d", subtask.CardID, req.CardID))
	}
	return nil
}

// RequestStop closes an entry. Stopping a card timer also closes the same
// user's running subtask timers under that card, all with one end time.
// Any failure rolls back every close.
func (t *timerServiceImpl) RequestStop(ctx context.Context, req StopRequest) (*StopResult, error) {
	target, err := t.repo.GetTimeEntry(ctx, req.EntryID)
	if err != nil {
		logFailure(ctx, "stop timer", err, logging.KeyEntryID, req.EntryID)
		return nil, err
	}

	unlock := t.locks.Lock(target.UserID)
	defer unlock()

	end := t.now()
	var closed []*sqlite.TimeEntry
	err = t.repo.RunInTx(ctx, func(q sqlite.Queries) error {
		entry, err := q.CloseTimeEntry(ctx, req.EntryID, end, req.Description)
		if err != nil {
			return err
		}
		closed = append(closed, entry)

		if entry.SubtaskID != nil {
			return nil
		}

		children, err := q.ListOpenSubtaskEntries(ctx, entry.UserID, entry.CardID)
		if err != nil {
			return err
		}
		for _, child := range children {
			c, err := q.CloseTimeEntry(ctx, child.ID, end, nil)
			if err != nil {
				return err
			}
			closed = append(closed, c)
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, "stop timer", err, logging.KeyEntryID, req.EntryID, logging.KeyUserID, target.UserID)
		return nil, err
	}

	result := &StopResult{Closed: make([]*domain.TimeEntry, len(closed))}
	for i, c := range closed {
		e := t.mapper.TimeEntry.FromDatabase(*c)
		result.Closed[i] = &e
		t.metrics.RecordStop(e.SubtaskID != nil)
	}
	t.metrics.RecordCascade(len(closed) - 1)

	logging.InfoContext(ctx, "timer stopped",
		logging.KeyUserID, target.UserID,
		logging.KeyEntryID, req.EntryID,
		logging.KeyCount, len(closed))
	return result, nil
}

// EditDescription replaces the description of a closed entry
func (t *timerServiceImpl) EditDescription(ctx context.Context, entryID int64, description *string) (*domain.TimeEntry, error) {
	updated, err := t.repo.UpdateDescription(ctx, entryID, description)
	if err != nil {
		logFailure(ctx, "edit description", err, logging.KeyEntryID, entryID)
		return nil, err
	}
	entry := t.mapper.TimeEntry.FromDatabase(*updated)
	return &entry, nil
}

// DeleteEntry removes a closed entry
func (t *timerServiceImpl) DeleteEntry(ctx context.Context, entryID int64) error {
	if err := t.repo.DeleteTimeEntry(ctx, entryID); err != nil {
		logFailure(ctx, "delete entry", err, logging.KeyEntryID, entryID)
		return err
	}
	logging.InfoContext(ctx, "time entry deleted", logging.KeyEntryID, entryID)
	return nil
}

// OpenEntries returns the user's running timers
func (t *timerServiceImpl) OpenEntries(ctx context.Context, userID int64) (domain.OpenEntries, error) {
	open, err := t.repo.FindOpenFor(ctx, userID)
	if err != nil {
		return domain.OpenEntries{}, err
	}
	return t.mapper.TimeEntry.FromOpenEntries(open), nil
}

// History returns every entry recorded against a card, ordered by start time
func (t *timerServiceImpl) History(ctx context.Context, cardID int64) ([]*domain.TimeEntry, error) {
	entries, err := t.repo.ListFor(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return t.mapper.TimeEntry.FromDatabaseSlice(entries), nil
}

// logFailure records errors worth diagnosing. Stale client views log at warn,
// everything else at error; user-correctable errors are not logged.
func logFailure(ctx context.Context, op string, err error, args ...any) {
	if !errors.ShouldLogError(err) {
		return
	}
	args = append([]any{logging.KeyOperation, op, logging.KeyError, err}, args...)
	if errors.IsStaleView(err) {
		logging.WarnContext(ctx, "stale request", args...)
		return
	}
	logging.ErrorContext(ctx, "operation failed", args...)
}
