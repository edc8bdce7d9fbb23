package services

import (
	"context"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// completionWatcherImpl implements the CompletionWatcher interface
type completionWatcherImpl struct {
	repo    sqlite.Repository
	mapper  *domain.Mapper
	metrics *metrics.Metrics
}

// NewCompletionWatcher creates a new CompletionWatcher instance
func NewCompletionWatcher(repo sqlite.Repository, m *metrics.Metrics) CompletionWatcher {
	return &completionWatcherImpl{
		repo:    repo,
		mapper:  domain.NewMapper(),
		metrics: m,
	}
}

// OnSubtaskStatusChanged reacts to a subtask status that has already been
// written. It reports whether the owning card moved to review.
func (w *completionWatcherImpl) OnSubtaskStatusChanged(ctx context.Context, subtaskID int64, newStatus domain.SubtaskStatus) (bool, error) {
	if !newStatus.IsValid() {
		return false, errors.NewInvalidInputError("status", newStatus, "unknown subtask status")
	}

	var changed bool
	err := w.repo.RunInTx(ctx, func(q sqlite.Queries) error {
		subtask, err := q.GetSubtask(ctx, subtaskID)
		if err != nil {
			return err
		}
		changed, _, err = w.evaluate(ctx, q, subtask.CardID, newStatus)
		return err
	})
	if err != nil {
		logFailure(ctx, "watch subtask status", err, logging.KeySubtaskID, subtaskID)
		return false, err
	}
	w.recordChange(ctx, subtaskID, changed)
	return changed, nil
}

// SetSubtaskStatus writes the subtask status and runs the watcher in the same
// transaction. Running timers on the subtask are left untouched.
func (w *completionWatcherImpl) SetSubtaskStatus(ctx context.Context, subtaskID int64, status domain.SubtaskStatus) (*WatchResult, error) {
	if !status.IsValid() {
		return nil, errors.NewInvalidInputError("status", status, "unknown subtask status")
	}

	result := &WatchResult{}
	err := w.repo.RunInTx(ctx, func(q sqlite.Queries) error {
		if err := q.UpdateSubtaskStatus(ctx, subtaskID, string(status)); err != nil {
			return err
		}
		subtask, err := q.GetSubtask(ctx, subtaskID)
		if err != nil {
			return err
		}
		result.Subtask = w.mapper.Subtask.FromDatabase(*subtask)

		result.Changed, result.CardStatus, err = w.evaluate(ctx, q, subtask.CardID, status)
		return err
	})
	if err != nil {
		logFailure(ctx, "set subtask status", err, logging.KeySubtaskID, subtaskID)
		return nil, err
	}
	w.recordChange(ctx, subtaskID, result.Changed)
	return result, nil
}

// evaluate moves the card to review when status is done, the card has at
// least one subtask, every subtask is done, and the card is not already in
// review or done. It never moves a card backwards.
func (w *completionWatcherImpl) evaluate(ctx context.Context, q sqlite.Queries, cardID int64, status domain.SubtaskStatus) (bool, domain.CardStatus, error) {
	dbCard, err := q.GetCard(ctx, cardID)
	if err != nil {
		return false, "", err
	}
	card := w.mapper.Card.FromDatabase(*dbCard)

	if status != domain.SubtaskStatusDone {
		return false, card.Status, nil
	}
	if card.Status == domain.CardStatusReview || card.Status == domain.CardStatusDone {
		return false, card.Status, nil
	}

	dbSubtasks, err := q.ListSubtasks(ctx, cardID)
	if err != nil {
		return false, card.Status, err
	}
	subtasks := w.mapper.Subtask.FromDatabaseSlice(dbSubtasks)
	if !allDone(subtasks) {
		return false, card.Status, nil
	}

	if err := q.UpdateCardStatus(ctx, cardID, string(domain.CardStatusReview)); err != nil {
		return false, card.Status, err
	}
	return true, domain.CardStatusReview, nil
}

func allDone(subtasks []domain.Subtask) bool {
	if len(subtasks) == 0 {
		return false
	}
	for _, s := range subtasks {
		if !s.IsDone() {
			return false
		}
	}
	return true
}

func (w *completionWatcherImpl) recordChange(ctx context.Context, subtaskID int64, changed bool) {
	if !changed {
		return
	}
	w.metrics.RecordMovedToReview()
	logging.InfoContext(ctx, "card moved to review", logging.KeySubtaskID, subtaskID)
}
