package services

import (
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// CheckStart decides whether req may open a timer given the user's running
// entries. subtaskCardID is the card owning req.SubtaskID and is ignored for
// card-class requests. It performs no I/O.
//
//   - a user holds at most one card-class timer, on any card
//   - a user holds at most one timer per subtask
//   - a subtask timer needs the same user's card timer on the subtask's card
//
// Running subtask timers grant no exception to the first rule.
func CheckStart(open domain.OpenEntries, req StartRequest, subtaskCardID int64) error {
	if !req.IsSubtask() {
		if open.CardEntry != nil {
			return errors.NewCardConflictError(open.CardEntry.CardID, open.CardEntry.ID)
		}
		return nil
	}

	subtaskID := *req.SubtaskID
	if existing := open.SubtaskEntry(subtaskID); existing != nil {
		return errors.NewSubtaskConflictError(subtaskID, existing.ID)
	}
	if open.CardEntry == nil || open.CardEntry.CardID != subtaskCardID {
		return errors.NewPrerequisiteError(subtaskCardID, subtaskID)
	}
	return nil
}
