package cli

import (
	"context"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// SubtaskStatusCommand changes a subtask's status and reports the card's resulting status
type SubtaskStatusCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewSubtaskStatusCommand creates a new subtask-status command handler
func NewSubtaskStatusCommand(app *App) *SubtaskStatusCommand {
	return &SubtaskStatusCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the subtask-status command: subtask-status <subtask-id> <todo|in_progress|done>
func (c *SubtaskStatusCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "subtask-status", "usage: pmtime subtask-status <subtask-id> <todo|in_progress|done>")
	}
	subtaskID, err := parseID("subtask_id", args[0])
	if err != nil {
		return err
	}

	req := validation.SubtaskStatusRequest{Status: strings.ToLower(args[1])}
	if err := c.app.entries.ValidateSubtaskStatus(&req); err != nil {
		return c.errorHandler.Handle("update subtask", err)
	}

	result, err := c.app.services.CompletionWatcher.SetSubtaskStatus(ctx, subtaskID, domain.SubtaskStatus(req.Status))
	if err != nil {
		return c.errorHandler.Handle("update subtask", err)
	}

	c.app.printf("Subtask %d is now %s\n", result.Subtask.ID, result.Subtask.Status)
	if result.Changed {
		c.app.printf("All subtasks done: card %d moved to %s\n", result.Subtask.CardID, result.CardStatus)
	}
	return nil
}
