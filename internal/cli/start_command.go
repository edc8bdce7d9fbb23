package cli

import (
	"context"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// StartCommand handles the start command
type StartCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the start command: start <card-id> [subtask-id]
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.NewInvalidInputError("command", "start", "usage: pmtime start <card-id> [subtask-id]")
	}

	req := validation.StartTimerRequest{}
	cardID, err := parseID("card_id", args[0])
	if err != nil {
		return err
	}
	req.CardID = cardID
	if len(args) == 2 {
		subtaskID, err := parseID("subtask_id", args[1])
		if err != nil {
			return err
		}
		req.SubtaskID = &subtaskID
	}

	userID, err := c.app.actingUser()
	if err != nil {
		return err
	}
	if err := c.app.entries.ValidateStart(&req); err != nil {
		return c.errorHandler.Handle("start timer", err)
	}

	entry, err := c.app.services.TimerService.RequestStart(ctx, services.StartRequest{
		UserID:    userID,
		CardID:    req.CardID,
		SubtaskID: req.SubtaskID,
	})
	if err != nil {
		return c.errorHandler.Handle("start timer", err)
	}

	c.printStarted(entry)
	return nil
}

func (c *StartCommand) printStarted(entry *domain.TimeEntry) {
	if entry.IsCardClass() {
		c.app.printf("Started card timer #%d on card %d\n", entry.ID, entry.CardID)
		return
	}
	c.app.printf("Started subtask timer #%d on subtask %d (card %d)\n", entry.ID, *entry.SubtaskID, entry.CardID)
}
