package cli

import (
	"context"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the delete command: delete <entry-id>. Running entries must be stopped first.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: pmtime delete <entry-id>")
	}
	entryID, err := parseID("entry_id", args[0])
	if err != nil {
		return err
	}
	if err := c.app.entries.ValidateEntryID(entryID); err != nil {
		return c.errorHandler.Handle("delete entry", err)
	}

	if err := c.app.services.TimerService.DeleteEntry(ctx, entryID); err != nil {
		return c.errorHandler.Handle("delete entry", err)
	}

	c.app.printf("Deleted entry #%d\n", entryID)
	return nil
}
