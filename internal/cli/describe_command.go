package cli

import (
	"context"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// DescribeCommand sets or clears the description of a stopped entry
type DescribeCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDescribeCommand creates a new describe command handler
func NewDescribeCommand(app *App) *DescribeCommand {
	return &DescribeCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the describe command: describe <entry-id> [description...].
// Without a description the current one is cleared.
func (c *DescribeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "describe", "usage: pmtime describe <entry-id> [description]")
	}
	entryID, err := parseID("entry_id", args[0])
	if err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	req := validation.EditDescriptionRequest{Description: &text}
	if err := c.app.entries.ValidateEdit(&req); err != nil {
		return c.errorHandler.Handle("edit description", err)
	}

	entry, err := c.app.services.TimerService.EditDescription(ctx, entryID, req.Description)
	if err != nil {
		return c.errorHandler.Handle("edit description", err)
	}

	if entry.Description == nil {
		c.app.printf("Cleared description of entry #%d\n", entry.ID)
		return nil
	}
	c.app.printf("Updated entry #%d: %s\n", entry.ID, *entry.Description)
	return nil
}
