package cli

import (
	"context"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
)

// ResumeCommand starts a new timer on the same card or subtask as an earlier entry
type ResumeCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewResumeCommand creates a new resume command handler
func NewResumeCommand(app *App) *ResumeCommand {
	return &ResumeCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the resume command: resume <entry-id>
func (c *ResumeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "resume", "usage: pmtime resume <entry-id>")
	}

	entryID, err := parseID("entry_id", args[0])
	if err != nil {
		return err
	}
	userID, err := c.app.actingUser()
	if err != nil {
		return err
	}

	previous, err := c.app.repo.GetTimeEntry(ctx, entryID)
	if err != nil {
		return c.errorHandler.Handle("resume timer", err)
	}

	entry, err := c.app.services.TimerService.RequestStart(ctx, services.StartRequest{
		UserID:    userID,
		CardID:    previous.CardID,
		SubtaskID: previous.SubtaskID,
	})
	if err != nil {
		return c.errorHandler.Handle("resume timer", err)
	}

	c.app.printf("Resumed %s\n", describeTarget(entry))
	return nil
}
