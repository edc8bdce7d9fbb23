package cli

import (
	"context"
	"fmt"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewHistoryCommand creates a new history command handler
func NewHistoryCommand(app *App) *HistoryCommand {
	return &HistoryCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the history command: history <card-id>
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "history", "usage: pmtime history <card-id>")
	}
	cardID, err := parseID("card_id", args[0])
	if err != nil {
		return err
	}

	entries, err := c.app.services.TimerService.History(ctx, cardID)
	if err != nil {
		return c.errorHandler.Handle("list history", err)
	}

	if len(entries) == 0 {
		c.app.println("No time entries found")
		return nil
	}
	for _, e := range entries {
		c.app.println(c.formatLine(e))
	}
	return nil
}

// formatLine renders one entry as:
// start - end (duration): user N on card|subtask N [description]
func (c *HistoryCommand) formatLine(e *domain.TimeEntry) string {
	layout := c.app.config.Display.TimeFormat
	durations := c.app.services.DurationService

	end := c.app.config.Display.RunningStatus
	length := durations.FormatElapsed(e)
	if !e.IsRunning() {
		end = e.EndTime.Local().Format(layout)
		length = durations.FormatMinutes(e.Minutes())
	}

	target := fmt.Sprintf("card %d", e.CardID)
	if !e.IsCardClass() {
		target = fmt.Sprintf("subtask %d", *e.SubtaskID)
	}

	line := fmt.Sprintf("%s - %s (%s): user %d on %s",
		e.StartTime.Local().Format(layout), end, length, e.UserID, target)
	if e.Description != nil {
		line += " " + *e.Description
	}
	return line
}
