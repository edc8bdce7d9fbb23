package cli

import (
	"context"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
)

// ActiveCommand handles the active command
type ActiveCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewActiveCommand creates a new active command handler
func NewActiveCommand(app *App) *ActiveCommand {
	return &ActiveCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the active command
func (c *ActiveCommand) Execute(ctx context.Context, args []string) error {
	userID, err := c.app.actingUser()
	if err != nil {
		return err
	}

	open, err := c.app.services.TimerService.OpenEntries(ctx, userID)
	if err != nil {
		return c.errorHandler.Handle("list active timers", err)
	}

	if open.Count() == 0 {
		c.app.println("No timers running")
		return nil
	}

	if open.CardEntry != nil {
		c.printEntry("Card", open.CardEntry.CardID, open.CardEntry)
	}
	for _, e := range open.SubtaskEntries {
		c.printEntry("  Subtask", *e.SubtaskID, e)
	}
	return nil
}

func (c *ActiveCommand) printEntry(label string, id int64, e *domain.TimeEntry) {
	durations := c.app.services.DurationService
	c.app.printf("%s %d: entry #%d, %s (started %s)\n",
		label, id, e.ID, durations.FormatElapsed(e), durations.StartedAgo(e))
}
