package cli

import (
	"context"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// StopCommand handles the stop command
type StopCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewStopCommand creates a new stop command handler
func NewStopCommand(app *App) *StopCommand {
	return &StopCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the stop command: stop <entry-id> [description...]
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "stop", "usage: pmtime stop <entry-id> [description]")
	}

	entryID, err := parseID("entry_id", args[0])
	if err != nil {
		return err
	}

	req := validation.StopTimerRequest{}
	if len(args) > 1 {
		text := strings.Join(args[1:], " ")
		req.Description = &text
	}
	if err := c.app.entries.ValidateStop(&req); err != nil {
		return c.errorHandler.Handle("stop timer", err)
	}

	result, err := c.app.services.TimerService.RequestStop(ctx, services.StopRequest{
		EntryID:     entryID,
		Description: req.Description,
	})
	if err != nil {
		return c.errorHandler.Handle("stop timer", err)
	}

	c.printResult(result)
	return nil
}

func (c *StopCommand) printResult(result *services.StopResult) {
	format := c.app.services.DurationService.FormatMinutes
	requested := result.Requested()
	c.app.printf("Stopped %s: %s\n", describeTarget(requested), format(requested.Minutes()))
	for _, e := range result.Closed[1:] {
		c.app.printf("  also stopped %s: %s\n", describeTarget(e), format(e.Minutes()))
	}
}

// describeTarget names an entry by id and what it tracks
func describeTarget(e *domain.TimeEntry) string {
	if e.IsCardClass() {
		return "entry #" + itoa(e.ID) + " (card " + itoa(e.CardID) + ")"
	}
	return "entry #" + itoa(e.ID) + " (subtask " + itoa(*e.SubtaskID) + ")"
}
