package cli

import (
	"context"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
)

// TotalCommand handles the total command
type TotalCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewTotalCommand creates a new total command handler
func NewTotalCommand(app *App) *TotalCommand {
	return &TotalCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the total command: total <card-id> [time] [user=<id>].
// A time shorthand limits the sum to entries started within that span.
func (c *TotalCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.NewInvalidInputError("command", "total", "usage: pmtime total <card-id> [time|user=<id>]")
	}
	cardID, err := parseID("card_id", args[0])
	if err != nil {
		return err
	}

	durations := c.app.services.DurationService
	var (
		minutes int64
		scope   string
	)
	switch {
	case len(args) == 1:
		minutes, err = durations.TotalMinutes(ctx, cardID)
	case strings.HasPrefix(args[1], "user="):
		var userID int64
		userID, err = parseID("user", strings.TrimPrefix(args[1], "user="))
		if err != nil {
			return err
		}
		scope = " by user " + itoa(userID)
		minutes, err = durations.TotalMinutesForUser(ctx, cardID, userID)
	default:
		span, perr := parseTimeShorthand(args[1])
		if perr != nil {
			return errors.NewInvalidInputError("time", args[1], "use 30m, 2h, 1d, 2w, 3mo or 1y")
		}
		now := timeNow()
		scope = " in the last " + args[1]
		minutes, err = durations.TotalMinutesInWindow(ctx, cardID, services.TimeRange{Start: now.Add(-span), End: now})
	}
	if err != nil {
		return c.errorHandler.Handle("total time", err)
	}

	c.app.printf("Card %d%s: %s\n", cardID, scope, durations.FormatMinutes(minutes))
	return nil
}
