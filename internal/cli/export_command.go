package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// ExportCommand writes a card's time entries in a machine-readable format
type ExportCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the export command: export <card-id> [format=csv]
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.NewInvalidInputError("command", "export", "usage: pmtime export <card-id> [format=csv]")
	}
	cardID, err := parseID("card_id", args[0])
	if err != nil {
		return err
	}

	format := "csv"
	if len(args) == 2 {
		if !strings.HasPrefix(args[1], "format=") {
			return errors.NewInvalidInputError("format", args[1], "invalid format option")
		}
		format = strings.TrimPrefix(args[1], "format=")
	}

	switch format {
	case "csv":
		return c.exportCSV(ctx, cardID)
	default:
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}
}

// exportCSV writes one row per entry; running entries have empty end and duration
func (c *ExportCommand) exportCSV(ctx context.Context, cardID int64) error {
	entries, err := c.app.services.TimerService.History(ctx, cardID)
	if err != nil {
		return c.errorHandler.Handle("export entries", err)
	}

	writer := csv.NewWriter(c.app.out)

	header := []string{"ID", "User ID", "Card ID", "Subtask ID", "Start Time", "End Time", "Duration (minutes)", "Description"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		var subtask, end, minutes, description string
		if e.SubtaskID != nil {
			subtask = strconv.FormatInt(*e.SubtaskID, 10)
		}
		if e.EndTime != nil {
			end = e.EndTime.UTC().Format(time.RFC3339)
			minutes = strconv.FormatInt(e.Minutes(), 10)
		}
		if e.Description != nil {
			description = *e.Description
		}

		row := []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.UserID, 10),
			strconv.FormatInt(e.CardID, 10),
			subtask,
			e.StartTime.UTC().Format(time.RFC3339),
			end,
			minutes,
			description,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
