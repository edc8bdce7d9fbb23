package cli

import (
	"context"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/domain"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// SeedCommand creates a card with subtasks for local use and demos.
// Cards and subtasks are otherwise owned by the board application.
type SeedCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewSeedCommand creates a new seed command handler
func NewSeedCommand(app *App) *SeedCommand {
	return &SeedCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the seed command: seed <card title> [subtask title]...
// Titles containing spaces must be quoted.
func (c *SeedCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewInvalidInputError("command", "seed", "usage: pmtime seed <card title> [subtask title]...")
	}

	card := &sqlite.Card{Title: strings.TrimSpace(args[0]), Status: string(domain.CardStatusTodo)}
	var subtaskIDs []string

	err := c.app.repo.RunInTx(ctx, func(q sqlite.Queries) error {
		if err := q.CreateCard(ctx, card); err != nil {
			return err
		}
		for _, title := range args[1:] {
			s := &sqlite.Subtask{CardID: card.ID, Title: strings.TrimSpace(title), Status: string(domain.SubtaskStatusTodo)}
			if err := q.CreateSubtask(ctx, s); err != nil {
				return err
			}
			subtaskIDs = append(subtaskIDs, itoa(s.ID))
		}
		return nil
	})
	if err != nil {
		return c.errorHandler.Handle("seed card", err)
	}

	if len(subtaskIDs) == 0 {
		c.app.printf("Created card %d\n", card.ID)
		return nil
	}
	c.app.printf("Created card %d with subtasks %s\n", card.ID, strings.Join(subtaskIDs, ", "))
	return nil
}
