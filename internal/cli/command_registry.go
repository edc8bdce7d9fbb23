package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("start", NewStartCommand(app))
	registry.Register("stop", NewStopCommand(app))
	registry.Register("resume", NewResumeCommand(app))
	registry.Register("active", NewActiveCommand(app))
	registry.Register("history", NewHistoryCommand(app))
	registry.Register("total", NewTotalCommand(app))
	registry.Register("describe", NewDescribeCommand(app))
	registry.Register("delete", NewDeleteCommand(app))
	registry.Register("export", NewExportCommand(app))
	registry.Register("subtask-status", NewSubtaskStatusCommand(app))
	registry.Register("seed", NewSeedCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// Names returns the registered command names in alphabetical order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return "usage: pmtime <" + strings.Join(r.Names(), "|") + "> [args]"
}
