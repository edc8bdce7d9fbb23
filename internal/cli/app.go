package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/errors"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/services"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	repo      sqlite.Repository
	services  *services.ServiceContainer
	validator *validation.Validator
	entries   *validation.TimeEntryValidator
	metrics   *metrics.Metrics
	config    *config.Config
	registry  *CommandRegistry
	out       io.Writer

	// userID is the acting user for timer commands
	userID int64
}

// NewApp creates a new CLI application over an open repository
func NewApp(repo sqlite.Repository, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	m := metrics.New()
	v := validation.NewValidatorWithConfig(cfg)

	app := &App{
		repo:      repo,
		services:  services.NewServiceContainer(repo, m, func() time.Time { return timeNow() }),
		validator: v,
		entries:   validation.NewTimeEntryValidator(v),
		metrics:   m,
		config:    cfg,
		out:       os.Stdout,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// SetUser sets the acting user for timer commands
func (a *App) SetUser(userID int64) {
	a.userID = userID
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "", a.registry.GetUsage())
	}

	commandName := args[0]
	commandArgs := args[1:]

	return a.registry.Execute(ctx, commandName, commandArgs)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

// actingUser returns the user set with --user, or an error when none was given
func (a *App) actingUser() (int64, error) {
	if err := a.entries.ValidateUserID(a.userID); err != nil {
		return 0, errors.NewInvalidInputError("user", a.userID, "set the acting user with --user or PMTIME_USER")
	}
	return a.userID, nil
}

// parseID parses a positive integer id argument
func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError(field, raw, "must be a positive integer")
	}
	return id, nil
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	unit := matches[2]
	var duration time.Duration

	switch unit {
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "w":
		duration = time.Duration(value) * 7 * 24 * time.Hour
	case "mo":
		duration = time.Duration(value) * 30 * 24 * time.Hour
	case "y":
		duration = time.Duration(value) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid time unit: %s", unit)
	}

	return duration, nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
