package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/web"
)

// annotationNoRepository marks commands that run without opening the database
const annotationNoRepository = "pmtime/no-repository"

// RepositoryOpener opens the repository for a loaded configuration
type RepositoryOpener func(cfg *config.Config) (sqlite.Repository, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	open   RepositoryOpener
	config *config.Config
	repo   sqlite.Repository
	app    *App
}

// NewRootCommand creates the root cobra command with global flags. A nil
// opener uses config.CreateRepository.
func NewRootCommand(open RepositoryOpener) *RootCommand {
	if open == nil {
		open = config.CreateRepository
	}
	root := &RootCommand{open: open}

	root.cmd = &cobra.Command{
		Use:   "pmtime",
		Short: "Work-time tracking for board cards and subtasks",
		Long: `pmtime tracks the time users spend on board cards and their subtasks.

A user runs at most one card timer at a time. Subtask timers run on top of
the card timer for the same card and stop with it. When every subtask of a
card is done, the card moves to review.

EXAMPLES:
  pmtime seed "Checkout page" "Form" "Validation"   # Create a card with two subtasks
  pmtime --user 7 start 1                            # Start tracking card 1
  pmtime --user 7 start 1 2                          # Start tracking subtask 2 of card 1
  pmtime --user 7 active                             # Show running timers
  pmtime stop 1 "Wired the form"                     # Stop entry 1 and its subtask timers
  pmtime total 1 1w                                  # Time on card 1 in the last week
  pmtime subtask-status 2 done                       # Complete a subtask
  pmtime serve --addr :8080                          # Serve the JSON API

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  Config file: ` + config.DefaultConfigPath() + `

  PMTIME_DB_DIR, PMTIME_DB_FILENAME, PMTIME_DB_QUERY_TIMEOUT, PMTIME_DB_WRITE_TIMEOUT
  PMTIME_SERVER_ADDR, PMTIME_GIN_MODE
  PMTIME_APP_TIMEOUT, PMTIME_APP_VERBOSE, PMTIME_DEBUG, PMTIME_LOG_JSON
  PMTIME_USER                                        Acting user for timer commands

TIME FORMATS:
  30m, 2h, 1d, 2w, 3mo, 1y`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the repository afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (default "+config.DefaultConfigPath()+")")
	flags.Int64("user", 0, "Acting user id (overrides PMTIME_USER)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides PMTIME_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides PMTIME_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides PMTIME_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides PMTIME_DB_WRITE_TIMEOUT)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides PMTIME_SERVER_ADDR)")
	flags.String("gin-mode", "", "Gin mode: release, debug or test (overrides PMTIME_GIN_MODE)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides PMTIME_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides PMTIME_APP_VERBOSE)")
	flags.Bool("debug", false, "Enable debug logging (overrides PMTIME_DEBUG)")
	flags.Bool("log-json", false, "Log as JSON (overrides PMTIME_LOG_JSON)")
}

// registryCommand describes a subcommand dispatched through the command registry
type registryCommand struct {
	use   string
	short string
	long  string
	args  cobra.PositionalArgs
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	commands := []registryCommand{
		{use: "start <card-id> [subtask-id]", short: "Start a card or subtask timer", args: cobra.RangeArgs(1, 2),
			long: "Start tracking a card, or a subtask of a card whose timer is already running for you."},
		{use: "stop <entry-id> [description]", short: "Stop a timer", args: cobra.MinimumNArgs(1),
			long: "Stop a running entry. Stopping a card timer also stops your subtask timers on that card."},
		{use: "resume <entry-id>", short: "Start a new timer on the same target as an earlier entry", args: cobra.ExactArgs(1)},
		{use: "active", short: "Show your running timers", args: cobra.NoArgs},
		{use: "history <card-id>", short: "List time entries on a card", args: cobra.ExactArgs(1)},
		{use: "total <card-id> [time|user=<id>]", short: "Show recorded time on a card", args: cobra.RangeArgs(1, 2),
			long: `Sum the minutes of stopped entries on a card.

Examples:
  pmtime total 3          # All users, all time
  pmtime total 3 2w       # Entries started in the last two weeks
  pmtime total 3 user=7   # One user's time`},
		{use: "describe <entry-id> [description]", short: "Set or clear the description of a stopped entry", args: cobra.MinimumNArgs(1)},
		{use: "delete <entry-id>", short: "Delete a stopped entry", args: cobra.ExactArgs(1)},
		{use: "export <card-id> [format=csv]", short: "Export a card's entries", args: cobra.RangeArgs(1, 2)},
		{use: "subtask-status <subtask-id> <todo|in_progress|done>", short: "Change a subtask's status", args: cobra.ExactArgs(2),
			long: "Change a subtask's status. Completing the last open subtask moves the card to review."},
		{use: "seed <card title> [subtask title]...", short: "Create a card with subtasks", args: cobra.MinimumNArgs(1)},
	}

	for _, c := range commands {
		r.cmd.AddCommand(r.newRegistryCommand(c))
	}

	r.cmd.AddCommand(r.newServeCommand(), r.newConfigCommand())
}

func (r *RootCommand) newRegistryCommand(c registryCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.use,
		Short: c.short,
		Long:  c.long,
		Args:  c.args,
	}
	name := cmd.Name()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		ctx = logging.WithRequestID(ctx, logging.NewRequestID())
		return r.app.registry.Execute(ctx, name, args)
	}
	return cmd
}

func (r *RootCommand) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := web.NewServer(r.app.services, r.app.validator, r.app.metrics, r.config.Server.GinMode)
			return server.Run(ctx, r.config.Server.Addr)
		},
	}
}

func (r *RootCommand) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "config",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoRepository: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(r.config)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// setup loads configuration, initializes logging and opens the repository
func (r *RootCommand) setup(cmd *cobra.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	r.config = cfg
	initLogging(cfg)

	if cmd.Annotations[annotationNoRepository] == "true" {
		return nil
	}

	repo, err := r.open(cfg)
	if err != nil {
		return err
	}
	r.repo = repo

	r.app = NewApp(repo, cfg)
	r.app.SetOutput(cmd.OutOrStdout())
	r.app.SetUser(r.getUserFromFlags())
	logging.Debugf("opened database %s", cfg.GetDatabasePath())
	return nil
}

func (r *RootCommand) close() {
	if r.repo == nil {
		return
	}
	if err := r.repo.Close(); err != nil {
		logging.Logger().Warn("failed to close database", logging.KeyError, err)
	}
	r.repo = nil
}

// loadConfig runs the configuration cascade with flag overrides applied last
func (r *RootCommand) loadConfig() (*config.Config, error) {
	flags := r.cmd.PersistentFlags()

	loader := config.NewLoader()
	if path, _ := flags.GetString("config"); path != "" {
		loader = config.NewLoaderWithFile(path)
	}
	return loader.LoadWithOverrides(r.getConfigFromFlags())
}

// getConfigFromFlags collects the flags the user set explicitly
func (r *RootCommand) getConfigFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		overrides.DBWriteTimeout = &v
	}
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.ServerAddr = &v
	}
	if flags.Changed("gin-mode") {
		v, _ := flags.GetString("gin-mode")
		overrides.GinMode = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if flags.Changed("debug") {
		v, _ := flags.GetBool("debug")
		overrides.Debug = &v
	}
	if flags.Changed("log-json") {
		v, _ := flags.GetBool("log-json")
		overrides.LogJSON = &v
	}

	return overrides
}

// getUserFromFlags returns --user, falling back to PMTIME_USER
func (r *RootCommand) getUserFromFlags() int64 {
	flags := r.cmd.PersistentFlags()
	if flags.Changed("user") {
		v, _ := flags.GetInt64("user")
		return v
	}
	if v, err := strconv.ParseInt(os.Getenv("PMTIME_USER"), 10, 64); err == nil {
		return v
	}
	return 0
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

func initLogging(cfg *config.Config) {
	level := slog.LevelWarn
	switch {
	case cfg.Application.Debug || logging.DebugEnabled():
		level = slog.LevelDebug
	case cfg.Application.Verbose:
		level = slog.LevelInfo
	}
	logging.Init(logging.Config{
		Level:  level,
		JSON:   cfg.Application.LogJSON,
		Output: os.Stderr,
	})
}
