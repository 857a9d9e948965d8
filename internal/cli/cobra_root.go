package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"discipline-dashboard/internal/api"
	"discipline-dashboard/internal/config"
	"discipline-dashboard/internal/logging"
)

// Connector opens the API for a loaded configuration. The returned close
// function releases the stores.
type Connector func(cfg *config.Config, logger *slog.Logger) (api.API, func() error, error)

// ConnectStores is the production Connector: it opens the configured stores
func ConnectStores(cfg *config.Config, logger *slog.Logger) (api.API, func() error, error) {
	stores, err := config.CreateStores(cfg)
	if err != nil {
		return nil, nil, err
	}
	return api.NewFromStores(stores, cfg, logger), stores.Close, nil
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	connect    Connector
	appOptions []AppOption
	configFile string

	config  *config.Config
	app     *App
	closers []func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(connect Connector, opts ...AppOption) *RootCommand {
	root := &RootCommand{
		connect:    connect,
		appOptions: opts,
	}

	root.cmd = &cobra.Command{
		Use:   "dash",
		Short: "A terminal dashboard with a task checklist and a Pomodoro timer",
		Long: `Discipline Dashboard (dash) combines a task checklist with a Pomodoro
countdown. Every completed session is appended to a weekly log.

EXAMPLES:
  dash                                     # Open the dashboard
  dash timer 45                            # Run a 45 minute session without the dashboard
  dash tasks add "Review pull requests"    # Add a task to the checklist
  dash summary --weeks 4                   # Sessions per ISO week
  dash log --format csv > sessions.csv     # Export the session log

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  Config file: $DASH_CONFIG, or config.yaml in the storage directory

  Storage:
    DASH_DIR                               Storage directory (default: ~/.dash)
    DASH_TASK_FILE                         Task file (default: tasks.json)
    DASH_LOG_FILE                          Session log (default: pomodoro_log.csv)
    DASH_LOG_BACKEND                       csv or sqlite (default: csv)
    DASH_DB_FILE                           SQLite file (default: dash.db)

  Timer and display:
    DASH_TIMER_PRESETS                     Preset minutes (default: 45,90)
    DASH_WATCH                             Reload tasks on file change (default: true)
    DASH_SUMMARY_MODE                      count or minutes (default: count)
    DASH_HISTORY_WEEKS                     Weeks shown by summary (default: 4)
    DASH_VERBOSE                           Log to the storage directory (default: false)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.teardown()
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.app.Run(cmd.Context(), "dashboard", args)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if err != nil {
		// PersistentPostRunE is skipped when a command fails
		r.teardown()
	}
	return err
}

// SetArgs overrides the command line arguments
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects cobra's own output (help, usage)
func (r *RootCommand) SetOutput(out, errOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// Config returns the configuration loaded for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "Config file (overrides DASH_CONFIG)")

	// Storage configuration
	flags.String("dir", "", "Storage directory (overrides DASH_DIR)")
	flags.String("task-file", "", "Task file (overrides DASH_TASK_FILE)")
	flags.String("log-file", "", "Session log file (overrides DASH_LOG_FILE)")
	flags.String("log-backend", "", "Session log backend: csv or sqlite (overrides DASH_LOG_BACKEND)")
	flags.String("db-file", "", "SQLite file (overrides DASH_DB_FILE)")
	flags.Duration("write-timeout", 0, "Session log write timeout (overrides DASH_WRITE_TIMEOUT)")

	// Timer configuration
	flags.IntSlice("presets", nil, "Preset session minutes (overrides DASH_TIMER_PRESETS)")
	flags.Duration("tick", 0, "Timer tick interval (overrides DASH_TIMER_TICK)")

	// Watch configuration
	flags.Bool("watch", true, "Reload tasks when the task file changes (overrides DASH_WATCH)")
	flags.Duration("watch-interval", 0, "Task file polling interval (overrides DASH_WATCH_INTERVAL)")

	// Display configuration
	flags.String("summary-mode", "", "Summary headline: count or minutes (overrides DASH_SUMMARY_MODE)")
	flags.Int("history-weeks", 0, "Weeks shown by summary (overrides DASH_HISTORY_WEEKS)")
	flags.Bool("no-color", false, "Disable colored output (overrides DASH_NO_COLOR)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Application timeout (overrides DASH_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Write a debug log to the storage directory (overrides DASH_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the dashboard: task checklist, countdown and weekly summary.

Keys:
  1, 2        start the first or second preset
  p           pause or resume
  r           reset without logging
  space       check or uncheck the selected task
  q           quit (a running session is discarded)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Run(cmd.Context(), "dashboard", args)
		},
	}

	timerCmd := &cobra.Command{
		Use:   "timer [minutes]",
		Short: "Run one session without the dashboard",
		Long: `Count down one session in the terminal and log it when it completes.
Without minutes, pick one of the presets. Ctrl-C cancels without logging.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// sessions outlast the application timeout
			return r.app.Run(cmd.Context(), "timer", args)
		},
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the task checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runWithTimeout(cmd, "tasks", args)
		},
	}
	tasksCmd.AddCommand(
		&cobra.Command{
			Use:   "add <text>",
			Short: "Add a task",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.runWithTimeout(cmd, "tasks add", args)
			},
		},
		&cobra.Command{
			Use:   "remove <number>",
			Short: "Remove a task by its number in the list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.runWithTimeout(cmd, "tasks remove", args)
			},
		},
	)

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default task file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.app.timeout())
			defer cancel()

			tasks := NewTasksCommand(r.app)
			tasks.Force = force
			return tasks.Init(ctx, args)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing task file")
	tasksCmd.AddCommand(initCmd)

	var weeks int
	var mode string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show logged sessions per ISO week",
		Long: `Show the number of sessions and minutes logged per ISO week, newest first.

Examples:
  dash summary                  # Current week plus the configured history
  dash summary --weeks 1        # Current week only
  dash summary --mode minutes   # Headline minutes instead of sessions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.app.timeout())
			defer cancel()

			summary := NewSummaryCommand(r.app)
			summary.Weeks = weeks
			summary.Mode = mode
			return summary.Execute(ctx, args)
		},
	}
	summaryCmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks to show (default: configured history)")
	summaryCmd.Flags().StringVar(&mode, "mode", "", "Headline total: count or minutes")

	var format string
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "List or export logged sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.app.timeout())
			defer cancel()

			logCommand := NewLogCommand(r.app)
			logCommand.Format = format
			return logCommand.Execute(ctx, args)
		},
	}
	logCmd.Flags().StringVar(&format, "format", LogFormatTable, "Output format: table or csv")

	r.cmd.AddCommand(
		dashboardCmd,
		timerCmd,
		tasksCmd,
		summaryCmd,
		logCmd,
	)
}

func (r *RootCommand) runWithTimeout(cmd *cobra.Command, name string, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.app.timeout())
	defer cancel()
	return r.app.Run(ctx, name, args)
}

// setup loads the configuration, opens the log and connects the API
func (r *RootCommand) setup(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if r.configFile != "" {
		loader = loader.WithFile(r.configFile)
	}
	cfg, err := loader.LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	r.config = cfg
	logging.Debugf("config: dir=%s backend=%s presets=%v\n", cfg.Storage.Dir, cfg.Storage.LogBackend, cfg.Timer.Presets)

	if cfg.Display.NoColor {
		color.NoColor = true
	}

	logger := logging.Discard()
	if cfg.Application.Verbose {
		f, err := logging.OpenFile(cfg.Storage.Dir, cfg.Application.LogFile, cfg.DirMode())
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		r.closers = append(r.closers, f.Close)
		logger = logging.New(f, true)
	}

	apiInstance, closeAPI, err := r.connect(cfg, logger)
	if err != nil {
		return err
	}
	if closeAPI != nil {
		r.closers = append(r.closers, closeAPI)
	}

	opts := append([]AppOption{WithLogger(logger)}, r.appOptions...)
	r.app = NewApp(apiInstance, cfg, opts...)
	return nil
}

// teardown closes the stores and the log file in reverse order
func (r *RootCommand) teardown() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// overridesFromFlags collects the flags set on the command line
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}
	integer := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	// Storage overrides
	o.Dir = str("dir")
	o.TaskFile = str("task-file")
	o.LogFile = str("log-file")
	o.LogBackend = str("log-backend")
	o.DBFile = str("db-file")
	o.WriteTimeout = dur("write-timeout")

	// Timer overrides
	if flags.Changed("presets") {
		presets, _ := flags.GetIntSlice("presets")
		o.Presets = &presets
	}
	o.TickInterval = dur("tick")

	// Watch overrides
	o.Watch = boolean("watch")
	o.WatchInterval = dur("watch-interval")

	// Display overrides
	o.SummaryMode = str("summary-mode")
	o.HistoryWeeks = integer("history-weeks")
	o.NoColor = boolean("no-color")

	// Application overrides
	o.Timeout = dur("app-timeout")
	o.Verbose = boolean("verbose")

	return o
}
