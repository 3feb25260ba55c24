package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"todocal/pkg/commands"
	"todocal/pkg/config"
	"todocal/pkg/database"
	"todocal/pkg/tasks"
	"todocal/pkg/ui"
	"todocal/pkg/utils"
)

// Store is what the commands and the TUI need from a backend
type Store interface {
	tasks.TaskStore
	database.Seeder
	Close() error
}

// UIRunner starts the interactive interface
type UIRunner func(ctrl *tasks.Controller, cfg config.Config, styles config.Styles) error

// App carries what a single invocation shares between commands
type App struct {
	v      *viper.Viper
	cfg    config.Config
	styles config.Styles
	store  Store

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	now   func() time.Time
	runUI UIRunner
}

// NewApp creates an App reading from in and writing to out and errOut
func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		v:      viper.New(),
		in:     in,
		out:    out,
		errOut: errOut,
		now:    time.Now,
		runUI:  ui.Run,
	}
}

// OpenStore connects to the configured backend and prepares its schema
func OpenStore(driver, dsn string) (Store, error) {
	if driver == database.DriverMemory {
		return database.NewMemoryStore(), nil
	}

	db, err := database.ConnectDB(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return database.NewStore(db, driver), nil
}

// NewRootCommand builds the todocal command tree over app
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "todocal",
		Short: "A todo list with deadlines and a month calendar",
		Long: `todocal keeps a todo list with optional deadlines, notes and images,
and shows dated tasks on a month calendar.

Run without a command to open the interactive interface.

CONFIGURATION:
  ~/.config/todocal/config.json is created on first run. Every key can be
  overridden with a TODOCAL_ environment variable (TODOCAL_DRIVER,
  TODOCAL_DATABASE, TODOCAL_VERBOSE, ...) and the flags below.
  TODOCAL_DATA_DIR moves the default database file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInteractive()
		},
	}
	root.SetIn(app.in)
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to configuration file")
	flags.String("database", "", "Database path or connection string (overrides TODOCAL_DATABASE)")
	flags.String("driver", "", "Database driver: sqlite3, sqlite, postgres or memory (overrides TODOCAL_DRIVER)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging (overrides TODOCAL_VERBOSE)")

	root.AddCommand(
		newAddCommand(app),
		newExportCommand(app),
		newImportCommand(app),
		newPurgeCommand(app),
	)
	return root
}

// Run executes args and releases the store even when a command fails
func (a *App) Run(args []string) error {
	root := NewRootCommand(a)
	root.SetArgs(args)

	err := root.Execute()
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs the command line against the process streams
func Execute() error {
	return NewApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args[1:])
}

func (a *App) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	for _, name := range []string{"database", "driver", "verbose"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return err
	}

	cfg, styles, err := config.Load(a.v, configPath)
	if err != nil {
		return err
	}
	a.cfg, a.styles = cfg, styles

	if err := utils.InitLogger(cfg.Verbose, cfg.LogDir); err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	utils.Log("Starting %s with driver %s", cmd.Name(), cfg.Driver)

	store, err := OpenStore(cfg.Driver, cfg.Database)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *App) teardown() error {
	defer utils.CloseLogger()
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *App) runInteractive() error {
	if a.cfg.SeedWelcome {
		if _, err := database.SeedWelcome(a.store, a.now()); err != nil {
			return err
		}
	}

	ctrl := tasks.NewController(a.store, tasks.NewDialog(), tasks.Options{
		Now:        a.now,
		TitleWidth: a.cfg.CalendarTitleWidth,
	})
	return a.runUI(ctrl, a.cfg, a.styles)
}

func newAddCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Example: `  todocal add Buy milk
  todocal add "Pay rent" --date 2024-06-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			_, err := commands.AddTask(app.store, cmd.OutOrStdout(), strings.Join(args, " "), date)
			return err
		},
	}
	cmd.Flags().String("date", "", "Deadline (YYYY-MM-DD)")
	return cmd
}

func newExportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export tasks in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("type")
			return commands.ExportFile(app.store, cmd.OutOrStdout(), args[0], format)
		},
	}
	cmd.Flags().String("type", commands.FormatJSON, "Export file type (json, yaml, txt)")
	return cmd
}

func newImportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import tasks from a txt, json or yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.ImportFile(app.store, cmd.OutOrStdout(), args[0])
		},
	}
}

func newPurgeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete tasks, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var filter commands.PurgeFilter
			filter.Done, _ = flags.GetBool("done")
			filter.Undone, _ = flags.GetBool("undone")
			filter.Date, _ = flags.GetString("date")
			yes, _ := flags.GetBool("yes")

			_, err := commands.Purge(app.store, cmd.InOrStdin(), cmd.OutOrStdout(), filter, yes)
			return err
		},
	}
	cmd.Flags().Bool("done", false, "Only completed tasks")
	cmd.Flags().Bool("undone", false, "Only open tasks")
	cmd.Flags().String("date", "", "Only tasks due on this date (YYYY-MM-DD)")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	return cmd
}
