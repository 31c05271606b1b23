package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/booking"
	"github.com/javiermolinar/slotbook/internal/config"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/db"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/snapshot"
	"github.com/javiermolinar/slotbook/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *config.Config
	configPath string
	root       *cobra.Command

	debug     bool // JSON debug log to tui.DebugLogPath
	noColor   bool
	ephemeral bool // in-memory storage, nothing is written
	demo      bool // seed sample bookings on first visit to today

	now       func() time.Time
	logger    zerolog.Logger
	logCloser io.Closer

	// kv is opened lazily so commands that never touch storage (version,
	// config, slots) work without a database.
	kv      snapshot.KV
	kvClose func() error
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, now: time.Now, logger: zerolog.Nop()}

	a.root = &cobra.Command{
		Use:   "slotbook",
		Short: "Book rooms and practitioners by time slot",
		Long: `slotbook is a day planner for shared resources.

Each column is a room or practitioner and each row a fixed-length slot.
Bookings and blockouts never overlap on the same resource.

Run without a subcommand to open the interactive grid.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		},
	}
	a.root.Flags().String("date", "", "Day to open (YYYY-MM-DD, today, tomorrow, +N, weekday; default: last viewed)")

	pf := a.root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	pf.BoolVar(&a.debug, "debug", false, "Write a debug log to "+tui.DebugLogPath)
	pf.BoolVar(&a.noColor, "no-color", false, "Disable color output")
	pf.BoolVar(&a.ephemeral, "ephemeral", false, "Keep bookings in memory only")
	pf.BoolVar(&a.demo, "demo", false, "Fill today with sample bookings the first time it is opened")

	a.root.AddCommand(
		a.versionCmd(),
		a.configCmd(),
		a.resourcesCmd(),
		a.slotsCmd(),
		a.listCmd(),
		a.freeCmd(),
		a.showCmd(),
		a.bookCmd(),
		a.blockCmd(),
		a.moveCmd(),
		a.cancelCmd(),
		a.datesCmd(),
		a.weekCmd(),
		a.exportCmd(),
	)

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "slotbook %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setup applies the global flags before any command runs.
func (a *App) setup(_ *cobra.Command, _ []string) error {
	if a.noColor {
		DisableColor()
	}
	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}
	if a.config == nil {
		return errors.New("no configuration loaded")
	}

	logger, closer, err := tui.NewDebugLogger(a.debug)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logCloser = closer
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the debug log.
func (a *App) Close() error {
	var errs []error
	if a.kvClose != nil {
		errs = append(errs, a.kvClose())
		a.kvClose = nil
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
		a.logCloser = nil
	}
	return errors.Join(errs...)
}

// storage opens the snapshot store on first use.
func (a *App) storage() (snapshot.KV, error) {
	if a.kv != nil {
		return a.kv, nil
	}
	if a.ephemeral {
		a.kv = snapshot.NewMemoryKV()
		return a.kv, nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	s, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.kv, a.kvClose = s, s.Close
	return a.kv, nil
}

// workspace is everything a command needs to read or change one day.
type workspace struct {
	clock slotclock.Clock
	dir   *resource.Directory
	book  *booking.Book
}

// open builds the engine over storage without opening a day yet.
func (a *App) open() (*workspace, error) {
	clock, err := a.config.Clock()
	if err != nil {
		return nil, err
	}
	dir, err := a.config.ResourceDirectory()
	if err != nil {
		return nil, err
	}
	kv, err := a.storage()
	if err != nil {
		return nil, err
	}

	adapterOpts := []snapshot.Option{snapshot.WithLogger(a.logger)}
	if a.demo {
		today := dateutil.TruncateToDay(a.now())
		adapterOpts = append(adapterOpts, snapshot.WithSeed(booking.DemoSeed(dir, clock, today)))
	}
	book := booking.New(clock, snapshot.NewAdapter(kv, adapterOpts...),
		booking.WithLogger(a.logger),
		booking.WithOperator(a.config.UI.Operator),
		booking.WithStoreOptions(appointment.WithResources(dir.Has)),
	)
	return &workspace{clock: clock, dir: dir, book: book}, nil
}

// openDay builds the engine and opens date.
func (a *App) openDay(ctx context.Context, date time.Time) (*workspace, error) {
	ws, err := a.open()
	if err != nil {
		return nil, err
	}
	if err := ws.book.Open(ctx, date); err != nil {
		return nil, fmt.Errorf("opening %s: %w", dateutil.DateKey(date), err)
	}
	return ws, nil
}

// parseDate resolves a --date flag relative to today.
func (a *App) parseDate(s string) (time.Time, error) {
	d, err := dateutil.ParseRelativeDate(s, a.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}

func (a *App) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ws, err := a.open()
	if err != nil {
		return err
	}

	date := dateutil.TruncateToDay(a.now())
	if flag, _ := cmd.Flags().GetString("date"); flag != "" {
		if date, err = a.parseDate(flag); err != nil {
			return err
		}
	} else if last, ok := ws.book.Adapter().LastViewed(ctx); ok {
		date = last
	}
	if err := ws.book.Open(ctx, date); err != nil {
		return err
	}

	category, err := resource.ParseCategory(a.config.UI.Category)
	if err != nil {
		return err
	}
	return tui.Run(ctx, ws.book, ws.dir,
		tui.WithLogger(a.logger),
		tui.WithTheme(a.config.UI.Theme),
		tui.WithCategory(category),
	)
}
