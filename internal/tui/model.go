// Package tui provides the terminal user interface for slotbook.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/slotbook/internal/booking"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
	"github.com/javiermolinar/slotbook/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // keyboard move: the cursor carries a record
	ModeDialog
	ModeMenu
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMove:
		return "move"
	case ModeDialog:
		return "dialog"
	case ModeMenu:
		return "menu"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Position is a cursor position in the grid.
type Position struct {
	Col  int // index into the visible resource columns
	Slot int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	ctx    context.Context
	book   *booking.Book
	dir    *resource.Directory
	clock  slotclock.Clock
	logger zerolog.Logger
	now    func() time.Time

	styles *Styles

	// Columns shown: the directory slice for the active category.
	category resource.Category
	columns  []resource.Resource

	cursor Position
	mode   Mode
	scroll int

	// Transient gesture and overlay state
	selection interaction.Selection
	drag      interaction.Drag
	popover   interaction.Popover
	menu      interaction.Menu
	press     *pressInfo

	// Keyboard move
	moveID     string
	moveTarget Position

	dialog *Dialog

	width  int
	height int

	statusMsg  string
	statusWarn bool
	statusTime time.Time
}

// pressInfo remembers where a record was grabbed so that a release without
// motion can be treated as a click.
type pressInfo struct {
	id    string
	cell  Position
	moved bool
}

// Option configures optional model behavior.
type Option func(*Model)

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// WithTheme selects a theme by name or TOML path.
func WithTheme(name string) Option {
	return func(m *Model) {
		t, err := theme.Load(name)
		if err != nil {
			m.logger.Warn().Err(err).Msg("theme fallback to mocha")
			t, _ = theme.Load("mocha")
		}
		m.styles = NewStyles(t)
	}
}

// WithCategory sets the initial resource category.
func WithCategory(c resource.Category) Option {
	return func(m *Model) {
		m.category = c
	}
}

// WithClock overrides the wall clock used for "today" and the now marker.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a TUI model over an opened book.
func New(ctx context.Context, book *booking.Book, dir *resource.Directory, opts ...Option) Model {
	m := Model{
		ctx:       ctx,
		book:      book,
		dir:       dir,
		clock:     book.Clock(),
		logger:    zerolog.Nop(),
		now:       time.Now,
		category:  resource.CategoryRoom,
		selection: interaction.Idle{},
		drag:      interaction.NotDragging{},
		popover:   interaction.PopoverClosed{},
		menu:      interaction.MenuClosed{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.styles == nil {
		t, _ := theme.Load("")
		m.styles = NewStyles(t)
	}
	m.refreshColumns()
	if idx, ok := m.clock.IndexAt(m.now()); ok && m.isToday() {
		m.cursor.Slot = idx
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// refreshColumns re-slices the directory for the active category. If the
// category is empty the other one is shown instead.
func (m *Model) refreshColumns() {
	cols := m.dir.ByCategory(m.category).All()
	if len(cols) == 0 {
		if other := m.dir.ByCategory(m.category.Other()).All(); len(other) > 0 {
			m.category = m.category.Other()
			cols = other
		}
	}
	m.columns = cols
	m.cursor.Col = min(m.cursor.Col, max(len(cols)-1, 0))
}

func (m Model) isToday() bool {
	return dateutil.SameDay(m.book.Date(), m.now())
}

// column returns the resource at visible column col.
func (m Model) column(col int) (resource.Resource, bool) {
	if col < 0 || col >= len(m.columns) {
		return resource.Resource{}, false
	}
	return m.columns[col], true
}

// columnOf returns the visible column of resourceID, or -1.
func (m Model) columnOf(resourceID string) int {
	for i, r := range m.columns {
		if r.ID == resourceID {
			return i
		}
	}
	return -1
}

// Run starts the TUI.
func Run(ctx context.Context, book *booking.Book, dir *resource.Directory, opts ...Option) error {
	model := New(ctx, book, dir, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if ferr := book.Flush(ctx); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
