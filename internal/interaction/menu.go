package interaction

// BlockoutReasons are the choices offered by the blockout flyout.
var BlockoutReasons = []string{
	"Maintenance",
	"Cleaning",
	"Training",
	"Meeting",
	"Personal",
	"Other",
}

// Target is what a context menu was opened on: a CellTarget or RecordTarget.
type Target interface {
	isTarget()
}

// CellTarget is an empty grid cell.
type CellTarget struct {
	ResourceID string
	Index      int
}

// RecordTarget is an existing appointment or blockout.
type RecordTarget struct {
	ID string
}

func (CellTarget) isTarget()   {}
func (RecordTarget) isTarget() {}

// Action identifies a menu entry.
type Action int

const (
	ActionNewBooking Action = iota
	ActionBlockout
	ActionEdit
	ActionDelete
	ActionPin
)

// MenuItem is one row of the context menu.
type MenuItem struct {
	Action  Action
	Label   string
	Submenu bool
}

// Items returns the entries for target.
func Items(target Target) []MenuItem {
	switch target.(type) {
	case CellTarget:
		return []MenuItem{
			{Action: ActionNewBooking, Label: "New booking"},
			{Action: ActionBlockout, Label: "Block out", Submenu: true},
		}
	case RecordTarget:
		return []MenuItem{
			{Action: ActionEdit, Label: "Edit"},
			{Action: ActionDelete, Label: "Delete"},
			{Action: ActionPin, Label: "Pin details"},
		}
	default:
		return nil
	}
}

// Menu is the context menu: MenuClosed or MenuOpen.
type Menu interface {
	isMenu()
}

// MenuClosed shows nothing.
type MenuClosed struct{}

// MenuOpen is an open menu at Pos. Cursor is the highlighted row.
type MenuOpen struct {
	Pos    Point
	Target Target
	Cursor int
	Flyout *Flyout
}

// Flyout is the open blockout-reason submenu.
type Flyout struct {
	Pos    Point
	Cursor int
}

func (MenuClosed) isMenu() {}
func (MenuOpen) isMenu()   {}

// Choice is what a menu selection asks the caller to do.
type Choice struct {
	Action Action
	Target Target
	Reason string // set for ActionBlockout
}

// OpenMenu opens a menu for target at pos, replacing any open menu.
func OpenMenu(_ Menu, pos Point, target Target) Menu {
	return MenuOpen{Pos: pos, Target: target}
}

// MoveCursor moves the highlight by delta, within the flyout when it is open.
func MoveCursor(m Menu, delta int) Menu {
	open, ok := m.(MenuOpen)
	if !ok {
		return m
	}
	if open.Flyout != nil {
		f := *open.Flyout
		f.Cursor = wrap(f.Cursor+delta, len(BlockoutReasons))
		open.Flyout = &f
		return open
	}
	open.Cursor = wrap(open.Cursor+delta, len(Items(open.Target)))
	return open
}

// OpenFlyout shows the reason submenu beside parent.
func OpenFlyout(m Menu, parent Rect, size Size, viewport Size) Menu {
	open, ok := m.(MenuOpen)
	if !ok {
		return m
	}
	open.Flyout = &Flyout{Pos: PlaceFlyout(parent, size, viewport)}
	return open
}

// CloseFlyout returns to the parent menu.
func CloseFlyout(m Menu) Menu {
	open, ok := m.(MenuOpen)
	if !ok {
		return m
	}
	open.Flyout = nil
	return open
}

// Select activates the item at the cursor. Items with a submenu return no
// choice and leave the menu open; the caller opens the flyout.
func Select(m Menu) (Menu, *Choice) {
	open, ok := m.(MenuOpen)
	if !ok {
		return m, nil
	}
	if open.Flyout != nil {
		return SelectReason(m, BlockoutReasons[open.Flyout.Cursor])
	}
	items := Items(open.Target)
	if open.Cursor < 0 || open.Cursor >= len(items) {
		return MenuClosed{}, nil
	}
	item := items[open.Cursor]
	if item.Submenu {
		return m, nil
	}
	return MenuClosed{}, &Choice{Action: item.Action, Target: open.Target}
}

// SelectReason picks a blockout reason and closes the menu.
func SelectReason(m Menu, reason string) (Menu, *Choice) {
	open, ok := m.(MenuOpen)
	if !ok {
		return m, nil
	}
	return MenuClosed{}, &Choice{Action: ActionBlockout, Target: open.Target, Reason: reason}
}

// MenuOutsideClick closes the menu and its flyout.
func MenuOutsideClick(Menu) Menu {
	return MenuClosed{}
}

// MenuCancel closes the menu and its flyout.
func MenuCancel(Menu) Menu {
	return MenuClosed{}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
