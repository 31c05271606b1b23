package interaction

// Popover is the record detail overlay: PopoverClosed, HoverShown or Pinned.
type Popover interface {
	isPopover()
}

// PopoverClosed shows nothing.
type PopoverClosed struct{}

// HoverShown follows the pointer and closes when it leaves.
type HoverShown struct {
	ID string
}

// Pinned stays open until an outside click or cancel.
type Pinned struct {
	ID string
}

func (PopoverClosed) isPopover() {}
func (HoverShown) isPopover()    {}
func (Pinned) isPopover()        {}

// PopoverID returns the record the popover is showing.
func PopoverID(p Popover) (string, bool) {
	switch p := p.(type) {
	case HoverShown:
		return p.ID, true
	case Pinned:
		return p.ID, true
	default:
		return "", false
	}
}

// Hover shows the record under the pointer. A pinned popover ignores hover.
func Hover(p Popover, id string) Popover {
	if _, pinned := p.(Pinned); pinned {
		return p
	}
	return HoverShown{ID: id}
}

// Leave closes a hover popover.
func Leave(p Popover) Popover {
	if _, hovering := p.(HoverShown); hovering {
		return PopoverClosed{}
	}
	return p
}

// Click pins the clicked record.
func Click(_ Popover, id string) Popover {
	return Pinned{ID: id}
}

// OutsideClick closes any popover.
func OutsideClick(Popover) Popover {
	return PopoverClosed{}
}

// Dismiss closes any popover on the cancel key.
func Dismiss(Popover) Popover {
	return PopoverClosed{}
}
