package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slotbook/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle          lipgloss.Style
	DateStyle           lipgloss.Style
	CategoryActiveStyle lipgloss.Style
	CategoryIdleStyle   lipgloss.Style

	ColumnHeaderStyle lipgloss.Style
	TimeStyle         lipgloss.Style
	TimeNowStyle      lipgloss.Style
	EmptyCellStyle    lipgloss.Style
	EmptyHourStyle    lipgloss.Style // empty cell on the hour boundary

	BookingStyle     lipgloss.Style
	BookingAltStyle  lipgloss.Style
	BlockoutStyle    lipgloss.Style
	BlockoutAltStyle lipgloss.Style
	SelectStyle      lipgloss.Style
	PreviewStyle     lipgloss.Style
	PreviewBadStyle  lipgloss.Style
	CursorStyle      lipgloss.Style

	StatusStyle     lipgloss.Style
	StatusWarnStyle lipgloss.Style
	HelpStyle       lipgloss.Style

	BoxStyle         lipgloss.Style // popover, menu, dialog frame
	BoxTitleStyle    lipgloss.Style
	BoxTextStyle     lipgloss.Style
	BoxMutedStyle    lipgloss.Style
	BoxSelectedStyle lipgloss.Style
	BoxErrorStyle    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	cell := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)
	box := lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text)

	return &Styles{
		palette: p,

		TitleStyle:          lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Bg),
		DateStyle:           cell.Bold(true),
		CategoryActiveStyle: lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Padding(0, 1),
		CategoryIdleStyle:   cell.Foreground(p.FgMuted).Padding(0, 1),

		ColumnHeaderStyle: cell.Bold(true).Foreground(p.Accent),
		TimeStyle:         cell.Foreground(p.FgMuted),
		TimeNowStyle:      cell.Foreground(p.Current).Bold(true),
		EmptyCellStyle:    cell,
		EmptyHourStyle:    lipgloss.NewStyle().Background(p.Bg).Foreground(p.BgHighlight),

		BookingStyle:     lipgloss.NewStyle().Background(p.BookingBg).Foreground(p.TextOnBooking),
		BookingAltStyle:  lipgloss.NewStyle().Background(p.BookingBgAlt).Foreground(p.TextOnBooking),
		BlockoutStyle:    lipgloss.NewStyle().Background(p.BlockoutBg).Foreground(p.TextOnBlockout),
		BlockoutAltStyle: lipgloss.NewStyle().Background(p.BlockoutBgAlt).Foreground(p.TextOnBlockout),
		SelectStyle:      lipgloss.NewStyle().Background(p.SelectBg).Foreground(p.Fg),
		PreviewStyle:     lipgloss.NewStyle().Background(p.Current).Foreground(p.Bg),
		PreviewBadStyle:  lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning),
		CursorStyle:      lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true),

		StatusStyle:     cell.Foreground(p.Fg),
		StatusWarnStyle: cell.Foreground(p.Warning).Bold(true),
		HelpStyle:       cell.Foreground(p.FgMuted),

		BoxStyle: box.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(p.Modal.Bg).
			Padding(0, 1),
		BoxTitleStyle:    box.Bold(true).Foreground(p.Accent),
		BoxTextStyle:     box,
		BoxMutedStyle:    box.Foreground(p.Modal.Muted),
		BoxSelectedStyle: lipgloss.NewStyle().Background(p.Modal.Highlight).Foreground(p.Modal.Text).Bold(true),
		BoxErrorStyle:    box.Foreground(p.Warning).Bold(true),
	}
}

// Palette returns the palette the styles were built from.
func (s *Styles) Palette() *theme.Palette {
	return s.palette
}
