// Package theme provides color themes for the TUI.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Alternate rows, hour lines
	BgSelection string `toml:"bg_selection"` // Cursor, pointer selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Time labels, hints
	Accent      string `toml:"accent"`       // Title, borders, menus
	Booking     string `toml:"booking"`      // Booking blocks
	Blockout    string `toml:"blockout"`     // Blockout blocks
	Current     string `toml:"current"`      // Now line, drop preview
	Warning     string `toml:"warning"`      // Conflicts, move mode

	// Dialog palette (can override base theme values)
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

var builtin = map[string]Theme{
	"mocha": {
		Bg: "#1e1e2e", BgHighlight: "#313244", BgSelection: "#45475a",
		Fg: "#cdd6f4", FgMuted: "#7f849c", Accent: "#cba6f7",
		Booking: "#89b4fa", Blockout: "#fab387", Current: "#a6e3a1", Warning: "#f38ba8",
	},
	"macchiato": {
		Bg: "#24273a", BgHighlight: "#363a4f", BgSelection: "#494d64",
		Fg: "#cad3f5", FgMuted: "#8087a2", Accent: "#c6a0f6",
		Booking: "#8aadf4", Blockout: "#f5a97f", Current: "#a6da95", Warning: "#ed8796",
	},
	"frappe": {
		Bg: "#303446", BgHighlight: "#414559", BgSelection: "#51576d",
		Fg: "#c6d0f5", FgMuted: "#838ba7", Accent: "#ca9ee6",
		Booking: "#8caaee", Blockout: "#ef9f76", Current: "#a6d189", Warning: "#e78284",
	},
	"latte": {
		Bg: "#eff1f5", BgHighlight: "#ccd0da", BgSelection: "#bcc0cc",
		Fg: "#4c4f69", FgMuted: "#8c8fa1", Accent: "#8839ef",
		Booking: "#1e66f5", Blockout: "#fe640b", Current: "#40a02b", Warning: "#d20f39",
	},
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load returns a built-in theme by name, or reads a TOML theme when name is a
// path ending in .toml. Unknown names fall back to mocha.
func Load(name string) (*Theme, error) {
	if strings.HasSuffix(strings.ToLower(name), ".toml") {
		return LoadFile(name)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := builtin[name]
	if !ok {
		name = "mocha"
		t = builtin[name]
	}
	t.Name = name
	t.applyDefaults(nil)
	return &t, nil
}

// LoadFile reads a custom theme. Colors it leaves out are taken from mocha.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", path, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", path, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	base := builtin["mocha"]
	t.applyDefaults(&base)
	return &t, nil
}

func (t *Theme) applyDefaults(base *Theme) {
	if base != nil {
		t.Bg = coalesce(t.Bg, base.Bg)
		t.BgHighlight = coalesce(t.BgHighlight, base.BgHighlight)
		t.BgSelection = coalesce(t.BgSelection, base.BgSelection)
		t.Fg = coalesce(t.Fg, base.Fg)
		t.FgMuted = coalesce(t.FgMuted, base.FgMuted)
		t.Accent = coalesce(t.Accent, base.Accent)
		t.Booking = coalesce(t.Booking, base.Booking)
		t.Blockout = coalesce(t.Blockout, base.Blockout)
		t.Current = coalesce(t.Current, base.Current)
		t.Warning = coalesce(t.Warning, base.Warning)
	}
	t.ModalBorder = coalesce(t.ModalBorder, t.Accent)
	t.TextPrimary = coalesce(t.TextPrimary, t.Fg)
	t.TextMuted = coalesce(t.TextMuted, t.FgMuted)
	t.Highlight = coalesce(t.Highlight, t.BgSelection, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the built-in theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is built in.
func IsAvailable(name string) bool {
	_, ok := builtin[strings.ToLower(name)]
	return ok
}
