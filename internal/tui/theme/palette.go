package theme

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Booking     lipgloss.Color
	Blockout    lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Block fills. Alt shades separate adjacent records on one column.
	BookingBg     lipgloss.Color
	BookingBgAlt  lipgloss.Color
	BlockoutBg    lipgloss.Color
	BlockoutBgAlt lipgloss.Color
	SelectBg      lipgloss.Color // pointer selection and drop preview

	TextOnAccent   lipgloss.Color
	TextOnWarning  lipgloss.Color
	TextOnBooking  lipgloss.Color
	TextOnBlockout lipgloss.Color

	Modal ModalColors
}

// ModalColors holds dialog and menu colors.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	light := isLightTheme(t.Bg)
	bookingBg := blockFill(t.Booking, t.Bg, light)
	blockoutBg := blockFill(t.Blockout, t.Bg, light)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Booking:     lipgloss.Color(t.Booking),
		Blockout:    lipgloss.Color(t.Blockout),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		BookingBg:     lipgloss.Color(bookingBg),
		BookingBgAlt:  lipgloss.Color(alternateShade(bookingBg, light)),
		BlockoutBg:    lipgloss.Color(blockoutBg),
		BlockoutBgAlt: lipgloss.Color(alternateShade(blockoutBg, light)),
		SelectBg:      lipgloss.Color(blendColors(t.Current, t.Bg, 0.55)),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning:  lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnBooking:  lipgloss.Color(chooseTextColor(bookingBg, t.Bg, t.Fg)),
		TextOnBlockout: lipgloss.Color(chooseTextColor(blockoutBg, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:        lipgloss.Color(coalesce(t.BgHighlight, t.Bg)),
			Border:    lipgloss.Color(t.ModalBorder),
			Text:      lipgloss.Color(t.TextPrimary),
			Muted:     lipgloss.Color(t.TextMuted),
			Highlight: lipgloss.Color(t.Highlight),
		},
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// blockFill tones an accent down enough to carry readable text.
func blockFill(accent, bg string, light bool) string {
	if light {
		return blendColors(accent, bg, 0.75)
	}
	return scaleColor(accent, 0.5, 40)
}

// alternateShade creates a subtle alternate shade for adjacent records.
func alternateShade(hex string, light bool) string {
	if light {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// scaleColor multiplies each channel by factor, keeping it at or above floor.
func scaleColor(hex string, factor float64, floor int) string {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	scale := func(c int) int {
		return max(int(float64(c)*factor), floor)
	}
	return formatRGB(scale(r), scale(g), scale(b))
}

func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := parseRGB(a)
	br, bg, bb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatRGB(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func parseRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func formatRGB(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
