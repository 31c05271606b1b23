package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeOverlay draws box over base with its top-left corner at (x, y).
// Base lines are cut on cell boundaries so styled content on either side of
// the box survives.
func placeOverlay(base, box string, x, y int) string {
	if box == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	x = max(x, 0)

	for i, overlayLine := range boxLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		line := baseLines[row]
		lineW := ansi.StringWidth(line)
		if lineW < x {
			line += strings.Repeat(" ", x-lineW)
			lineW = x
		}
		boxW := lipgloss.Width(overlayLine)

		left := ansi.Cut(line, 0, x)
		right := ""
		if lineW > x+boxW {
			right = ansi.Cut(line, x+boxW, lineW)
		}
		baseLines[row] = left + ansi.ResetStyle + overlayLine + ansi.ResetStyle + right
	}
	return strings.Join(baseLines, "\n")
}

// centerOverlay draws box in the middle of a width x height base.
func centerOverlay(base, box string, width, height int) string {
	boxW, boxH := lipgloss.Size(box)
	return placeOverlay(base, box, max((width-boxW)/2, 0), max((height-boxH)/2, 0))
}

// fitLines pads or cuts every line of s to exactly width cells and the whole
// block to height lines.
func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		w := ansi.StringWidth(line)
		switch {
		case w > width:
			lines[i] = ansi.Cut(line, 0, width)
		case w < width:
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
