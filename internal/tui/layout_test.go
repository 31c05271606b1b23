package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/slotbook/internal/interaction"
	"github.com/javiermolinar/slotbook/internal/snapshot"
)

func TestCellAt(t *testing.T) {
	m, _ := newTestModel(t, snapshot.NewMemoryKV())

	tests := []struct {
		name   string
		x, y   int
		want   Position
		wantOK bool
	}{
		{name: "first cell", x: 10, y: 2, want: Position{Col: 0, Slot: 0}, wantOK: true},
		{name: "second column", x: 42, y: 5, want: Position{Col: 1, Slot: 3}, wantOK: true},
		{name: "time column", x: 4, y: 5},
		{name: "header", x: 20, y: 1},
		{name: "right of last column", x: 80, y: 5},
		{name: "footer", x: 20, y: 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.cellAt(tt.x, tt.y)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("cellAt(%d, %d) = %+v, %v; want %+v, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCellAt_FollowsScroll(t *testing.T) {
	m, _ := newTestModel(t, snapshot.NewMemoryKV())
	m.scrollBy(5)
	got, ok := m.cellAt(10, 2)
	if !ok || got.Slot != 5 {
		t.Errorf("cellAt top row = %+v, %v; want slot 5", got, ok)
	}
	r := m.cellRect(Position{Col: 1, Slot: 7})
	if r != (interaction.Rect{X: 42, Y: 4, W: 32, H: 1}) {
		t.Errorf("cellRect = %+v", r)
	}
}

func TestEnsureVisible(t *testing.T) {
	m, _ := newTestModel(t, snapshot.NewMemoryKV())
	m.ensureVisible(40)
	if m.scroll != 40-m.gridRows()+1 {
		t.Errorf("scroll = %d, want %d", m.scroll, 40-m.gridRows()+1)
	}
	m.ensureVisible(2)
	if m.scroll != 2 {
		t.Errorf("scroll = %d, want 2", m.scroll)
	}
}

func TestPlaceOverlay(t *testing.T) {
	base := strings.Join([]string{
		"..........",
		lipgloss.NewStyle().Bold(true).Render(".........."),
		"..........",
	}, "\n")
	got := placeOverlay(base, "AB\nCD", 3, 1)
	lines := strings.Split(ansi.Strip(got), "\n")
	want := []string{"..........", "...AB.....", "...CD....."}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPlaceOverlay_ClipsBelowBase(t *testing.T) {
	got := placeOverlay("....\n....", "X\nY\nZ", 1, 1)
	if ansi.Strip(got) != "....\n.X.." {
		t.Errorf("got %q", ansi.Strip(got))
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("abcdef\nab", 4, 3)
	if got != "abcd\nab  \n    " {
		t.Errorf("fitLines = %q", got)
	}
}

func TestListRow(t *testing.T) {
	m, _ := newTestModel(t, snapshot.NewMemoryKV())
	box := m.renderList([]string{"one", "two"}, 0)
	pos := interaction.Point{X: 5, Y: 5}

	tests := []struct {
		p      interaction.Point
		row    int
		wantOK bool
	}{
		{p: interaction.Point{X: 6, Y: 6}, row: 0, wantOK: true},
		{p: interaction.Point{X: 6, Y: 7}, row: 1, wantOK: true},
		{p: interaction.Point{X: 6, Y: 5}},  // top border
		{p: interaction.Point{X: 30, Y: 6}}, // outside
	}
	for _, tt := range tests {
		row, ok := listRow(pos, box, tt.p, 2)
		if ok != tt.wantOK || (ok && row != tt.row) {
			t.Errorf("listRow(%+v) = %d, %v; want %d, %v", tt.p, row, ok, tt.row, tt.wantOK)
		}
	}
}

func TestOpenFlyoutBesideMenu(t *testing.T) {
	m, _ := newTestModel(t, snapshot.NewMemoryKV())
	m = press(m, "o", "down", "right")
	open := m.menu.(interaction.MenuOpen)
	menuW := lipgloss.Width(m.menuBox(open))
	if open.Flyout.Pos.X != open.Pos.X+menuW || open.Flyout.Pos.Y != open.Pos.Y+1 {
		t.Errorf("flyout at %+v, menu at %+v width %d", open.Flyout.Pos, open.Pos, menuW)
	}
}
