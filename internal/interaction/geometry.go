package interaction

// Point is a cell position on screen.
type Point struct {
	X, Y int
}

// Size is a width and height in cells.
type Size struct {
	W, H int
}

// Rect is an on-screen box.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p is inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Clamp keeps a box of size at pos inside viewport. A box larger than the
// viewport is pinned to the top-left corner.
func Clamp(pos Point, size Size, viewport Size) Point {
	pos.X = max(0, min(pos.X, viewport.W-size.W))
	pos.Y = max(0, min(pos.Y, viewport.H-size.H))
	return pos
}

// PlaceFlyout positions a submenu of size next to its parent menu: to the
// right when it fits, otherwise to the left, otherwise clamped. It is aligned
// with the parent's top edge and never leaves the viewport.
func PlaceFlyout(parent Rect, size Size, viewport Size) Point {
	pos := Point{X: parent.X + parent.W, Y: parent.Y}
	if pos.X+size.W > viewport.W {
		if left := parent.X - size.W; left >= 0 {
			pos.X = left
		}
	}
	return Clamp(pos, size, viewport)
}
