// Package geom provides the integer cell geometry shared by the layout
// tree, the drag engine, and the popout reconciler.
package geom

// Point is a position in screen cells. Coordinates may be negative when a
// drag travels outside the surface that hosts it.
type Point struct {
	X int
	Y int
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p shifted by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ChebyshevDist is the maximum of the horizontal and vertical distance to q.
// Drag activation thresholds use it so diagonal travel counts the same as
// straight travel.
func (p Point) ChebyshevDist(q Point) int {
	dx := abs(p.X - q.X)
	dy := abs(p.Y - q.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p falls inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns the cell area of r. Degenerate rectangles report zero.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether r has no interior.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Expand grows r outward by the given margins on each side. Negative margins
// shrink it.
func (r Rect) Expand(left, top, right, bottom int) Rect {
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}

// Intersects reports whether r and s share at least one cell.
func (r Rect) Intersects(s Rect) bool {
	if r.Empty() || s.Empty() {
		return false
	}
	return r.X < s.X+s.Width && s.X < r.X+r.Width &&
		r.Y < s.Y+s.Height && s.Y < r.Y+r.Height
}

// Clamp returns p moved to the nearest cell inside r. If r is empty the
// origin of r is returned.
func (r Rect) Clamp(p Point) Point {
	if r.Empty() {
		return Point{X: r.X, Y: r.Y}
	}
	if p.X < r.X {
		p.X = r.X
	}
	if p.X >= r.X+r.Width {
		p.X = r.X + r.Width - 1
	}
	if p.Y < r.Y {
		p.Y = r.Y
	}
	if p.Y >= r.Y+r.Height {
		p.Y = r.Y + r.Height - 1
	}
	return p
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
