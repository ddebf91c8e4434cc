package drag

import "github.com/dodorz/dockyard/internal/geom"

// Indicator is the drop-target highlight for one surface. It is pure
// presentation state with no memory beyond visibility, so redundant
// Highlight and Hide calls are harmless.
type Indicator struct {
	visible bool
	area    geom.Rect
	margin  int
}

// NewIndicator returns a hidden indicator.
func NewIndicator() *Indicator { return &Indicator{} }

// Highlight positions and shows the overlay.
func (in *Indicator) Highlight(area geom.Rect, margin int) {
	in.visible = true
	in.area = area
	in.margin = margin
}

// Hide hides the overlay.
func (in *Indicator) Hide() {
	in.visible = false
}

// Visible reports whether the overlay is shown.
func (in *Indicator) Visible() bool { return in.visible }

// Area returns the highlighted rectangle grown by the margin. Only
// meaningful while visible.
func (in *Indicator) Area() geom.Rect {
	return in.area.Expand(in.margin, in.margin, in.margin, in.margin)
}
