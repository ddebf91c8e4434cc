// Package ui holds the small presentation helpers the desk renders with:
// tween-based motion for the drag proxy and notification fades.
package ui

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/dodorz/dockyard/internal/geom"
)

// Glide animates a screen position between two points. Callers advance it
// with Update(dt) each frame; there is no global animation manager.
type Glide struct {
	x, y *gween.Tween
	cur  geom.Point
	Done bool
}

// NewGlide animates from one point to another over the given duration.
// A non-positive duration completes immediately at the target.
func NewGlide(from, to geom.Point, d time.Duration, fn ease.TweenFunc) *Glide {
	if d <= 0 {
		return &Glide{cur: to, Done: true}
	}
	secs := float32(d.Seconds())
	return &Glide{
		x:   gween.New(float32(from.X), float32(to.X), secs, fn),
		y:   gween.New(float32(from.Y), float32(to.Y), secs, fn),
		cur: from,
	}
}

// GlideTo is the standard proxy motion, easing out so the movement lands
// softly.
func GlideTo(from, to geom.Point, d time.Duration) *Glide {
	return NewGlide(from, to, d, ease.OutQuad)
}

// SnapBack is the motion of a discarded proxy returning to its origin.
func SnapBack(from, to geom.Point, d time.Duration) *Glide {
	return NewGlide(from, to, d, ease.OutBack)
}

// Update advances the glide by dt and returns the current position.
func (g *Glide) Update(dt time.Duration) geom.Point {
	if g.Done {
		return g.cur
	}
	secs := float32(dt.Seconds())
	xv, xDone := g.x.Update(secs)
	yv, yDone := g.y.Update(secs)
	g.cur = geom.Point{X: int(xv + 0.5), Y: int(yv + 0.5)}
	g.Done = xDone && yDone
	return g.cur
}

// Pos returns the current position without advancing.
func (g *Glide) Pos() geom.Point { return g.cur }

// Fade animates a scalar from one value to another, used for notification
// and indicator opacity.
type Fade struct {
	tw    *gween.Tween
	Value float64
	Done  bool
}

// NewFade animates a scalar over the given duration. A non-positive
// duration completes immediately at the target.
func NewFade(from, to float64, d time.Duration, fn ease.TweenFunc) *Fade {
	if d <= 0 {
		return &Fade{Value: to, Done: true}
	}
	return &Fade{
		tw:    gween.New(float32(from), float32(to), float32(d.Seconds()), fn),
		Value: from,
	}
}

// FadeOut eases a value down to zero, the notification dismissal motion.
func FadeOut(from float64, d time.Duration) *Fade {
	return NewFade(from, 0, d, ease.OutQuad)
}

// Update advances the fade by dt and returns the current value.
func (f *Fade) Update(dt time.Duration) float64 {
	if f.Done {
		return f.Value
	}
	v, done := f.tw.Update(float32(dt.Seconds()))
	f.Value = float64(v)
	f.Done = done
	return f.Value
}
