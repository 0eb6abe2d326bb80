// Package gesture turns raw pointer input into zoom transforms and drag
// sessions.
package gesture

import (
	"math"
	"time"
)

// Default zoom limits.
const (
	MinScale = 0.25
	MaxScale = 4
)

// wheelFactor converts wheel delta into a base-2 exponent.
const wheelFactor = 0.002

// Zoom tracks the pan/zoom transform of one surface.
type Zoom struct {
	min, max  float64
	transform Transform
	onZoom    func(Transform)
}

// NewZoom creates a zoom clamped to [lo, hi]. onZoom fires after every change.
func NewZoom(lo, hi float64, onZoom func(Transform)) *Zoom {
	if lo <= 0 {
		lo = MinScale
	}
	if hi < lo {
		hi = lo
	}
	return &Zoom{min: lo, max: hi, transform: Identity, onZoom: onZoom}
}

// Transform returns the current transform.
func (z *Zoom) Transform() Transform { return z.transform }

// Set replaces the transform, clamping its scale.
func (z *Zoom) Set(t Transform) {
	if !t.Valid() {
		return
	}
	k := z.clamp(t.K)
	if k != t.K {
		t = t.ScaleAbout(k, 0, 0)
	}
	z.transform = t
	if z.onZoom != nil {
		z.onZoom(t)
	}
}

// Wheel zooms about the screen point (px, py). Positive delta zooms out.
func (z *Zoom) Wheel(delta, px, py float64) {
	k := z.clamp(z.transform.K * math.Pow(2, -delta*wheelFactor))
	z.Set(z.transform.ScaleAbout(k, px, py))
}

// ScaleBy multiplies the current scale by factor about (px, py).
func (z *Zoom) ScaleBy(factor, px, py float64) {
	k := z.clamp(z.transform.K * factor)
	z.Set(z.transform.ScaleAbout(k, px, py))
}

// Pan shifts the view by a screen-space delta.
func (z *Zoom) Pan(dx, dy float64) {
	z.Set(z.transform.Translate(dx, dy))
}

// Reset returns to the identity transform.
func (z *Zoom) Reset() { z.Set(Identity) }

func (z *Zoom) clamp(k float64) float64 {
	return math.Max(z.min, math.Min(z.max, k))
}

// Drag is one pointer-down to pointer-up session.
type Drag struct {
	StartX, StartY float64
	LastX, LastY   float64
	Started        time.Time
}

// NewDrag starts a session at the screen point (x, y).
func NewDrag(x, y float64, now time.Time) *Drag {
	return &Drag{StartX: x, StartY: y, LastX: x, LastY: y, Started: now}
}

// Move records a new pointer position and returns the delta from the last one.
func (d *Drag) Move(x, y float64) (dx, dy float64) {
	dx, dy = x-d.LastX, y-d.LastY
	d.LastX, d.LastY = x, y
	return dx, dy
}

// Elapsed returns the time since the session started.
func (d *Drag) Elapsed(now time.Time) time.Duration { return now.Sub(d.Started) }

// Displacement returns the straight-line distance from the start point.
func (d *Drag) Displacement() float64 {
	return math.Hypot(d.LastX-d.StartX, d.LastY-d.StartY)
}
