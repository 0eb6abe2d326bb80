package gesture

import "math"

// Transform maps world coordinates to screen coordinates: scale by K, then
// translate by (X, Y).
type Transform struct {
	K, X, Y float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	k := t.K
	if k == 0 {
		k = 1
	}
	return (sx - t.X) / k, (sy - t.Y) / k
}

// ScaleAbout returns t scaled to k while keeping the screen point (px, py)
// over the same world point.
func (t Transform) ScaleAbout(k, px, py float64) Transform {
	wx, wy := t.Invert(px, py)
	return Transform{K: k, X: px - wx*k, Y: py - wy*k}
}

// Translate shifts the transform by a screen-space delta.
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{K: t.K, X: t.X + dx, Y: t.Y + dy}
}

// Valid reports whether every component is finite and the scale positive.
func (t Transform) Valid() bool {
	for _, v := range []float64{t.K, t.X, t.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return t.K > 0
}
