package gesture_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dicklesworthstone/egograph/pkg/gesture"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := gesture.Transform{K: 2.5, X: 10, Y: -4}
	sx, sy := tr.Apply(3, 7)
	x, y := tr.Invert(sx, sy)
	assert.InDelta(t, 3, x, 1e-9)
	assert.InDelta(t, 7, y, 1e-9)
}

func TestScaleAboutKeepsAnchor(t *testing.T) {
	tr := gesture.Transform{K: 1, X: 5, Y: 5}
	wx, wy := tr.Invert(100, 50)

	scaled := tr.ScaleAbout(3, 100, 50)
	sx, sy := scaled.Apply(wx, wy)
	assert.InDelta(t, 100, sx, 1e-9)
	assert.InDelta(t, 50, sy, 1e-9)
}

func TestTransformValid(t *testing.T) {
	assert.True(t, gesture.Identity.Valid())
	assert.False(t, gesture.Transform{K: 0}.Valid())
	assert.False(t, gesture.Transform{K: 1, X: math.NaN()}.Valid())
}

func TestZoomWheelClamps(t *testing.T) {
	var seen []gesture.Transform
	z := gesture.NewZoom(gesture.MinScale, gesture.MaxScale, func(tr gesture.Transform) {
		seen = append(seen, tr)
	})

	for i := 0; i < 50; i++ {
		z.Wheel(-500, 0, 0)
	}
	assert.Equal(t, float64(gesture.MaxScale), z.Transform().K)

	for i := 0; i < 50; i++ {
		z.Wheel(500, 0, 0)
	}
	assert.Equal(t, gesture.MinScale, z.Transform().K)
	assert.Len(t, seen, 100)
}

func TestZoomWheelDirection(t *testing.T) {
	z := gesture.NewZoom(gesture.MinScale, gesture.MaxScale, nil)
	z.Wheel(-100, 20, 20)
	assert.Greater(t, z.Transform().K, 1.0, "negative delta zooms in")

	z.Reset()
	assert.Equal(t, gesture.Identity, z.Transform())
}

func TestZoomPan(t *testing.T) {
	z := gesture.NewZoom(gesture.MinScale, gesture.MaxScale, nil)
	z.Pan(4, -3)
	z.Pan(1, 1)
	assert.Equal(t, gesture.Transform{K: 1, X: 5, Y: -2}, z.Transform())
}

func TestDragSession(t *testing.T) {
	start := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	d := gesture.NewDrag(10, 10, start)

	dx, dy := d.Move(13, 14)
	assert.Equal(t, 3.0, dx)
	assert.Equal(t, 4.0, dy)
	assert.Equal(t, 5.0, d.Displacement())
	assert.Equal(t, 250*time.Millisecond, d.Elapsed(start.Add(250*time.Millisecond)))
}
