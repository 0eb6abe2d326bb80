package scene_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/egograph/pkg/gesture"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

func sample() *scene.Scene {
	s := scene.New(40, 40, black)
	s.Title = "sample"
	s.AddLine(scene.Line{X1: 10, Y1: 10, X2: 30, Y2: 30, Color: white, Alpha: 1, Width: 1})
	s.AddCircle(scene.Circle{ID: "a", X: 10, Y: 10, Radius: 4, Fill: white, Alpha: 1})
	s.AddCircle(scene.Circle{ID: "b", X: 30, Y: 30, Radius: 4, Fill: white, Alpha: 1})
	s.AddLabel(scene.Label{ID: "a", X: 10, Y: 18, Text: "alpha", Size: 9, Color: white, Alpha: 1, Scale: 1})
	return s
}

func TestHitTest(t *testing.T) {
	s := sample()

	c, ok := s.HitTest(11, 9)
	require.True(t, ok)
	assert.Equal(t, "a", c.ID)

	_, ok = s.HitTest(20, 2)
	assert.False(t, ok)

	s.Transform = gesture.Transform{K: 2, X: 5, Y: 5}
	c, ok = s.HitTest(65, 65)
	require.True(t, ok)
	assert.Equal(t, "b", c.ID, "hit testing inverts the root transform")

	c.Hidden = true
	_, ok = s.HitTest(65, 65)
	assert.False(t, ok)
}

func TestHitTestPrefersTopmost(t *testing.T) {
	s := scene.New(10, 10, black)
	s.AddCircle(scene.Circle{ID: "under", X: 5, Y: 5, Radius: 3})
	s.AddCircle(scene.Circle{ID: "over", X: 6, Y: 5, Radius: 3})

	c, ok := s.HitTest(5.5, 5)
	require.True(t, ok)
	assert.Equal(t, "over", c.ID)
}

func TestRasterSurface(t *testing.T) {
	r, err := scene.NewRasterSurface(64, 48, scene.RasterOptions{Header: true})
	require.NoError(t, err)

	require.NoError(t, r.Draw(sample()))
	assert.Equal(t, 1, r.Frames())
	assert.Equal(t, 64, r.Image().Bounds().Dx())

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
	assert.ErrorIs(t, r.Draw(sample()), scene.ErrReleased)
	assert.Nil(t, r.Image())
}

func TestRasterSurfaceUnavailable(t *testing.T) {
	_, err := scene.NewRasterSurface(0, 10, scene.RasterOptions{})
	assert.ErrorIs(t, err, scene.ErrSurfaceUnavailable)
}

func TestSVGSurface(t *testing.T) {
	s, err := scene.NewSVGSurface(40, 40)
	require.NoError(t, err)
	require.NoError(t, s.Draw(sample()))

	var buf bytes.Buffer
	_, err = s.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Contains(t, out, "<line")
	assert.Contains(t, out, ">alpha<")
	assert.Contains(t, out, "<title>sample</title>")

	require.NoError(t, s.Release())
	assert.ErrorIs(t, s.Draw(sample()), scene.ErrReleased)
}

func TestTermSurface(t *testing.T) {
	ts, err := scene.NewTermSurface(40, 20)
	require.NoError(t, err)
	require.NoError(t, ts.Draw(sample()))

	plain := ts.Plain()
	lines := strings.Split(plain, "\n")
	require.Len(t, lines, 20)
	assert.Contains(t, plain, "█")
	assert.Contains(t, plain, "·")
	assert.Contains(t, plain, "alpha")
	assert.NotEmpty(t, ts.String())

	cols, rows := ts.Size()
	assert.Equal(t, 40, cols)
	assert.Equal(t, 20, rows)

	require.NoError(t, ts.Release())
	assert.ErrorIs(t, ts.Draw(sample()), scene.ErrReleased)
}

func TestTermSurfaceSkipsFaintLabels(t *testing.T) {
	ts, err := scene.NewTermSurface(40, 20)
	require.NoError(t, err)

	s := sample()
	s.Labels[0].Alpha = 0
	require.NoError(t, ts.Draw(s))
	assert.NotContains(t, ts.Plain(), "alpha")
}

func TestCellToScreen(t *testing.T) {
	x, y := scene.CellToScreen(3, 4)
	assert.Equal(t, 3.5, x)
	assert.Equal(t, 9.0, y)
}
