// Package scene is a small retained-mode 2D scene graph: lines, circles and
// text labels under one root transform, drawn by interchangeable surfaces.
package scene

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Dicklesworthstone/egograph/pkg/gesture"
)

var (
	// ErrSurfaceUnavailable is returned when a drawing surface cannot be created.
	ErrSurfaceUnavailable = errors.New("scene: drawing surface unavailable")
	// ErrReleased is returned when drawing on a released surface.
	ErrReleased = errors.New("scene: surface released")
)

// Circle is a filled disc, usually a graph node
type Circle struct {
	ID     string
	X, Y   float64
	Radius float64
	Fill   colorful.Color
	Alpha  float64
	Hidden bool
}

// Label is a line of text anchored above its baseline center
type Label struct {
	ID    string
	X, Y  float64
	Text  string
	Size  float64 // Glyph size in world units
	Color colorful.Color
	Alpha float64
	Scale float64
}

// Line is a straight stroke between two points
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          colorful.Color
	Alpha          float64
	Width          float64
}

// Scene holds every drawable of one visualization
type Scene struct {
	Width, Height float64
	Title         string
	Background    colorful.Color
	Transform     gesture.Transform

	Lines   []*Line
	Circles []*Circle
	Labels  []*Label
}

// New creates an empty scene of the given size.
func New(width, height float64, background colorful.Color) *Scene {
	return &Scene{
		Width:      width,
		Height:     height,
		Background: background,
		Transform:  gesture.Identity,
	}
}

// AddLine appends a line and returns it for later updates.
func (s *Scene) AddLine(l Line) *Line {
	p := &l
	s.Lines = append(s.Lines, p)
	return p
}

// AddCircle appends a circle and returns it for later updates.
func (s *Scene) AddCircle(c Circle) *Circle {
	p := &c
	s.Circles = append(s.Circles, p)
	return p
}

// AddLabel appends a label and returns it for later updates.
func (s *Scene) AddLabel(l Label) *Label {
	p := &l
	s.Labels = append(s.Labels, p)
	return p
}

// HitTest returns the top-most visible circle under the screen point.
func (s *Scene) HitTest(sx, sy float64) (*Circle, bool) {
	x, y := s.Transform.Invert(sx, sy)
	for i := len(s.Circles) - 1; i >= 0; i-- {
		c := s.Circles[i]
		if c.Hidden {
			continue
		}
		dx, dy := x-c.X, y-c.Y
		if dx*dx+dy*dy <= c.Radius*c.Radius {
			return c, true
		}
	}
	return nil, false
}

// Clear drops every drawable.
func (s *Scene) Clear() {
	s.Lines = nil
	s.Circles = nil
	s.Labels = nil
}

// Surface draws a scene somewhere.
type Surface interface {
	Draw(s *Scene) error
	Release() error
}
