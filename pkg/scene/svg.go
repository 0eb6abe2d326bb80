package scene

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"
)

// SVGSurface renders each frame to an SVG document and keeps the latest one
type SVGSurface struct {
	width, height int
	buf           *bytes.Buffer
	released      bool
}

// NewSVGSurface creates a width x height SVG surface.
func NewSVGSurface(width, height int) (*SVGSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceUnavailable, width, height)
	}
	return &SVGSurface{width: width, height: height, buf: &bytes.Buffer{}}, nil
}

// Draw replaces the stored document with the current frame.
func (s *SVGSurface) Draw(sc *Scene) error {
	if s.released {
		return ErrReleased
	}
	s.buf.Reset()

	canvas := svg.New(s.buf)
	canvas.Start(s.width, s.height)
	if sc.Title != "" {
		canvas.Title(sc.Title)
	}
	canvas.Rect(0, 0, s.width, s.height, "fill:"+cssColor(sc.Background))

	t := sc.Transform
	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", t.X, t.Y, t.K))

	// SVG coordinates are integers in svgo; scale world units up for precision
	const unit = 10.0
	canvas.Gtransform(fmt.Sprintf("scale(%.1f)", 1/unit))
	for _, l := range sc.Lines {
		if l.Alpha <= 0 {
			continue
		}
		canvas.Line(px(l.X1*unit), px(l.Y1*unit), px(l.X2*unit), px(l.Y2*unit),
			fmt.Sprintf("stroke:%s;stroke-opacity:%.3f;stroke-width:%.1f", cssColor(l.Color), l.Alpha, math.Max(l.Width, 0.5)*unit))
	}
	for _, c := range sc.Circles {
		if c.Hidden || c.Alpha <= 0 {
			continue
		}
		canvas.Circle(px(c.X*unit), px(c.Y*unit), px(c.Radius*unit),
			fmt.Sprintf("fill:%s;fill-opacity:%.3f", cssColor(c.Fill), c.Alpha))
	}
	for _, l := range sc.Labels {
		if l.Alpha <= 0 || l.Text == "" {
			continue
		}
		canvas.Text(px(l.X*unit), px(l.Y*unit), l.Text,
			fmt.Sprintf("fill:%s;fill-opacity:%.3f;font-size:%.1fpx;font-family:system-ui,sans-serif;text-anchor:middle",
				cssColor(l.Color), l.Alpha, l.Size*l.Scale*unit))
	}
	canvas.Gend()
	canvas.Gend()
	canvas.End()
	return nil
}

// WriteTo copies the last frame to w.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	if s.released {
		return 0, ErrReleased
	}
	return bytes.NewReader(s.buf.Bytes()).WriteTo(w)
}

// Release drops the stored frame.
func (s *SVGSurface) Release() error {
	s.released = true
	s.buf = &bytes.Buffer{}
	return nil
}

func px(v float64) int { return int(math.Round(v)) }

func cssColor(c colorful.Color) string {
	return c.Clamped().Hex()
}
