package scene

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Dicklesworthstone/egograph/pkg/theme"
)

// RasterSurface draws scenes into an in-memory image
type RasterSurface struct {
	dc     *gg.Context
	width  int
	height int
	font   *opentype.Font
	faces  map[int]font.Face
	header bool
	frames int
}

// RasterOptions tunes the raster surface
type RasterOptions struct {
	Header bool // Draws a title card with node and link counts
}

// NewRasterSurface allocates a width x height canvas.
func NewRasterSurface(width, height int, opts RasterOptions) (*RasterSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceUnavailable, width, height)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: load font: %v", ErrSurfaceUnavailable, err)
	}
	return &RasterSurface{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
		font:   f,
		faces:  make(map[int]font.Face),
		header: opts.Header,
	}, nil
}

// Draw renders one frame.
func (r *RasterSurface) Draw(s *Scene) error {
	if r.dc == nil {
		return ErrReleased
	}
	dc := r.dc

	dc.Identity()
	dc.SetColor(theme.RGBA(s.Background, 1))
	dc.Clear()

	// Draw subtle vignette (darker edges)
	cx, cy := float64(r.width)/2, float64(r.height)/2
	maxDist := math.Sqrt(cx*cx + cy*cy)
	for y := 0; y < r.height; y += 8 {
		for x := 0; x < r.width; x += 8 {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			dc.SetColor(color.NRGBA{0, 0, 0, uint8(16 * dist)})
			dc.DrawRectangle(float64(x), float64(y), 8, 8)
			dc.Fill()
		}
	}

	t := s.Transform
	dc.Push()
	dc.Translate(t.X, t.Y)
	dc.Scale(t.K, t.K)

	// Draw links first (below nodes)
	for _, l := range s.Lines {
		if l.Alpha <= 0 {
			continue
		}
		dc.SetColor(theme.RGBA(l.Color, l.Alpha))
		dc.SetLineWidth(math.Max(l.Width, 0.5))
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	for _, c := range s.Circles {
		if c.Hidden || c.Alpha <= 0 {
			continue
		}
		drawNode(dc, c)
	}
	dc.Pop()

	// Labels are drawn in screen space so glyphs stay crisp at any zoom
	for _, l := range s.Labels {
		if l.Alpha <= 0 || l.Text == "" {
			continue
		}
		px := int(math.Round(l.Size * l.Scale * t.K))
		if px < 4 {
			continue
		}
		face, err := r.face(px)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetColor(theme.RGBA(l.Color, l.Alpha))
		sx, sy := t.Apply(l.X, l.Y)
		dc.DrawStringAnchored(l.Text, sx, sy, 0.5, 1)
	}

	if r.header {
		r.drawHeaderCard(s)
	}
	r.frames++
	return nil
}

func drawNode(dc *gg.Context, c *Circle) {
	// Drop shadow
	dc.SetColor(color.NRGBA{0, 0, 0, uint8(0x40 * c.Alpha)})
	dc.DrawCircle(c.X+0.6, c.Y+0.6, c.Radius)
	dc.Fill()

	// Main disc, lighter toward the top
	lighter := c.Fill.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.2)
	for i := 0; i < 3; i++ {
		rr := c.Radius - float64(i)*c.Radius/4
		if rr <= 0 {
			break
		}
		dc.SetColor(theme.RGBA(c.Fill.BlendRgb(lighter, float64(i)/2), c.Alpha))
		dc.DrawCircle(c.X, c.Y-float64(i)*0.15, rr)
		dc.Fill()
	}
}

func (r *RasterSurface) drawHeaderCard(s *Scene) {
	dc := r.dc
	face, err := r.face(14)
	if err != nil {
		return
	}
	dc.SetFontFace(face)

	// Semi-transparent header background
	dc.SetColor(color.NRGBA{0x24, 0x24, 0x34, 0xc0})
	dc.DrawRoundedRectangle(12, 12, math.Min(float64(r.width)-24, 320), 48, 10)
	dc.Fill()

	title := s.Title
	if title == "" {
		title = "Graph"
	}
	dc.SetColor(color.NRGBA{0xf8, 0xf8, 0xf2, 0xff})
	dc.DrawStringAnchored(title, 24, 28, 0, 0.5)

	dc.SetColor(color.NRGBA{0xa0, 0xa0, 0xb0, 0xff})
	dc.DrawStringAnchored(fmt.Sprintf("%d nodes · %d links", len(s.Circles), len(s.Lines)), 24, 46, 0, 0.5)
}

// face returns a cached font face of px pixels.
func (r *RasterSurface) face(px int) (font.Face, error) {
	if f, ok := r.faces[px]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %dpx: %w", px, err)
	}
	r.faces[px] = f
	return f, nil
}

// Image returns the last rendered frame.
func (r *RasterSurface) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// Frames returns how many frames were drawn.
func (r *RasterSurface) Frames() int { return r.frames }

// SavePNG writes the last frame to path.
func (r *RasterSurface) SavePNG(path string) error {
	if r.dc == nil {
		return ErrReleased
	}
	return r.dc.SavePNG(path)
}

// EncodePNG writes the last frame to w.
func (r *RasterSurface) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return ErrReleased
	}
	return r.dc.EncodePNG(w)
}

// Release frees the canvas and font faces. Releasing twice is a no-op.
func (r *RasterSurface) Release() error {
	if r.dc == nil {
		return nil
	}
	for px, f := range r.faces {
		f.Close()
		delete(r.faces, px)
	}
	r.dc = nil
	return nil
}
