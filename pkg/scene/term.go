package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/egograph/pkg/theme"
)

// CellAspect is how many world units tall one terminal cell is, relative to
// one unit of width.
const CellAspect = 2

// maxLabelWidth caps label width in cells.
const maxLabelWidth = 28

type cell struct {
	r   rune
	fg  colorful.Color
	set bool
}

// TermSurface rasterizes a scene onto a grid of terminal cells
type TermSurface struct {
	cols, rows int
	grid       [][]cell
	frame      string
	released   bool
}

// NewTermSurface creates a cols x rows surface. The matching scene size is
// cols x rows*CellAspect world units.
func NewTermSurface(cols, rows int) (*TermSurface, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: invalid terminal size %dx%d", ErrSurfaceUnavailable, cols, rows)
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}
	return &TermSurface{cols: cols, rows: rows, grid: grid}, nil
}

// Size returns the grid dimensions.
func (t *TermSurface) Size() (cols, rows int) { return t.cols, t.rows }

// CellToScreen returns the screen point at the center of a cell.
func CellToScreen(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*CellAspect) + CellAspect/2.0
}

// Draw rasterizes one frame.
func (t *TermSurface) Draw(s *Scene) error {
	if t.released {
		return ErrReleased
	}
	for _, row := range t.grid {
		for i := range row {
			row[i] = cell{}
		}
	}
	tr := s.Transform

	for _, l := range s.Lines {
		if l.Alpha <= 0.05 {
			continue
		}
		x1, y1 := tr.Apply(l.X1, l.Y1)
		x2, y2 := tr.Apply(l.X2, l.Y2)
		t.line(x1, y1, x2, y2, theme.Fade(l.Color, s.Background, l.Alpha))
	}

	for _, c := range s.Circles {
		if c.Hidden || c.Alpha <= 0.05 {
			continue
		}
		cx, cy := tr.Apply(c.X, c.Y)
		t.disc(cx, cy, c.Radius*tr.K, theme.Fade(c.Fill, s.Background, c.Alpha))
	}

	for _, l := range s.Labels {
		if l.Alpha <= 0.1 || l.Text == "" {
			continue
		}
		sx, sy := tr.Apply(l.X, l.Y)
		t.text(sx, sy, l.Text, theme.Fade(l.Color, s.Background, l.Alpha))
	}

	t.frame = t.render()
	return nil
}

func (t *TermSurface) put(col, row int, r rune, fg colorful.Color) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return
	}
	t.grid[row][col] = cell{r: r, fg: fg, set: true}
}

func (t *TermSurface) line(x1, y1, x2, y2 float64, fg colorful.Color) {
	steps := int(math.Ceil(math.Max(math.Abs(x2-x1), math.Abs(y2-y1)/CellAspect) * 2))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		x := x1 + (x2-x1)*f
		y := y1 + (y2-y1)*f
		t.put(int(math.Floor(x)), int(math.Floor(y/CellAspect)), '·', fg)
	}
}

func (t *TermSurface) disc(cx, cy, r float64, fg colorful.Color) {
	if r < 1 {
		t.put(int(math.Floor(cx)), int(math.Floor(cy/CellAspect)), '•', fg)
		return
	}
	minCol, maxCol := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	minRow, maxRow := int(math.Floor((cy-r)/CellAspect)), int(math.Ceil((cy+r)/CellAspect))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			px, py := CellToScreen(col, row)
			if (px-cx)*(px-cx)+(py-cy)*(py-cy) <= r*r {
				t.put(col, row, '█', fg)
			}
		}
	}
	// always mark the center cell so tiny nodes stay visible
	t.put(int(math.Floor(cx)), int(math.Floor(cy/CellAspect)), '█', fg)
}

func (t *TermSurface) text(sx, sy float64, s string, fg colorful.Color) {
	s = runewidth.Truncate(s, maxLabelWidth, "…")
	w := runewidth.StringWidth(s)
	col := int(math.Round(sx)) - w/2
	row := int(math.Floor(sy / CellAspect))
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		t.put(col, row, r, fg)
		for i := 1; i < rw; i++ {
			// wide runes occupy the following cell too
			t.put(col+i, row, 0, fg)
		}
		col += rw
	}
}

// render turns the grid into styled lines, one style per run of equal color.
func (t *TermSurface) render() string {
	var sb strings.Builder
	for ri, row := range t.grid {
		var run strings.Builder
		var runColor colorful.Color
		runSet := false

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runSet {
				sb.WriteString(lipgloss.NewStyle().Foreground(theme.Lipgloss(runColor)).Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}

		for _, c := range row {
			if c.set && c.r == 0 {
				continue
			}
			if c.set != runSet || (c.set && c.fg != runColor) {
				flush()
				runSet, runColor = c.set, c.fg
			}
			if c.set {
				run.WriteRune(c.r)
			} else {
				run.WriteByte(' ')
			}
		}
		flush()
		if ri < len(t.grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String returns the last frame.
func (t *TermSurface) String() string { return t.frame }

// Plain returns the last frame without styling, mainly for tests.
func (t *TermSurface) Plain() string {
	var sb strings.Builder
	for ri, row := range t.grid {
		for _, c := range row {
			switch {
			case c.set && c.r == 0:
			case c.set:
				sb.WriteRune(c.r)
			default:
				sb.WriteByte(' ')
			}
		}
		if ri < len(t.grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Release drops the grid.
func (t *TermSurface) Release() error {
	t.released = true
	t.grid = nil
	t.frame = ""
	return nil
}
