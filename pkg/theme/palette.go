package theme

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Scheme names a color scheme.
type Scheme string

const (
	Auto  Scheme = "auto"
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

// Palette is a snapshot of the colors a visualization draws with. It is
// resolved once when the visualization starts.
type Palette struct {
	Name       Scheme
	Background colorful.Color
	Current    colorful.Color // Focal node
	Visited    colorful.Color // Visited pages and tags
	Default    colorful.Color // Unvisited pages
	Link       colorful.Color // Idle link
	LinkActive colorful.Color // Link touching the hovered node
	Text       colorful.Color
}

var (
	// paper-like site theme
	lightPalette = Palette{
		Name:       Light,
		Background: hex("#faf8f8"),
		Current:    hex("#284b63"),
		Visited:    hex("#84a59d"),
		Default:    hex("#b8b8b8"),
		Link:       hex("#e5e5e5"),
		LinkActive: hex("#b8b8b8"),
		Text:       hex("#2b2b2b"),
	}

	// Dracula-inspired
	darkPalette = Palette{
		Name:       Dark,
		Background: hex("#1e1e2e"),
		Current:    hex("#bd93f9"),
		Visited:    hex("#50fa7b"),
		Default:    hex("#6272a4"),
		Link:       hex("#393950"),
		LinkActive: hex("#8be9fd"),
		Text:       hex("#f8f8f2"),
	}
)

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("theme: bad color " + s)
	}
	return c
}

// ParseScheme accepts auto, light, or dark (case-insensitive); anything else
// is Auto.
func ParseScheme(s string) Scheme {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light
	case Dark:
		return Dark
	default:
		return Auto
	}
}

// Resolve returns the palette for scheme. Auto asks the terminal whether its
// background is dark.
func Resolve(scheme Scheme) Palette {
	switch scheme {
	case Light:
		return lightPalette
	case Dark:
		return darkPalette
	default:
		if lipgloss.HasDarkBackground() {
			return darkPalette
		}
		return lightPalette
	}
}

// WithOverrides replaces palette entries from a map of role name to hex
// color. Unknown roles and malformed colors are ignored.
func (p Palette) WithOverrides(overrides map[string]string) Palette {
	for role, value := range overrides {
		c, err := colorful.Hex(value)
		if err != nil {
			continue
		}
		switch strings.ToLower(role) {
		case "background":
			p.Background = c
		case "current":
			p.Current = c
		case "visited":
			p.Visited = c
		case "default":
			p.Default = c
		case "link":
			p.Link = c
		case "link_active":
			p.LinkActive = c
		case "text":
			p.Text = c
		}
	}
	return p
}

// Fade blends c toward bg by (1 - alpha), for targets without an alpha channel.
func Fade(c, bg colorful.Color, alpha float64) colorful.Color {
	return bg.BlendRgb(c, clamp01(alpha)).Clamped()
}

// RGBA converts c with alpha in [0,1] to a non-premultiplied color.RGBA.
func RGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(alpha)*255 + 0.5)}
}

// Lipgloss converts c for terminal styling.
func Lipgloss(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
