package viz

import "time"

// Config holds the options a visualization recognizes
type Config struct {
	Drag bool `yaml:"drag" toml:"drag"`
	Zoom bool `yaml:"zoom" toml:"zoom"`

	// Hop bound, negative for the whole graph
	Depth int `yaml:"depth" toml:"depth"`

	// Baseline label scale and zoom reference
	Scale float64 `yaml:"scale" toml:"scale"`

	// Forwarded to the physics engine
	RepelForce   float64 `yaml:"repel_force" toml:"repel_force"`
	CenterForce  float64 `yaml:"center_force" toml:"center_force"`
	LinkDistance float64 `yaml:"link_distance" toml:"link_distance"`

	// Label glyph size multiplier and steepness of the zoom-driven fade-in
	FontSize     float64 `yaml:"font_size" toml:"font_size"`
	OpacityScale float64 `yaml:"opacity_scale" toml:"opacity_scale"`

	// Dim non-neighbors while hovering
	FocusOnHover bool `yaml:"focus_on_hover" toml:"focus_on_hover"`

	ShowTags     bool     `yaml:"show_tags" toml:"show_tags"`
	RemoveTags   []string `yaml:"remove_tags" toml:"remove_tags"`
	EnableRadial bool     `yaml:"enable_radial" toml:"enable_radial"`
}

// DefaultLocal is the configuration for a page's local graph.
func DefaultLocal() Config {
	return Config{
		Drag:         true,
		Zoom:         true,
		Depth:        1,
		Scale:        1.1,
		RepelForce:   0.5,
		CenterForce:  0.3,
		LinkDistance: 30,
		FontSize:     0.6,
		OpacityScale: 1,
		ShowTags:     true,
	}
}

// DefaultGlobal is the configuration for the whole-site graph.
func DefaultGlobal() Config {
	c := DefaultLocal()
	c.Depth = -1
	c.Scale = 0.9
	c.FocusOnHover = true
	c.EnableRadial = true
	return c
}

// normalized fills zero values that would break rendering.
func (c Config) normalized() Config {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.FontSize <= 0 {
		c.FontSize = 0.6
	}
	if c.OpacityScale <= 0 {
		c.OpacityScale = 1
	}
	return c
}

// Rendering constants.
const (
	baseFontSize   = 15  // label glyph size at FontSize 1
	dimAlpha       = 0.2 // alpha of elements outside the hovered neighborhood
	hoverScale     = 1.1 // hovered label scale relative to its default
	labelOffset    = 4   // gap between a node and its label
	zoomFadeRange  = 3.75
	nodeDuration   = 200 * time.Millisecond
	linkDuration   = 200 * time.Millisecond
	labelDuration  = 100 * time.Millisecond
	ClickThreshold = 500 * time.Millisecond // pointer-up sooner than this after drag start counts as a click
)
