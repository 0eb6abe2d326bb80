// Package viz renders the ego network around one page as an interactive,
// force-directed node-link diagram.
//
// A Visualization is driven by its host: Tick advances the physics, Step
// draws one frame, and the Pointer* methods feed input into the hover, drag
// and zoom state machines. None of it is safe for concurrent use; hosts call
// everything from one goroutine.
package viz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Dicklesworthstone/egograph/pkg/anim"
	"github.com/Dicklesworthstone/egograph/pkg/gesture"
	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/navigate"
	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
	"github.com/Dicklesworthstone/egograph/pkg/physics"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/visited"
)

var (
	// ErrNoSurface is returned by New when no drawing surface was supplied.
	ErrNoSurface = errors.New("viz: no drawing surface")
	// ErrTornDown is returned by Step after Teardown.
	ErrTornDown = errors.New("viz: visualization torn down")
)

// Options configures a visualization
type Options struct {
	Graph  model.Graph
	Focus  string // Current page id
	Config Config

	Width, Height float64       // Viewport in world units
	Surface       scene.Surface // Required
	Palette       *theme.Palette

	Tracker  *visited.Tracker   // Defaults to an in-memory tracker
	Resolver *navigate.Resolver // Nil resolves every node to its id
	Navigate func(id, url string)

	Logger *zap.Logger
	Clock  func() time.Time
}

// Visualization is one open graph view.
type Visualization struct {
	cfg     Config
	focus   string
	width   float64
	height  float64
	palette theme.Palette

	graph    neighborhood.Result
	sim      *physics.Simulation
	store    *Store
	scene    *scene.Scene
	surface  scene.Surface
	anims    *anim.Coordinator
	zoom     *gesture.Zoom
	tracker  *visited.Tracker
	resolver *navigate.Resolver
	navigate func(id, url string)

	hovered string
	drag    *dragState
	pan     *gesture.Drag
	press   string // node under a plain click when dragging is disabled

	frames   int
	tornDown bool

	logger *zap.Logger
	clock  func() time.Time
}

// New extracts the neighborhood of opts.Focus, marks the focus visited, seeds
// the layout and builds the scene. Only a missing or unusable surface fails;
// an unknown focus yields an empty scene.
func New(ctx context.Context, opts Options) (*Visualization, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport %gx%g", scene.ErrSurfaceUnavailable, opts.Width, opts.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	palette := theme.Resolve(theme.Dark)
	if opts.Palette != nil {
		palette = *opts.Palette
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = visited.NewTracker(visited.NewMemoryStore(), logger)
	}
	cfg := opts.Config.normalized()

	g := opts.Graph
	if cfg.ShowTags {
		g = g.WithTags(cfg.RemoveTags)
	}
	res := neighborhood.Extract(g, opts.Focus, cfg.Depth)
	if len(res.Duplicates) > 0 {
		logger.Debug("dropped duplicate nodes", zap.Strings("ids", res.Duplicates))
	}
	if len(res.Nodes) == 0 {
		logger.Info("empty neighborhood", zap.String("focus", opts.Focus))
	}

	if err := tracker.MarkVisited(ctx, opts.Focus); err != nil {
		logger.Warn("mark visited", zap.String("focus", opts.Focus), zap.Error(err))
	}
	seen, err := tracker.Visited(ctx)
	if err != nil {
		logger.Warn("load visited", zap.Error(err))
		seen = map[string]bool{}
	}

	v := &Visualization{
		cfg:      cfg,
		focus:    opts.Focus,
		width:    opts.Width,
		height:   opts.Height,
		palette:  palette,
		graph:    res,
		store:    newStore(res, opts.Focus, seen, palette),
		surface:  opts.Surface,
		anims:    anim.NewCoordinator(anim.QuadOut, logger),
		tracker:  tracker,
		resolver: opts.Resolver,
		navigate: opts.Navigate,
		logger:   logger,
		clock:    clock,
	}
	v.sim = v.newSimulation()
	v.buildScene()

	v.zoom = gesture.NewZoom(gesture.MinScale, gesture.MaxScale, v.onZoom)
	v.zoom.Reset()

	logger.Debug("visualization ready",
		zap.String("focus", opts.Focus),
		zap.Int("nodes", len(v.store.Nodes)),
		zap.Int("links", len(v.store.Links)),
		zap.Int("depth", cfg.Depth))
	return v, nil
}

func (v *Visualization) newSimulation() *physics.Simulation {
	nodes := make([]physics.Node, len(v.store.Nodes))
	for i, n := range v.store.Nodes {
		nodes[i] = physics.Node{ID: n.Node.ID, Radius: n.Radius}
	}
	links := make([]physics.Link, len(v.store.Links))
	for i, l := range v.store.Links {
		links[i] = physics.Link{Source: l.Source, Target: l.Target}
	}
	return physics.New(nodes, links, physics.Options{
		RepelForce:   v.cfg.RepelForce,
		CenterForce:  v.cfg.CenterForce,
		LinkDistance: v.cfg.LinkDistance,
		Radial:       v.cfg.EnableRadial,
		RadialRadius: 0.8 * min(v.width, v.height) / 2,
	})
}

// buildScene creates one drawable per link, node and label. Links go first
// so they render beneath nodes.
func (v *Visualization) buildScene() {
	v.scene = scene.New(v.width, v.height, v.palette.Background)
	v.scene.Title = v.focus
	for _, l := range v.store.Links {
		l.line = v.scene.AddLine(scene.Line{Color: v.store.LinkColor(l), Alpha: l.Alpha, Width: 1})
	}
	for _, n := range v.store.Nodes {
		n.circle = v.scene.AddCircle(scene.Circle{
			ID:     n.Node.ID,
			Radius: n.Radius,
			Fill:   n.Color,
			Alpha:  n.Alpha,
		})
	}
	for _, n := range v.store.Nodes {
		n.LabelScale = v.defaultLabelScale()
		n.label = v.scene.AddLabel(scene.Label{
			ID:    n.Node.ID,
			Text:  n.Node.Label(),
			Size:  baseFontSize * v.cfg.FontSize,
			Color: v.palette.Text,
			Scale: n.LabelScale,
		})
	}
}

// Tick advances the physics one step and reports whether it is still
// running.
func (v *Visualization) Tick() bool {
	if v.tornDown {
		return false
	}
	return v.sim.Tick()
}

// Reheat restarts the layout from full energy.
func (v *Visualization) Reheat() {
	if !v.tornDown {
		v.sim.Reheat()
	}
}

// Teardown stops the animations and the physics and releases the surface.
// Calling it again does nothing.
func (v *Visualization) Teardown() error {
	if v.tornDown {
		return nil
	}
	v.tornDown = true
	v.anims.StopAll()
	v.sim.Stop()
	v.drag = nil
	v.pan = nil
	if err := v.surface.Release(); err != nil {
		return fmt.Errorf("release surface: %w", err)
	}
	v.logger.Debug("visualization torn down", zap.String("focus", v.focus), zap.Int("frames", v.frames))
	return nil
}

// TornDown reports whether Teardown was called.
func (v *Visualization) TornDown() bool { return v.tornDown }

// Focus returns the focal node id.
func (v *Visualization) Focus() string { return v.focus }

// Config returns the normalized configuration.
func (v *Visualization) Config() Config { return v.cfg }

// Store exposes the view state for reading.
func (v *Visualization) Store() *Store { return v.store }

// Scene exposes the scene for reading.
func (v *Visualization) Scene() *scene.Scene { return v.scene }

// Neighborhood returns the retained subgraph.
func (v *Visualization) Neighborhood() neighborhood.Result { return v.graph }

// Simulation exposes the physics engine.
func (v *Visualization) Simulation() *physics.Simulation { return v.sim }

// Palette returns the colors the visualization was built with.
func (v *Visualization) Palette() theme.Palette { return v.palette }

// Frames returns how many frames were drawn.
func (v *Visualization) Frames() int { return v.frames }

// Resolve returns the destination URL of id.
func (v *Visualization) Resolve(id string) string {
	if v.resolver == nil {
		return id
	}
	return v.resolver.Resolve(id)
}

// worldPos returns a node's position in scene coordinates, which place the
// layout origin at the viewport center.
func (v *Visualization) worldPos(i int) r2.Vec {
	return r2.Add(v.sim.Node(i).Pos, v.center())
}

func (v *Visualization) center() r2.Vec {
	return r2.Vec{X: v.width / 2, Y: v.height / 2}
}

// ScreenPos returns where node id currently appears on screen.
func (v *Visualization) ScreenPos(id string) (x, y float64, ok bool) {
	n, ok := v.store.Node(id)
	if !ok {
		return 0, 0, false
	}
	p := v.worldPos(n.Index)
	x, y = v.zoom.Transform().Apply(p.X, p.Y)
	return x, y, true
}
