package physics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Node is a body in the force simulation
type Node struct {
	Index  int
	ID     string
	Pos    r2.Vec  // Position
	Vel    r2.Vec  // Velocity
	Fixed  *r2.Vec // Pinned position, nil when free
	Radius float64 // Collision radius
}

// Pin fixes the node at p until Unpin is called.
func (n *Node) Pin(p r2.Vec) {
	n.Fixed = &r2.Vec{X: p.X, Y: p.Y}
}

// Unpin releases a pinned node.
func (n *Node) Unpin() {
	n.Fixed = nil
}

// Link connects two nodes by index
type Link struct {
	Source, Target int
}

// Options configures the forces
type Options struct {
	RepelForce   float64 // Many-body repulsion, scaled by -100 (default 0.5)
	CenterForce  float64 // Pull of the layout centroid toward the origin (default 0.3)
	LinkDistance float64 // Rest length of links (default 30)
	Radial       bool    // Adds a ring-shaped radial force
	RadialRadius float64 // Radius of the ring when Radial is set (default 120)
	Iterations   int     // Collision passes per tick (default 3)
}

const (
	alphaMin      = 0.001
	velocityDecay = 0.4
	radialPull    = 0.2
)

// Simulation integrates forces one tick at a time
type Simulation struct {
	nodes []Node
	links []Link
	opts  Options

	linkStrength []float64
	linkBias     []float64

	alpha       float64
	alphaTarget float64
	alphaDecay  float64
	stopped     bool

	rng    *rand.Rand
	onTick []func()
}

// New builds a simulation over nodes and links. Node positions are re-seeded
// on a spiral, so repeated runs over the same input start identically.
func New(nodes []Node, links []Link, opts Options) *Simulation {
	// Set defaults
	if opts.RepelForce == 0 {
		opts.RepelForce = 0.5
	}
	if opts.CenterForce == 0 {
		opts.CenterForce = 0.3
	}
	if opts.LinkDistance == 0 {
		opts.LinkDistance = 30
	}
	if opts.RadialRadius == 0 {
		opts.RadialRadius = 120
	}
	if opts.Iterations == 0 {
		opts.Iterations = 3
	}

	s := &Simulation{
		nodes:      make([]Node, len(nodes)),
		opts:       opts,
		alpha:      1,
		alphaDecay: 1 - math.Pow(alphaMin, 1.0/300),
		rng:        rand.New(rand.NewSource(42)), // Deterministic jiggle
	}
	copy(s.nodes, nodes)

	// Phyllotaxis seeding
	initialAngle := math.Pi * (3 - math.Sqrt(5))
	for i := range s.nodes {
		s.nodes[i].Index = i
		s.nodes[i].Vel = r2.Vec{}
		radius := 10 * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		s.nodes[i].Pos = r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}

	// Drop links to unknown indices
	count := make([]int, len(s.nodes))
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(s.nodes) || l.Target < 0 || l.Target >= len(s.nodes) {
			continue
		}
		s.links = append(s.links, l)
		count[l.Source]++
		count[l.Target]++
	}
	s.linkStrength = make([]float64, len(s.links))
	s.linkBias = make([]float64, len(s.links))
	for i, l := range s.links {
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		s.linkStrength[i] = 1 / math.Min(cs, ct)
		s.linkBias[i] = cs / (cs + ct)
	}
	return s
}

// Len returns the number of nodes.
func (s *Simulation) Len() int { return len(s.nodes) }

// Node returns the i-th node for reading or pinning.
func (s *Simulation) Node(i int) *Node { return &s.nodes[i] }

// Links returns the retained links.
func (s *Simulation) Links() []Link { return s.links }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the energy the simulation is decaying toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the energy the simulation decays toward. A target above
// the cooling threshold keeps the simulation running.
func (s *Simulation) SetAlphaTarget(t float64) {
	s.alphaTarget = math.Max(0, math.Min(1, t))
}

// Restart resumes a stopped simulation.
func (s *Simulation) Restart() {
	s.stopped = false
}

// Reheat resets the energy to its initial value.
func (s *Simulation) Reheat() {
	s.stopped = false
	s.alpha = 1
}

// Stop halts integration until Restart.
func (s *Simulation) Stop() { s.stopped = true }

// OnTick registers fn to run after every integration step.
func (s *Simulation) OnTick(fn func()) {
	s.onTick = append(s.onTick, fn)
}

// Running reports whether the next Tick would integrate.
func (s *Simulation) Running() bool {
	if s.stopped {
		return false
	}
	return s.alpha >= alphaMin || s.alphaTarget >= alphaMin
}

// Tick advances the simulation one step. It returns false once the
// simulation has cooled or was stopped.
func (s *Simulation) Tick() bool {
	if !s.Running() {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyLinks()
	s.applyManyBody()
	if s.opts.Radial {
		s.applyRadial()
	}
	for i := 0; i < s.opts.Iterations; i++ {
		s.applyCollide()
	}
	s.applyCenter()

	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Fixed != nil {
			n.Pos = *n.Fixed
			n.Vel = r2.Vec{}
			continue
		}
		n.Vel = r2.Scale(1-velocityDecay, n.Vel)
		n.Pos = r2.Add(n.Pos, n.Vel)
	}

	for _, fn := range s.onTick {
		fn()
	}
	return true
}

// jiggle returns a tiny random offset used to separate coincident nodes.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
