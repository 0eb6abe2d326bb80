package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
)

// ColorRole is the classification a node is colored by.
type ColorRole int

const (
	RoleDefault ColorRole = iota // Not yet visited
	RoleVisited                  // Visited page or tag
	RoleCurrent                  // Focal node
)

func (r ColorRole) String() string {
	switch r {
	case RoleCurrent:
		return "current"
	case RoleVisited:
		return "visited"
	default:
		return "default"
	}
}

// Classify returns the role of id. The focal node is Current even when it is
// in the visited set.
func Classify(id, focal string, visited map[string]bool) ColorRole {
	switch {
	case id == focal:
		return RoleCurrent
	case visited[id]:
		return RoleVisited
	default:
		return RoleDefault
	}
}

func roleColor(p theme.Palette, role ColorRole) colorful.Color {
	switch role {
	case RoleCurrent:
		return p.Current
	case RoleVisited:
		return p.Visited
	default:
		return p.Default
	}
}

// NodeWeight is the radius of a node with the given degree, shared by the
// drawable and the collision force.
func NodeWeight(degree int) float64 {
	return 2 + math.Sqrt(float64(degree))
}

// NodeState is the view state of one retained node. Index is the node's
// position in the physics simulation.
type NodeState struct {
	Index  int
	Node   model.Node
	Degree int
	Radius float64
	Role   ColorRole
	Color  colorful.Color

	Alpha  float64
	Active bool

	LabelAlpha float64
	LabelScale float64

	// label alpha to return to once hover ends
	restLabelAlpha float64

	circle *scene.Circle
	label  *scene.Label
}

// ID returns the node id.
func (n *NodeState) ID() string { return n.Node.ID }

// LinkState is the view state of one retained edge. Source and Target index
// into Store.Nodes.
type LinkState struct {
	Source, Target int
	Alpha          float64
	Active         bool

	// Highlight blends the link color from the idle to the active color.
	Highlight float64

	line *scene.Line
}

// Store holds every NodeState and LinkState of a visualization.
type Store struct {
	Nodes []*NodeState
	Links []*LinkState

	byID    map[string]int
	palette theme.Palette
}

// newStore builds view state 1:1 with the retained subgraph.
func newStore(res neighborhood.Result, focal string, visited map[string]bool, palette theme.Palette) *Store {
	s := &Store{
		Nodes:   make([]*NodeState, 0, len(res.Nodes)),
		byID:    make(map[string]int, len(res.Nodes)),
		palette: palette,
	}
	degree := res.Degree()
	for i, n := range res.Nodes {
		role := Classify(n.ID, focal, visited)
		if n.IsTag() && role != RoleCurrent {
			role = RoleVisited
		}
		s.byID[n.ID] = i
		s.Nodes = append(s.Nodes, &NodeState{
			Index:  i,
			Node:   n,
			Degree: degree[n.ID],
			Radius: NodeWeight(degree[n.ID]),
			Role:   role,
			Color:  roleColor(palette, role),
			Alpha:  1,
		})
	}
	for _, e := range res.Edges {
		src, okS := s.byID[e.Source]
		dst, okT := s.byID[e.Target]
		if !okS || !okT {
			continue
		}
		s.Links = append(s.Links, &LinkState{Source: src, Target: dst, Alpha: 1})
	}
	return s
}

// Node returns the state of id.
func (s *Store) Node(id string) (*NodeState, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.Nodes[i], true
}

// SetActive marks the hovered node, every link touching it and every node at
// the other end of such a link as active. Everything else is cleared first,
// so switching directly between two hovered nodes leaves no stale flags. An
// empty id clears all flags.
func (s *Store) SetActive(id string) {
	for _, n := range s.Nodes {
		n.Active = false
	}
	for _, l := range s.Links {
		l.Active = false
	}
	hovered, ok := s.byID[id]
	if !ok {
		return
	}
	s.Nodes[hovered].Active = true
	for _, l := range s.Links {
		if l.Source != hovered && l.Target != hovered {
			continue
		}
		l.Active = true
		s.Nodes[l.Source].Active = true
		s.Nodes[l.Target].Active = true
	}
}

// ActiveIDs lists the ids of active nodes in store order.
func (s *Store) ActiveIDs() []string {
	var ids []string
	for _, n := range s.Nodes {
		if n.Active {
			ids = append(ids, n.Node.ID)
		}
	}
	return ids
}

// LinkColor returns the current color of l.
func (s *Store) LinkColor(l *LinkState) colorful.Color {
	return s.palette.Link.BlendRgb(s.palette.LinkActive, clamp01(l.Highlight))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
