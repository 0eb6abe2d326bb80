// Package neighborhood reduces a full link graph to the ego network around
// one focal node.
//
// Traversal is breadth-first over undirected edges. A boundary marker is
// queued after each hop so the walker knows when it has crossed into the
// next ring and can spend one unit of depth.
package neighborhood

import (
	"github.com/Dicklesworthstone/egograph/pkg/model"
)

// Result is the retained subgraph. Node order follows the input graph and is
// only meant for building lookups.
type Result struct {
	Nodes []model.Node
	Edges []model.Edge

	// Duplicates lists ids that appeared more than once in the input. Only
	// the first node with each id is kept.
	Duplicates []string
}

// Has reports whether id was retained.
func (r Result) Has(id string) bool {
	for _, n := range r.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Degree counts retained edges touching each retained node.
func (r Result) Degree() map[string]int {
	deg := make(map[string]int, len(r.Nodes))
	for _, n := range r.Nodes {
		deg[n.ID] = 0
	}
	for _, e := range r.Edges {
		deg[e.Source]++
		if e.Target != e.Source {
			deg[e.Target]++
		}
	}
	return deg
}

// queueItem is either a vertex id or a hop boundary.
type queueItem struct {
	id       string
	boundary bool
}

// walker holds the mutable traversal state.
type walker struct {
	adjacency map[string][]string
	queue     []queueItem
	reached   map[string]bool
}

// Extract returns every node within depth undirected hops of focal, plus the
// edges whose endpoints were both retained. A negative depth keeps the whole
// graph. Edges naming unknown nodes are dropped, as are repeated node ids. A
// focal id absent from the graph yields an empty result.
func Extract(g model.Graph, focal string, depth int) Result {
	known := make(map[string]bool, len(g.Nodes))
	nodes := make([]model.Node, 0, len(g.Nodes))
	var dups []string
	for _, n := range g.Nodes {
		if known[n.ID] {
			dups = append(dups, n.ID)
			continue
		}
		known[n.ID] = true
		nodes = append(nodes, n)
	}

	var valid []model.Edge
	for _, e := range g.Edges {
		if known[e.Source] && known[e.Target] {
			valid = append(valid, e)
		}
	}

	var keep map[string]bool
	if depth < 0 {
		keep = known
	} else {
		if !known[focal] {
			return Result{Duplicates: dups}
		}
		w := newWalker(valid)
		keep = w.walk(focal, depth)
	}

	res := Result{Duplicates: dups}
	for _, n := range nodes {
		if keep[n.ID] {
			res.Nodes = append(res.Nodes, n)
		}
	}
	for _, e := range valid {
		if keep[e.Source] && keep[e.Target] {
			res.Edges = append(res.Edges, e)
		}
	}
	return res
}

func newWalker(edges []model.Edge) *walker {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		if e.Target != e.Source {
			adj[e.Target] = append(adj[e.Target], e.Source)
		}
	}
	return &walker{
		adjacency: adj,
		reached:   make(map[string]bool),
	}
}

// walk consumes the queue until the depth budget is spent or only boundary
// markers remain.
func (w *walker) walk(focal string, depth int) map[string]bool {
	w.queue = append(w.queue, queueItem{id: focal}, queueItem{boundary: true})
	remaining := depth

	for remaining >= 0 && len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]

		if item.boundary {
			remaining--
			if len(w.queue) == 0 {
				break
			}
			w.queue = append(w.queue, queueItem{boundary: true})
			continue
		}

		if w.reached[item.id] {
			continue
		}
		w.reached[item.id] = true
		for _, nbr := range w.adjacency[item.id] {
			if !w.reached[nbr] {
				w.queue = append(w.queue, queueItem{id: nbr})
			}
		}
	}
	return w.reached
}
