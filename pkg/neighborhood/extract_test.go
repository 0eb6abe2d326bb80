package neighborhood_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
)

func chain() model.Graph {
	return model.Graph{
		Nodes: []model.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		Edges: []model.Edge{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
			{Source: "C", Target: "D"},
		},
	}
}

func ids(nodes []model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	sort.Strings(out)
	return out
}

func TestExtractChain(t *testing.T) {
	tests := []struct {
		name      string
		depth     int
		wantNodes []string
		wantEdges int
	}{
		{"depth zero keeps focal", 0, []string{"A"}, 0},
		{"depth one", 1, []string{"A", "B"}, 1},
		{"depth two", 2, []string{"A", "B", "C"}, 2},
		{"depth beyond diameter", 10, []string{"A", "B", "C", "D"}, 3},
		{"unbounded", -1, []string{"A", "B", "C", "D"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := neighborhood.Extract(chain(), "A", tt.depth)
			assert.Equal(t, tt.wantNodes, ids(res.Nodes))
			assert.Len(t, res.Edges, tt.wantEdges)
		})
	}
}

func TestExtractDepthTwoEdges(t *testing.T) {
	res := neighborhood.Extract(chain(), "A", 2)
	assert.ElementsMatch(t, []model.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	}, res.Edges)
}

func TestExtractIsUndirected(t *testing.T) {
	res := neighborhood.Extract(chain(), "D", 1)
	assert.Equal(t, []string{"C", "D"}, ids(res.Nodes))
}

func TestExtractDropsDanglingEdges(t *testing.T) {
	g := chain()
	g.Edges = append(g.Edges,
		model.Edge{Source: "A", Target: "ghost"},
		model.Edge{Source: "ghost", Target: "B"},
	)

	res := neighborhood.Extract(g, "A", -1)
	assert.Len(t, res.Edges, 3)
	assert.False(t, res.Has("ghost"))
}

func TestExtractKeepsFirstOfRepeatedIDs(t *testing.T) {
	g := model.Graph{
		Nodes: []model.Node{{ID: "A"}, {ID: "B", Title: "first"}, {ID: "B", Title: "second"}},
		Edges: []model.Edge{{Source: "A", Target: "B"}},
	}

	for _, depth := range []int{1, -1} {
		res := neighborhood.Extract(g, "A", depth)
		require.Equal(t, []string{"A", "B"}, ids(res.Nodes), "depth %d", depth)
		for _, n := range res.Nodes {
			if n.ID == "B" {
				assert.Equal(t, "first", n.Title)
			}
		}
		assert.Equal(t, []string{"B"}, res.Duplicates)
		assert.Len(t, res.Edges, 1)
	}
}

func TestExtractMissingFocal(t *testing.T) {
	res := neighborhood.Extract(chain(), "nope", 2)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Edges)
}

func TestExtractIsolatedFocal(t *testing.T) {
	g := chain()
	g.Nodes = append(g.Nodes, model.Node{ID: "E"})

	res := neighborhood.Extract(g, "E", 3)
	assert.Equal(t, []string{"E"}, ids(res.Nodes))
}

func TestDegree(t *testing.T) {
	res := neighborhood.Extract(chain(), "B", 1)
	deg := res.Degree()
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 1}, deg)
}

// distances is an independent shortest-hop computation used as an oracle.
func distances(g model.Graph, from string) map[string]int {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if _, ok := dist[n]; !ok {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

func TestExtractMatchesShortestHops(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(25)
		var g model.Graph
		for i := 0; i < n; i++ {
			g.Nodes = append(g.Nodes, model.Node{ID: fmt.Sprintf("n%d", i)})
		}
		edges := rng.Intn(n * 2)
		for i := 0; i < edges; i++ {
			g.Edges = append(g.Edges, model.Edge{
				Source: fmt.Sprintf("n%d", rng.Intn(n)),
				Target: fmt.Sprintf("n%d", rng.Intn(n)),
			})
		}
		focal := fmt.Sprintf("n%d", rng.Intn(n))
		dist := distances(g, focal)

		for depth := 0; depth <= 4; depth++ {
			res := neighborhood.Extract(g, focal, depth)

			var want []string
			for id, d := range dist {
				if d <= depth {
					want = append(want, id)
				}
			}
			sort.Strings(want)
			require.Equal(t, want, ids(res.Nodes), "trial %d depth %d", trial, depth)

			kept := make(map[string]bool)
			for _, id := range want {
				kept[id] = true
			}
			wantEdges := 0
			for _, e := range g.Edges {
				if kept[e.Source] && kept[e.Target] {
					wantEdges++
				}
			}
			require.Len(t, res.Edges, wantEdges, "trial %d depth %d", trial, depth)
			for _, e := range res.Edges {
				require.True(t, kept[e.Source] && kept[e.Target])
			}
		}
	}
}
