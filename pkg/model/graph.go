package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// TagPrefix is prepended to a tag name to form the id of its tag node.
const TagPrefix = "tags/"

// Node is a page in the link graph
type Node struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	URL   string   `json:"url,omitempty"`  // Absolute destination, wins over Href
	Href  string   `json:"href,omitempty"` // Relative or absolute link
}

// Label returns the display text for the node, falling back to its id.
func (n Node) Label() string {
	if strings.TrimSpace(n.Title) == "" {
		return n.ID
	}
	return n.Title
}

// IsTag reports whether the node was synthesized from a tag.
func (n Node) IsTag() bool {
	return strings.HasPrefix(n.ID, TagPrefix)
}

// Edge is an undirected cross-reference between two node ids
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Graph is the full link graph handed to a visualization
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Lookup returns the node with the given id.
func (g Graph) Lookup(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Index maps node ids to their position in Nodes.
func (g Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// WithTags returns a copy of g where every tag not listed in remove becomes a
// node linked to each page carrying it.
func (g Graph) WithTags(remove []string) Graph {
	skip := make(map[string]bool, len(remove))
	for _, t := range remove {
		skip[t] = true
	}

	out := Graph{
		Nodes: append([]Node(nil), g.Nodes...),
		Edges: append([]Edge(nil), g.Edges...),
	}
	existing := g.Index()
	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		linked := make(map[string]bool, len(n.Tags))
		for _, tag := range n.Tags {
			if tag == "" || skip[tag] || linked[tag] {
				continue
			}
			linked[tag] = true
			id := TagPrefix + tag
			if _, ok := existing[id]; !ok && !seen[id] {
				seen[id] = true
				out.Nodes = append(out.Nodes, Node{ID: id, Title: "#" + tag})
			}
			out.Edges = append(out.Edges, Edge{Source: n.ID, Target: id})
		}
	}
	return out
}

// contentEntry is one page of a content index keyed by slug.
type contentEntry struct {
	Title string   `json:"title"`
	Links []string `json:"links"`
	Tags  []string `json:"tags"`
	URL   string   `json:"url"`
	Href  string   `json:"href"`
}

// ParseGraph decodes either the {nodes, edges} form or a content index keyed
// by slug.
func ParseGraph(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("read graph: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Graph{}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Graph{}, fmt.Errorf("decode graph: %w", err)
	}
	_, hasNodes := probe["nodes"]
	_, hasEdges := probe["edges"]
	if hasNodes || hasEdges {
		var g Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return Graph{}, fmt.Errorf("decode graph: %w", err)
		}
		return g, nil
	}

	index := make(map[string]contentEntry, len(probe))
	if err := json.Unmarshal(data, &index); err != nil {
		return Graph{}, fmt.Errorf("decode content index: %w", err)
	}
	return fromContentIndex(index), nil
}

func fromContentIndex(index map[string]contentEntry) Graph {
	slugs := make([]string, 0, len(index))
	for slug := range index {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var g Graph
	for _, slug := range slugs {
		e := index[slug]
		g.Nodes = append(g.Nodes, Node{
			ID:    slug,
			Title: e.Title,
			Tags:  e.Tags,
			URL:   e.URL,
			Href:  e.Href,
		})
		for _, target := range e.Links {
			g.Edges = append(g.Edges, Edge{Source: slug, Target: target})
		}
	}
	return g
}

// LoadGraph reads a graph file from disk.
func LoadGraph(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, err
	}
	defer f.Close()

	g, err := ParseGraph(f)
	if err != nil {
		return Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
