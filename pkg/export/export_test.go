package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

func sampleGraph() model.Graph {
	return model.Graph{
		Nodes: []model.Node{
			{ID: "index", Title: "Home"},
			{ID: "notes/go", Title: "Go | notes"},
			{ID: "notes/go-", Title: "Go dash"},
			{ID: "tags/lang", Title: "#lang"},
			{ID: "far"},
		},
		Edges: []model.Edge{
			{Source: "index", Target: "notes/go"},
			{Source: "index", Target: "notes/go-"},
			{Source: "notes/go", Target: "tags/lang"},
			{Source: "tags/lang", Target: "far"},
		},
	}
}

func TestSanitizeMermaid(t *testing.T) {
	assert.Equal(t, "notesgo", sanitizeMermaidID("notes/go"))
	assert.Equal(t, "node", sanitizeMermaidID("///"))
	assert.Equal(t, "a (b) 'c'", sanitizeMermaidText("a [b] \"c\""))
	long := strings.Repeat("x", 60)
	assert.Equal(t, 40, len([]rune(sanitizeMermaidText(long))))
}

func TestMermaidIDsAreUnique(t *testing.T) {
	ids := mermaidIDs([]ReportNode{{ID: "a/b"}, {ID: "ab"}, {ID: "a-b"}})
	assert.Equal(t, "ab", ids["a/b"])
	assert.Equal(t, "ab_1", ids["ab"])
	assert.Equal(t, "a-b", ids["a-b"])
}

func TestNewReportOrdersByRole(t *testing.T) {
	res := neighborhood.Extract(sampleGraph(), "index", 2)
	r := NewReport(res, "index", 2, map[string]bool{"notes/go-": true}, func(id string) string {
		return "https://example.com/" + id
	})

	require.Len(t, r.Nodes, 4)
	assert.Equal(t, "index", r.Nodes[0].ID)
	assert.Equal(t, "current", r.Nodes[0].Role)
	assert.Equal(t, "visited", r.Nodes[1].Role)
	assert.Equal(t, "visited", r.Nodes[2].Role)
	assert.Equal(t, "notes/go", r.Nodes[3].ID)
	assert.Equal(t, "default", r.Nodes[3].Role)
	assert.Equal(t, "https://example.com/notes/go", r.Nodes[3].URL)
	assert.Len(t, r.Edges, 3)
}

func TestGenerateMarkdown(t *testing.T) {
	res := neighborhood.Extract(sampleGraph(), "index", 1)
	r := NewReport(res, "index", 1, nil, nil)
	r.Generated = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	md, err := GenerateMarkdown(r, "Neighborhood")
	require.NoError(t, err)

	assert.Contains(t, md, "# Neighborhood")
	assert.Contains(t, md, "| **Nodes** | 3 |")
	assert.Contains(t, md, "| Links | 2 |")
	assert.Contains(t, md, "Go \\| notes", "pipes in titles are escaped")
	assert.Contains(t, md, "```mermaid\ngraph LR")
	assert.Contains(t, md, "index --- notesgo\n")
	assert.Contains(t, md, "class index current")
}

func TestGenerateMarkdownEmpty(t *testing.T) {
	r := NewReport(neighborhood.Result{}, "missing", -1, nil, nil)
	md, err := GenerateMarkdown(r, "Neighborhood")
	require.NoError(t, err)
	assert.Contains(t, md, "| Depth | unbounded |")
	assert.Contains(t, md, "not part of the graph")
	assert.NotContains(t, md, "mermaid")
}

func TestSaveMarkdownToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	res := neighborhood.Extract(sampleGraph(), "far", 1)
	require.NoError(t, SaveMarkdownToFile(NewReport(res, "far", 1, nil, nil), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Neighborhood of far"))
}

func TestSnapshotFormat(t *testing.T) {
	assert.Equal(t, "png", snapshotFormat("", "out/a.PNG"))
	assert.Equal(t, "svg", snapshotFormat("", "out/a.txt"))
	assert.Equal(t, "png", snapshotFormat("PNG", "out/a.svg"))
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := viz.DefaultLocal()
	cfg.Depth = 2

	png := filepath.Join(dir, "nested", "index.png")
	require.NoError(t, SaveSnapshot(context.Background(), SnapshotOptions{
		Graph: sampleGraph(), Focus: "index", Config: cfg, Path: png, Width: 320, Height: 240, Ticks: 40, Labels: true,
	}))
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	svgPath := filepath.Join(dir, "index.svg")
	require.NoError(t, SaveSnapshot(context.Background(), SnapshotOptions{
		Graph: sampleGraph(), Focus: "index", Config: cfg, Path: svgPath, Ticks: 40, Labels: true,
	}))
	data, err = os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), ">Home<")
}

func TestSaveSnapshotRejectsFormat(t *testing.T) {
	err := SaveSnapshot(context.Background(), SnapshotOptions{
		Graph: sampleGraph(), Focus: "index", Config: viz.DefaultLocal(),
		Path: filepath.Join(t.TempDir(), "x"), Format: "gif",
	})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	base := SnapshotOptions{Graph: sampleGraph(), Config: viz.DefaultGlobal(), Format: "svg", Ticks: 20}

	paths, err := RenderAll(context.Background(), base, []string{"index", "notes/go", "far"}, dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "notes-go.svg"), paths[1])
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	_, err = RenderAll(context.Background(), SnapshotOptions{Graph: sampleGraph(), Format: "bmp"}, []string{"index"}, dir)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderAllCollidingSlugs(t *testing.T) {
	dir := t.TempDir()
	base := SnapshotOptions{Graph: sampleGraph(), Config: viz.DefaultLocal(), Format: "svg", Ticks: 5}

	paths, err := RenderAll(context.Background(), base, []string{"日本", "中文", "Go/Notes", "go-notes", "graph-2"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "graph.svg"),
		filepath.Join(dir, "graph-2.svg"),
		filepath.Join(dir, "go-notes.svg"),
		filepath.Join(dir, "go-notes-2.svg"),
		filepath.Join(dir, "graph-2-2.svg"),
	}, paths)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}
