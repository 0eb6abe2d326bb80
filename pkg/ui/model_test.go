package ui

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/navigate"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

func pair() model.Graph {
	return model.Graph{
		Nodes: []model.Node{{ID: "A", Title: "Alpha"}, {ID: "B", Title: "Beta"}, {ID: "C", Title: "Gamma"}},
		Edges: []model.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
	}
}

func newTestModel(t *testing.T, copied *[]string) *Model {
	t.Helper()
	local := viz.DefaultLocal()
	local.ShowTags = false
	global := viz.DefaultGlobal()
	global.ShowTags = false

	m, err := New(Options{
		Graph:      pair(),
		Focus:      "A",
		Local:      local,
		GlobalConf: global,
		Palette:    theme.Resolve(theme.Dark),
		Resolver: func(nodes []model.Node) (*navigate.Resolver, error) {
			return navigate.NewResolver("https://example.com", "/", "", nodes)
		},
		Copy: func(s string) error {
			if copied != nil {
				*copied = append(*copied, s)
			}
			return nil
		},
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, m.Visualization())
	t.Cleanup(func() { m.Close() })
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellOf returns the terminal cell showing node id.
func cellOf(t *testing.T, m *Model, id string) (int, int) {
	t.Helper()
	x, y, ok := m.Visualization().ScreenPos(id)
	require.True(t, ok)
	return int(math.Floor(x)), int(math.Floor(y/scene.CellAspect)) + 1
}

func TestWindowSizeBuildsVisualization(t *testing.T) {
	m := newTestModel(t, nil)
	v := m.Visualization()
	assert.Equal(t, "A", v.Focus())
	assert.Len(t, v.Store().Nodes, 2)

	view := m.View()
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "2 nodes")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 30)
}

func TestToggleGlobal(t *testing.T) {
	m := newTestModel(t, nil)
	old := m.Visualization()

	m.Update(runes("g"))
	assert.True(t, old.TornDown(), "previous visualization is torn down")
	assert.Len(t, m.Visualization().Store().Nodes, 3)
	assert.Contains(t, m.View(), "global")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestZoomKeys(t *testing.T) {
	m := newTestModel(t, nil)
	k := m.Visualization().Transform().K
	m.Update(runes("+"))
	assert.InDelta(t, math.Min(k*zoomStep, 4), m.Visualization().Transform().K, 1e-9)
	m.Update(runes("0"))
	assert.Equal(t, 1.0, m.Visualization().Transform().K)
}

func TestClickRefocuses(t *testing.T) {
	m := newTestModel(t, nil)
	col, row := cellOf(t, m, "B")

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	assert.Equal(t, "B", m.Visualization().Hovered())

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease})

	assert.Equal(t, "B", m.Focus())
	assert.Equal(t, "B", m.Visualization().Focus())
	assert.Len(t, m.Visualization().Store().Nodes, 3, "B's neighborhood holds A and C")

	a, ok := m.Visualization().Store().Node("A")
	require.True(t, ok)
	assert.Equal(t, viz.RoleVisited, a.Role, "the previous page is remembered as visited")
}

func TestWheelZooms(t *testing.T) {
	m := newTestModel(t, nil)
	k := m.Visualization().Transform().K
	m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Less(t, m.Visualization().Transform().K, k)
}

func TestCopyURL(t *testing.T) {
	var copied []string
	m := newTestModel(t, &copied)
	m.Update(runes("y"))
	require.Equal(t, []string{"https://example.com/A.html"}, copied)
	assert.Contains(t, m.View(), "copied")
}

func TestNeighborList(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.showList)
	assert.Contains(t, m.View(), "NEIGHBORS (2)")

	assert.Equal(t, "A", m.list.SelectedID())
	m.Update(runes("j"))
	assert.Equal(t, "B", m.list.SelectedID())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "B", m.Focus())
}

func TestTicksKeepRunning(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(physicsTickMsg{})
	assert.NotNil(t, cmd)
	frames := m.Visualization().Frames()
	_, cmd = m.Update(frameTickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, frames+1, m.Visualization().Frames())
}

func TestNeighborsModelEmpty(t *testing.T) {
	list := NewNeighborsModel("ghost", &viz.Store{}, NewTheme(theme.Resolve(theme.Light)))
	list.SetSize(30, 10)
	list.MoveDown()
	assert.Equal(t, "", list.SelectedID())
	assert.Contains(t, list.Render(), "not in the graph")
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[]}`), 0o644))

	w, err := newGraphWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	got := make(chan tea.Msg, 1)
	go func() { got <- w.wait()() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"x"}]}`), 0o644))

	select {
	case msg := <-got:
		assert.Equal(t, graphChangedMsg{}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestReloadRebuilds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"A"},{"id":"B"},{"id":"Z"}],"edges":[{"source":"A","target":"Z"},{"source":"A","target":"B"}]}`), 0o644))

	m := newTestModel(t, nil)
	m.opts.GraphPath = path
	m.reload()
	assert.Len(t, m.Visualization().Store().Nodes, 3)
	assert.Contains(t, m.status, "reloaded 3 nodes")
}
