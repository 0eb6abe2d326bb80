// Package ui hosts a visualization in the terminal: bubbletea delivers
// pointer and key events and drives the physics and repaint tickers.
package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/egograph/pkg/model"
	"github.com/Dicklesworthstone/egograph/pkg/navigate"
	"github.com/Dicklesworthstone/egograph/pkg/scene"
	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/visited"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

const (
	physicsInterval = 16 * time.Millisecond
	frameInterval   = 33 * time.Millisecond
	warmupTicks     = 80
	wheelStep       = 120
	zoomStep        = 1.25
	listMaxWidth    = 36
)

type physicsTickMsg struct{}

type frameTickMsg struct{}

// Options configures the terminal host
type Options struct {
	Graph     model.Graph
	GraphPath string // Reloaded on change when Watch is set
	Watch     bool
	Focus     string
	Global    bool // Start with the global configuration

	Local      viz.Config
	GlobalConf viz.Config
	Palette    theme.Palette
	Tracker    *visited.Tracker

	// Resolver builds the URL resolver for a graph. Nil resolves nodes to
	// their ids.
	Resolver func(nodes []model.Node) (*navigate.Resolver, error)

	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy func(text string) error

	Logger *zap.Logger
}

// Model is the bubbletea model of `egograph view`.
type Model struct {
	opts    Options
	graph   model.Graph
	focus   string
	global  bool
	watcher *graphWatcher

	v        *viz.Visualization
	surface  *scene.TermSurface
	resolver *navigate.Resolver
	pending  []string

	list     NeighborsModel
	showList bool
	keys     keyMap
	help     help.Model
	theme    Theme

	width, height int
	status        string
	logger        *zap.Logger
}

// New creates the model. With opts.Watch it starts watching opts.GraphPath.
func New(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Tracker == nil {
		opts.Tracker = visited.NewTracker(visited.NewMemoryStore(), logger)
	}
	m := &Model{
		opts:   opts,
		graph:  opts.Graph,
		focus:  opts.Focus,
		global: opts.Global,
		keys:   defaultKeyMap(),
		help:   help.New(),
		theme:  NewTheme(opts.Palette),
		logger: logger,
	}
	if err := m.buildResolver(); err != nil {
		return nil, err
	}
	if opts.Watch && opts.GraphPath != "" {
		w, err := newGraphWatcher(opts.GraphPath)
		if err != nil {
			return nil, err
		}
		m.watcher = w
	}
	return m, nil
}

func (m *Model) buildResolver() error {
	if m.opts.Resolver == nil {
		return nil
	}
	r, err := m.opts.Resolver(m.graph.Nodes)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}
	m.resolver = r
	return nil
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// Close tears down the visualization and stops watching.
func (m *Model) Close() error {
	var err error
	if m.v != nil {
		err = m.v.Teardown()
	}
	if m.watcher != nil {
		if werr := m.watcher.Close(); err == nil {
			err = werr
		}
	}
	return err
}

func physicsTick() tea.Cmd {
	return tea.Tick(physicsInterval, func(time.Time) tea.Msg { return physicsTickMsg{} })
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameTickMsg{} })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{physicsTick(), frameTick()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil

	case physicsTickMsg:
		if m.v != nil {
			m.v.Tick()
		}
		return m, physicsTick()

	case frameTickMsg:
		m.step()
		return m, frameTick()

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.followPending()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case graphChangedMsg:
		m.reload()
		return m, m.watcher.wait()

	case watchErrMsg:
		m.logger.Warn("watch graph", zap.Error(msg.err))
		m.status = "watch error: " + msg.err.Error()
		return m, m.watcher.wait()
	}
	return m, nil
}

func (m *Model) step() {
	if m.v == nil {
		return
	}
	if err := m.v.Step(); err != nil {
		m.logger.Debug("frame skipped", zap.Error(err))
	}
}

// graphSize returns the cell size of the graph area.
func (m *Model) graphSize() (cols, rows int) {
	cols = m.width
	if m.showList {
		cols -= m.listWidth()
	}
	return cols, m.height - 2
}

func (m *Model) listWidth() int {
	return min(listMaxWidth, m.width/3)
}

// rebuild replaces the visualization, as on a fresh page load.
func (m *Model) rebuild() {
	if m.v != nil {
		if err := m.v.Teardown(); err != nil {
			m.logger.Warn("teardown", zap.Error(err))
		}
		m.v = nil
	}
	cols, rows := m.graphSize()
	if cols <= 0 || rows <= 0 {
		return
	}
	surface, err := scene.NewTermSurface(cols, rows)
	if err != nil {
		m.status = err.Error()
		return
	}
	cfg := m.opts.Local
	if m.global {
		cfg = m.opts.GlobalConf
	}
	pal := m.opts.Palette
	v, err := viz.New(context.Background(), viz.Options{
		Graph:    m.graph,
		Focus:    m.focus,
		Config:   cfg,
		Width:    float64(cols),
		Height:   float64(rows * scene.CellAspect),
		Surface:  surface,
		Palette:  &pal,
		Tracker:  m.opts.Tracker,
		Resolver: m.resolver,
		Navigate: func(id, _ string) { m.pending = append(m.pending, id) },
		Logger:   m.logger,
	})
	if err != nil {
		m.status = err.Error()
		surface.Release()
		return
	}
	for i := 0; i < warmupTicks && v.Tick(); i++ {
	}
	v.FitView(1)
	m.v, m.surface = v, surface
	m.step()

	m.list = NewNeighborsModel(m.focus, v.Store(), m.theme)
	m.list.SetSize(m.listWidth(), rows)
}

// followPending re-focuses on the last node the user navigated to.
func (m *Model) followPending() {
	if len(m.pending) == 0 {
		return
	}
	id := m.pending[len(m.pending)-1]
	m.pending = nil
	m.refocus(id)
}

func (m *Model) refocus(id string) {
	if id == "" {
		return
	}
	m.logger.Info("refocus", zap.String("from", m.focus), zap.String("to", id))
	m.focus = id
	m.status = ""
	m.rebuild()
}

func (m *Model) reload() {
	g, err := model.LoadGraph(m.opts.GraphPath)
	if err != nil {
		m.logger.Warn("reload graph", zap.Error(err))
		m.status = "reload failed: " + err.Error()
		return
	}
	m.graph = g
	m.status = fmt.Sprintf("reloaded %d nodes", len(g.Nodes))
	if err := m.buildResolver(); err != nil {
		m.status = err.Error()
	}
	m.rebuild()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.v == nil {
		return
	}
	cols, rows := m.graphSize()
	row := msg.Y - 1
	inside := msg.X >= 0 && msg.X < cols && row >= 0 && row < rows
	sx, sy := scene.CellToScreen(msg.X, row)

	switch msg.Action {
	case tea.MouseActionMotion:
		if inside || m.v.Dragging() {
			m.v.PointerMove(sx, sy)
		} else {
			m.v.PointerLeave()
		}
	case tea.MouseActionPress:
		if !inside {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.v.PointerDown(sx, sy)
		case tea.MouseButtonWheelUp:
			m.v.Wheel(-wheelStep, sx, sy)
		case tea.MouseButtonWheelDown:
			m.v.Wheel(wheelStep, sx, sy)
		}
	case tea.MouseActionRelease:
		m.v.PointerUp(sx, sy)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.List):
		m.showList = !m.showList
		m.rebuild()
	case m.showList && key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case m.showList && key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case m.showList && key.Matches(msg, m.keys.Open):
		m.refocus(m.list.SelectedID())
	case m.v == nil:
	case key.Matches(msg, m.keys.ZoomIn):
		m.v.ZoomBy(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.v.ZoomBy(1 / zoomStep)
	case key.Matches(msg, m.keys.ResetZoom):
		m.v.ResetZoom()
	case key.Matches(msg, m.keys.Fit):
		m.v.FitView(1)
	case key.Matches(msg, m.keys.Reheat):
		m.v.Reheat()
	case key.Matches(msg, m.keys.Global):
		m.global = !m.global
		m.rebuild()
	case key.Matches(msg, m.keys.Copy):
		m.copyURL()
	}
	return nil
}

func (m *Model) copyURL() {
	id := m.v.Hovered()
	if id == "" {
		id = m.focus
	}
	url := m.v.Resolve(id)
	if err := m.opts.Copy(url); err != nil {
		m.logger.Warn("copy url", zap.Error(err))
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "copied " + url
}

// Focus returns the focal node id.
func (m *Model) Focus() string { return m.focus }

// Visualization returns the current visualization, nil before the first
// window size is known.
func (m *Model) Visualization() *viz.Visualization { return m.v }

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	footer := m.help.View(m.keys)
	bodyHeight := max(m.height-1-lipgloss.Height(footer), 0)

	var body string
	if m.v != nil {
		body = m.surface.String()
		if m.showList {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.list.Render())
		}
	}
	lines := strings.Split(body, "\n")
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), strings.Join(lines, "\n"), footer)
}

func (m *Model) header() string {
	t := m.theme
	mode := "local"
	if m.global {
		mode = "global"
	}
	title := m.focus
	if n, ok := m.graph.Lookup(m.focus); ok {
		title = n.Label()
	}

	var sb strings.Builder
	sb.WriteString(t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(GetRoleIcon(viz.RoleCurrent) + " " + title))
	if m.v != nil {
		sb.WriteString(t.Renderer.NewStyle().Foreground(t.Muted).Render(fmt.Sprintf("  %d nodes · %d links · %d%% · %s",
			len(m.v.Store().Nodes), len(m.v.Store().Links), int(math.Round(m.v.Transform().K*100)), mode)))
		if id := m.v.Hovered(); id != "" {
			sb.WriteString(t.Renderer.NewStyle().Foreground(t.Secondary).Render("  → " + m.v.Resolve(id)))
		}
	}
	if m.status != "" {
		sb.WriteString(t.Renderer.NewStyle().Italic(true).Foreground(t.Secondary).Render("  " + m.status))
	}
	return t.Renderer.NewStyle().MaxWidth(m.width).Render(sb.String())
}
