package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

// neighborGroup is one role's nodes
type neighborGroup struct {
	Role  viz.ColorRole
	Items []neighborItem
}

type neighborItem struct {
	ID     string
	Title  string
	Degree int
}

// NeighborsModel lists the retained nodes grouped by role
type NeighborsModel struct {
	focus         string
	groups        []neighborGroup
	selectedGroup int
	selectedItem  int
	scrollOffset  int
	width         int
	height        int
	theme         Theme
}

// NewNeighborsModel groups the nodes of store by role: current first, then
// visited, then unvisited, each ordered by degree.
func NewNeighborsModel(focus string, store *viz.Store, theme Theme) NeighborsModel {
	byRole := make(map[viz.ColorRole][]neighborItem)
	for _, n := range store.Nodes {
		byRole[n.Role] = append(byRole[n.Role], neighborItem{ID: n.ID(), Title: n.Node.Label(), Degree: n.Degree})
	}
	var groups []neighborGroup
	for _, role := range []viz.ColorRole{viz.RoleCurrent, viz.RoleVisited, viz.RoleDefault} {
		items := byRole[role]
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Degree != items[j].Degree {
				return items[i].Degree > items[j].Degree
			}
			return items[i].Title < items[j].Title
		})
		groups = append(groups, neighborGroup{Role: role, Items: items})
	}
	return NeighborsModel{focus: focus, groups: groups, theme: theme}
}

// SetSize updates the view dimensions
func (m *NeighborsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *NeighborsModel) MoveUp() {
	if len(m.groups) == 0 {
		return
	}

	if m.selectedItem > 0 {
		m.selectedItem--
	} else if m.selectedGroup > 0 {
		m.selectedGroup--
		m.selectedItem = len(m.groups[m.selectedGroup].Items) - 1
	}
	m.ensureVisible()
}

// MoveDown moves selection down
func (m *NeighborsModel) MoveDown() {
	if len(m.groups) == 0 {
		return
	}

	group := m.groups[m.selectedGroup]
	if m.selectedItem < len(group.Items)-1 {
		m.selectedItem++
	} else if m.selectedGroup < len(m.groups)-1 {
		m.selectedGroup++
		m.selectedItem = 0
	}
	m.ensureVisible()
}

// SelectedID returns the ID of the currently selected node
func (m *NeighborsModel) SelectedID() string {
	if m.selectedGroup >= len(m.groups) {
		return ""
	}
	group := m.groups[m.selectedGroup]
	if m.selectedItem >= len(group.Items) {
		return ""
	}
	return group.Items[m.selectedItem].ID
}

// ensureVisible adjusts scroll to keep selection visible
func (m *NeighborsModel) ensureVisible() {
	lineNum := 0
	for i := 0; i < m.selectedGroup; i++ {
		lineNum += 1 + len(m.groups[i].Items) + 1 // header + items + blank
	}
	lineNum += 1 + m.selectedItem

	visibleLines := m.height - 2
	if visibleLines < 5 {
		visibleLines = 5
	}

	if lineNum < m.scrollOffset {
		m.scrollOffset = lineNum
	} else if lineNum >= m.scrollOffset+visibleLines {
		m.scrollOffset = lineNum - visibleLines + 1
	}
}

func groupTitle(role viz.ColorRole) string {
	switch role {
	case viz.RoleCurrent:
		return "Current"
	case viz.RoleVisited:
		return "Visited"
	default:
		return "Not visited"
	}
}

// Render renders the neighbor list
func (m *NeighborsModel) Render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	t := m.theme
	var lines []string

	total := 0
	for _, g := range m.groups {
		total += len(g.Items)
	}

	headerStyle := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Padding(0, 1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("NEIGHBORS (%d)", total)))
	lines = append(lines, "")

	if len(m.groups) == 0 {
		emptyStyle := t.Renderer.NewStyle().
			Foreground(t.Muted).
			Italic(true).
			Padding(0, 1)
		lines = append(lines, emptyStyle.Render(truncateRunesHelper(m.focus+" is not in the graph.", m.width-2, "…")))
		return strings.Join(lines, "\n")
	}

	for gi, group := range m.groups {
		groupHeaderStyle := t.Renderer.NewStyle().
			Bold(true).
			Foreground(t.RoleColor(group.Role))
		lines = append(lines, groupHeaderStyle.Render(fmt.Sprintf("%s %s", GetRoleIcon(group.Role), groupTitle(group.Role))))

		for ii, item := range group.Items {
			isSelected := gi == m.selectedGroup && ii == m.selectedItem

			var itemLine strings.Builder
			if isSelected {
				itemLine.WriteString("▸ ")
			} else {
				itemLine.WriteString("  ")
			}
			if ii < len(group.Items)-1 {
				itemLine.WriteString("├─ ")
			} else {
				itemLine.WriteString("└─ ")
			}

			suffix := fmt.Sprintf(" (%d)", item.Degree)
			maxTitleLen := m.width - lipgloss.Width(itemLine.String()) - lipgloss.Width(suffix) - 2
			if maxTitleLen < 4 {
				maxTitleLen = 4
			}
			itemLine.WriteString(truncateRunesHelper(item.Title, maxTitleLen, "…"))
			itemLine.WriteString(suffix)

			lineStyle := t.Renderer.NewStyle()
			if isSelected {
				lineStyle = lineStyle.Background(t.Highlight).Bold(true)
			}
			lines = append(lines, lineStyle.Width(m.width-2).Render(itemLine.String()))
		}

		lines = append(lines, "")
	}

	// Apply scroll offset
	visibleLines := m.height
	startLine := m.scrollOffset
	if startLine > len(lines)-visibleLines {
		startLine = len(lines) - visibleLines
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleLines
	if endLine > len(lines) {
		endLine = len(lines)
	}

	return strings.Join(lines[startLine:endLine], "\n")
}
