package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/egograph/pkg/theme"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

// Theme holds the terminal styles derived from a palette
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Highlight lipgloss.Color
	Muted     lipgloss.Color

	Current lipgloss.Color
	Visited lipgloss.Color
	Default lipgloss.Color
}

// NewTheme converts a palette snapshot into terminal colors.
func NewTheme(p theme.Palette) Theme {
	return Theme{
		Renderer:  lipgloss.DefaultRenderer(),
		Primary:   theme.Lipgloss(p.Current),
		Secondary: theme.Lipgloss(p.Text),
		Highlight: theme.Lipgloss(p.Link),
		Muted:     theme.Lipgloss(p.Default),
		Current:   theme.Lipgloss(p.Current),
		Visited:   theme.Lipgloss(p.Visited),
		Default:   theme.Lipgloss(p.Default),
	}
}

// RoleColor returns the color nodes of role are drawn in.
func (t Theme) RoleColor(role viz.ColorRole) lipgloss.Color {
	switch role {
	case viz.RoleCurrent:
		return t.Current
	case viz.RoleVisited:
		return t.Visited
	default:
		return t.Default
	}
}

// GetRoleIcon returns the marker shown next to a node of role.
func GetRoleIcon(role viz.ColorRole) string {
	switch role {
	case viz.RoleCurrent:
		return "◉"
	case viz.RoleVisited:
		return "●"
	default:
		return "○"
	}
}

// truncateRunesHelper shortens s to at most width cells, appending tail.
func truncateRunesHelper(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, tail)
}
