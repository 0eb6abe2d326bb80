package export

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Dicklesworthstone/egograph/pkg/neighborhood"
	"github.com/Dicklesworthstone/egograph/pkg/viz"
)

// ReportNode is one row of a neighborhood report
type ReportNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Degree int    `json:"degree"`
	Role   string `json:"role"`
	URL    string `json:"url"`
	Tag    bool   `json:"tag,omitempty"`
}

// ReportEdge is one retained edge
type ReportEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Report summarizes the neighborhood of one focal node
type Report struct {
	Focus     string       `json:"focus"`
	Depth     int          `json:"depth"`
	Generated time.Time    `json:"generated"`
	Nodes     []ReportNode `json:"nodes"`
	Edges     []ReportEdge `json:"edges"`
}

// NewReport builds a report from an extracted neighborhood. Nodes are
// ordered by role (current, visited, default), then degree, then id.
func NewReport(res neighborhood.Result, focus string, depth int, visited map[string]bool, resolve func(id string) string) Report {
	r := Report{Focus: focus, Depth: depth, Generated: time.Now()}
	degree := res.Degree()
	for _, n := range res.Nodes {
		role := viz.Classify(n.ID, focus, visited)
		if n.IsTag() && role != viz.RoleCurrent {
			role = viz.RoleVisited
		}
		url := n.ID
		if resolve != nil {
			url = resolve(n.ID)
		}
		r.Nodes = append(r.Nodes, ReportNode{
			ID:     n.ID,
			Title:  n.Label(),
			Degree: degree[n.ID],
			Role:   role.String(),
			URL:    url,
			Tag:    n.IsTag(),
		})
	}
	sort.SliceStable(r.Nodes, func(i, j int) bool {
		ri, rj := roleRank(r.Nodes[i].Role), roleRank(r.Nodes[j].Role)
		if ri != rj {
			return ri < rj
		}
		if r.Nodes[i].Degree != r.Nodes[j].Degree {
			return r.Nodes[i].Degree > r.Nodes[j].Degree
		}
		return r.Nodes[i].ID < r.Nodes[j].ID
	})
	for _, e := range res.Edges {
		r.Edges = append(r.Edges, ReportEdge{Source: e.Source, Target: e.Target})
	}
	return r
}

func roleRank(role string) int {
	switch role {
	case "current":
		return 0
	case "visited":
		return 1
	default:
		return 2
	}
}

// sanitizeMermaidID ensures an ID is valid for Mermaid diagrams.
// Mermaid node IDs must be alphanumeric with hyphens/underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	return result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"#", "",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	// Remove any remaining control characters
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = strings.TrimSpace(result)

	// Truncate if too long (UTF-8 safe using runes)
	runes := []rune(result)
	if len(runes) > 40 {
		result = string(runes[:37]) + "..."
	}

	return result
}

// mermaidIDs assigns each node a unique sanitized id. Distinct ids that
// sanitize to the same string get a numeric suffix.
func mermaidIDs(nodes []ReportNode) map[string]string {
	ids := make(map[string]string, len(nodes))
	used := make(map[string]int)
	for _, n := range nodes {
		base := sanitizeMermaidID(n.ID)
		safe := base
		if c := used[base]; c > 0 {
			safe = fmt.Sprintf("%s_%d", base, c)
		}
		used[base]++
		ids[n.ID] = safe
	}
	return ids
}

// GenerateMarkdown renders a neighborhood report as markdown
func GenerateMarkdown(r Report, title string) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", r.Generated.Format(time.RFC1123)))

	// Summary Statistics
	sb.WriteString("## Summary\n\n")

	visited, unvisited, tags := 0, 0, 0
	for _, n := range r.Nodes {
		switch {
		case n.Tag:
			tags++
		case n.Role == "visited":
			visited++
		case n.Role == "default":
			unvisited++
		}
	}
	depth := fmt.Sprintf("%d", r.Depth)
	if r.Depth < 0 {
		depth = "unbounded"
	}

	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Focus** | `%s` |\n", r.Focus))
	sb.WriteString(fmt.Sprintf("| Depth | %s |\n", depth))
	sb.WriteString(fmt.Sprintf("| **Nodes** | %d |\n", len(r.Nodes)))
	sb.WriteString(fmt.Sprintf("| Links | %d |\n", len(r.Edges)))
	sb.WriteString(fmt.Sprintf("| Visited | %d |\n", visited))
	sb.WriteString(fmt.Sprintf("| Unvisited | %d |\n", unvisited))
	sb.WriteString(fmt.Sprintf("| Tags | %d |\n\n", tags))

	if len(r.Nodes) == 0 {
		sb.WriteString("*The focus is not part of the graph.*\n")
		return sb.String(), nil
	}

	// Node table
	sb.WriteString("## Nodes\n\n")
	sb.WriteString("| | Title | ID | Degree | Link |\n|---|-------|----|--------|------|\n")
	for _, n := range r.Nodes {
		sb.WriteString(fmt.Sprintf("| %s | %s | `%s` | %d | [%s](%s) |\n",
			getRoleEmoji(n.Role), escapeCell(n.Title), n.ID, n.Degree, createSlug(n.ID), n.URL))
	}
	sb.WriteString("\n---\n\n")

	// Link Graph (Mermaid)
	sb.WriteString("## Link Graph\n\n")
	sb.WriteString("```mermaid\ngraph LR\n")

	// Style definitions
	sb.WriteString("    classDef current fill:#BD93F9,stroke:#333,color:#000\n")
	sb.WriteString("    classDef visited fill:#50FA7B,stroke:#333,color:#000\n")
	sb.WriteString("    classDef default fill:#6272A4,stroke:#333,color:#fff\n")
	sb.WriteString("\n")

	ids := mermaidIDs(r.Nodes)
	for _, n := range r.Nodes {
		safeID := ids[n.ID]
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, sanitizeMermaidText(n.Title)))
		sb.WriteString(fmt.Sprintf("    class %s %s\n", safeID, n.Role))
	}
	for _, e := range r.Edges {
		sb.WriteString(fmt.Sprintf("    %s --- %s\n", ids[e.Source], ids[e.Target]))
	}
	if len(r.Edges) == 0 {
		sb.WriteString("    NoLinks[\"No Links\"]\n")
	}
	sb.WriteString("```\n")

	return sb.String(), nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// createSlug creates a URL-friendly slug from an ID
func createSlug(id string) string {
	slug := strings.ToLower(id)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func getRoleEmoji(role string) string {
	switch role {
	case "current":
		return "📍"
	case "visited":
		return "✅"
	default:
		return "⚪"
	}
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(r Report, filename string) error {
	content, err := GenerateMarkdown(r, "Neighborhood of "+r.Focus)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
