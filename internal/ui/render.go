// Package ui renders gateway results for the terminal.
package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ngmaloney/october-cli/internal/gateway"
)

// NotAvailable stands in for fields the gateway left out.
const NotAvailable = "N/A"

// Info renders an informational console line.
func Info(s string) string {
	return styleInfo.Render(s)
}

// Error renders an error console line.
func Error(s string) string {
	return styleError.Render(s)
}

// ProjectsTable renders the two-column project listing.
func ProjectsTable(projects []gateway.ProjectSummary) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{orNA(p.Name), orNA(p.ID)})
	}
	return newTable(false).
		Headers("Project Name", "Project ID").
		Rows(rows...).
		String()
}

// DetailRows returns the key/value pairs shown for a project.
func DetailRows(p gateway.Project) [][]string {
	return [][]string{
		{"Name", orNA(p.Name)},
		{"ID", orNA(p.ID)},
		{"License", orNA(p.LicenseKey)},
		{"Status", orNA(p.Status)},
		{"Author", orNA(p.Author)},
		{"Created", orNA(p.CreatedAt)},
	}
}

// DetailTable renders the key/value table for a project.
func DetailTable(p gateway.Project) string {
	return newTable(true).
		Headers("Key", "Value").
		Rows(DetailRows(p)...).
		String()
}

// Section is an optional titled list under the detail table.
type Section struct {
	Title string
	Items []string
}

// DetailSections returns the non-empty plugin, theme and domain lists.
func DetailSections(p gateway.Project) []Section {
	var out []Section
	for _, s := range []Section{
		{"Plugins", p.Plugins},
		{"Themes", p.Themes},
		{"Domains", p.Domains},
	} {
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// BulletList renders a section as "Title:" followed by "- item" lines.
func BulletList(s Section) string {
	var sb strings.Builder
	sb.WriteString(Info(s.Title + ":"))
	for _, item := range s.Items {
		sb.WriteString("\n")
		sb.WriteString(styleBullet.Render("-"))
		sb.WriteString(" ")
		sb.WriteString(item)
	}
	return sb.String()
}

// ProjectMarkdown describes a project as a markdown document.
func ProjectMarkdown(p gateway.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", orNA(p.Name))
	sb.WriteString("| Key | Value |\n|---|---|\n")
	for _, row := range DetailRows(p) {
		fmt.Fprintf(&sb, "| %s | %s |\n", row[0], escapeCell(row[1]))
	}
	for _, s := range DetailSections(p) {
		fmt.Fprintf(&sb, "\n## %s\n\n", s.Title)
		for _, item := range s.Items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	return sb.String()
}

// RenderMarkdown renders md for a terminal of the given width. On renderer
// failure the markdown source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func newTable(keyColumn bool) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleTableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case keyColumn && col == 0:
				return styleTableKey
			}
			return styleTableCell
		})
}

// ResponseKeys lists the top-level keys of a reply body, sorted.
func ResponseKeys(body map[string]any) []string {
	return slices.Sorted(maps.Keys(body))
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
