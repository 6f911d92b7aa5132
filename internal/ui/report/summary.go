package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"depscan/internal/engine/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// RenderSummary returns a short styled status block for the console.
func RenderSummary(res *analysis.Result) string {
	s := summarize(res)
	var b strings.Builder
	b.WriteString(titleStyle.Render("depscan"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "files %d  types %d  edges %d  components %d\n",
		s.Files, s.Types, s.Edges, s.Components)

	if s.Cyclic > 0 {
		b.WriteString(cycleStyle.Render(fmt.Sprintf("%d cyclic component(s)", s.Cyclic)))
	} else {
		b.WriteString(successStyle.Render("no cycles"))
	}
	b.WriteString("\n")
	if s.Failures > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d file(s) skipped", s.Failures)))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render("analyzed in " + s.Duration))
	b.WriteString("\n")
	return b.String()
}
