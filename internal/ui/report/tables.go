package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"depscan/internal/data/history"
	"depscan/internal/engine/graph"
	"depscan/internal/engine/repository"
	"depscan/internal/engine/symbols"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("  ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// TypeTable lists every declaration, grouped by name in first-seen order.
func TypeTable(w io.Writer, types *symbols.TypeTable) {
	table := newTable(w, []string{"Name", "Kind", "Namespace", "File"})
	for _, name := range types.Names() {
		for _, e := range types.Lookup(name) {
			table.Append([]string{name, e.Kind, e.Namespace(), e.FileName})
		}
	}
	table.Render()
}

// AliasTable lists alias bindings per file.
func AliasTable(w io.Writer, repo *repository.Repository) {
	table := newTable(w, []string{"File", "Alias", "Target"})
	for _, file := range repo.AliasFiles() {
		for _, alias := range repo.Aliases(file) {
			target, _ := repo.Alias(file, alias)
			table.Append([]string{file, alias, strings.Join(target, ".")})
		}
	}
	table.Render()
}

// Metrics lists the size and scope complexity of each recorded declaration.
// Complexity counts the scopes opened while the declaration was open,
// itself included.
func Metrics(w io.Writer, locations []*symbols.TypeElement) {
	table := newTable(w, []string{"File", "Category", "Name", "Begin", "End", "Size", "Complexity"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, loc := range locations {
		size, complexity := "-", "-"
		if loc.EndLine >= loc.BeginLine && loc.EndLine > 0 {
			size = fmt.Sprint(loc.EndLine - loc.BeginLine + 1)
			complexity = fmt.Sprint(loc.EndScopeCount - loc.BeginScopeCount + 1)
		}
		table.Append([]string{
			loc.FileName, loc.Kind, loc.Name,
			fmt.Sprint(loc.BeginLine), fmt.Sprint(loc.EndLine),
			size, complexity,
		})
	}
	table.Render()
}

// GraphMetrics lists fan-in, fan-out and depth per file.
func GraphMetrics(w io.Writer, rows []graph.NodeMetrics) {
	table := newTable(w, []string{"File", "FanIn", "FanOut", "Depth", "Cycle", "Importance"})
	for _, m := range rows {
		cycle := ""
		if m.InCycle {
			cycle = "yes"
		}
		table.Append([]string{
			m.Name, fmt.Sprint(m.FanIn), fmt.Sprint(m.FanOut), fmt.Sprint(m.Depth),
			cycle, fmt.Sprintf("%.2f", m.Importance),
		})
	}
	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(rows)), "", "", "", "", ""})
	table.Render()
}

// HistoryTable lists recorded snapshots, oldest first.
func HistoryTable(w io.Writer, snaps []history.Snapshot) {
	table := newTable(w, []string{"Time", "Run", "Files", "Types", "Edges", "Components", "Cyclic", "Failures"})
	for _, s := range snaps {
		table.Append([]string{
			s.Timestamp.Format("2006-01-02 15:04:05"),
			shortID(s.RunID),
			fmt.Sprint(s.FileCount),
			fmt.Sprint(s.TypeCount),
			fmt.Sprint(s.EdgeCount),
			fmt.Sprint(s.ComponentCount),
			fmt.Sprint(s.CyclicCount),
			fmt.Sprint(s.FailureCount),
		})
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
