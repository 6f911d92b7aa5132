package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"depscan/internal/engine/analysis"
	"depscan/internal/shared/util"
	"depscan/internal/ui/report"
	"depscan/internal/ui/report/formats"
)

type outputTargets struct {
	DOT      string
	Mermaid  string
	PlantUML string
	TSV      string
	YAML     string
	JSON     string
}

func (a *App) resolveOutputTargets() outputTargets {
	root := a.Config.Output.Root
	resolve := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return outputTargets{
		DOT:      resolve(a.Config.Output.DOT),
		Mermaid:  resolve(a.Config.Output.Mermaid),
		PlantUML: resolve(a.Config.Output.PlantUML),
		TSV:      resolve(a.Config.Output.TSV),
		YAML:     resolve(a.Config.Output.YAML),
		JSON:     resolve(a.Config.Output.JSON),
	}
}

type generator interface {
	Generate(components [][]int) (string, error)
}

// WriteOutputs writes every configured artifact for res. Empty targets are
// skipped.
func (a *App) WriteOutputs(res *analysis.Result) error {
	targets := a.resolveOutputTargets()
	g := res.Repo.Graph()

	diagrams := []struct {
		name   string
		target string
		gen    generator
	}{
		{"DOT", targets.DOT, formats.NewDOTGenerator(g)},
		{"Mermaid", targets.Mermaid, formats.NewMermaidGenerator(g)},
		{"PlantUML", targets.PlantUML, formats.NewPlantUMLGenerator(g)},
		{"TSV", targets.TSV, formats.NewTSVGenerator(g)},
	}
	for _, d := range diagrams {
		if d.target == "" {
			continue
		}
		out, err := d.gen.Generate(res.Components)
		if err != nil {
			return fmt.Errorf("generate %s output: %w", d.name, err)
		}
		if err := util.WriteFileWithDirs(d.target, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s output %q: %w", d.name, d.target, err)
		}
	}

	doc := report.NewDocument(res)
	for format, target := range map[string]string{"yaml": targets.YAML, "json": targets.JSON} {
		if target == "" {
			continue
		}
		data, err := doc.Encode(format)
		if err != nil {
			return fmt.Errorf("encode %s report: %w", format, err)
		}
		if err := util.WriteFileWithDirs(target, data, 0o644); err != nil {
			return fmt.Errorf("write %s report %q: %w", format, target, err)
		}
	}
	return nil
}

// Report writes the configured console sections for res in each of the
// configured formats.
func (a *App) Report(w io.Writer, res *analysis.Result) error {
	cfg := a.Config.Report
	g := res.Repo.Graph()
	for _, format := range cfg.Formats {
		switch format {
		case "yaml", "json":
			data, err := report.NewDocument(res).Encode(format)
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		default:
			if cfg.Dependencies {
				if err := report.ShowDependency(w, g); err != nil {
					return err
				}
			}
			if cfg.StrongComponents {
				fmt.Fprintln(w, "Strong components:")
				if err := report.ShowStrongComponents(w, g, res.Components); err != nil {
					return err
				}
			}
			if cfg.TypeTable {
				fmt.Fprintln(w, "Types:")
				report.TypeTable(w, res.Repo.Types())
			}
			if cfg.AliasTable {
				fmt.Fprintln(w, "Aliases:")
				report.AliasTable(w, res.Repo)
			}
			if cfg.Metrics {
				fmt.Fprintln(w, "Declarations:")
				report.Metrics(w, res.Repo.Locations())
				fmt.Fprintln(w, "Files:")
				report.GraphMetrics(w, g.Metrics())
			}
		}
	}
	return nil
}
