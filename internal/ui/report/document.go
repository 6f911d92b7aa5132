package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"depscan/internal/engine/analysis"
)

// Document is the machine-readable form of a run.
type Document struct {
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Summary     Summary        `json:"summary" yaml:"summary"`
	Files       []FileEntry    `json:"files" yaml:"files"`
	Components  [][]string     `json:"components" yaml:"components"`
	Types       []TypeEntry    `json:"types" yaml:"types"`
	Failures    []FailureEntry `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type Summary struct {
	Files      int    `json:"files" yaml:"files"`
	Types      int    `json:"types" yaml:"types"`
	Edges      int    `json:"edges" yaml:"edges"`
	Components int    `json:"components" yaml:"components"`
	Cyclic     int    `json:"cyclic" yaml:"cyclic"`
	Failures   int    `json:"failures" yaml:"failures"`
	Duration   string `json:"duration" yaml:"duration"`
}

type FileEntry struct {
	Path      string   `json:"path" yaml:"path"`
	Name      string   `json:"name" yaml:"name"`
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
}

type TypeEntry struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	File      string `json:"file" yaml:"file"`
}

type FailureEntry struct {
	Path  string `json:"path" yaml:"path"`
	Pass  string `json:"pass" yaml:"pass"`
	Code  string `json:"code" yaml:"code"`
	Error string `json:"error" yaml:"error"`
}

// NewDocument captures res. Edge labels become DependsOn entries.
func NewDocument(res *analysis.Result) Document {
	g := res.Repo.Graph()
	types := res.Repo.Types()

	doc := Document{
		GeneratedAt: time.Now().UTC(),
		Summary:     summarize(res),
		Files:       make([]FileEntry, 0, g.Len()),
		Components:  make([][]string, 0, len(res.Components)),
	}
	for _, n := range g.Nodes() {
		deps := make([]string, 0, len(n.Edges))
		for _, e := range n.Edges {
			deps = append(deps, e.Label)
		}
		doc.Files = append(doc.Files, FileEntry{Path: n.Path, Name: n.Name, DependsOn: deps})
	}
	for _, comp := range res.Components {
		doc.Components = append(doc.Components, g.Names(comp))
	}
	for _, name := range types.Names() {
		for _, e := range types.Lookup(name) {
			doc.Types = append(doc.Types, TypeEntry{Name: name, Kind: e.Kind, Namespace: e.Namespace(), File: e.FilePath})
		}
	}
	for _, f := range res.Failures {
		doc.Failures = append(doc.Failures, FailureEntry{
			Path:  f.Path,
			Pass:  f.Pass,
			Code:  string(f.Code()),
			Error: f.Err.Error(),
		})
	}
	return doc
}

func summarize(res *analysis.Result) Summary {
	return Summary{
		Files:      res.Repo.Graph().Len(),
		Types:      res.Repo.Types().Count(),
		Edges:      res.Repo.Graph().EdgeCount(),
		Components: len(res.Components),
		Cyclic:     len(res.Cyclic()),
		Failures:   len(res.Failures),
		Duration:   res.Duration.Round(time.Millisecond).String(),
	}
}

// Encode renders the document as "json" or "yaml".
func (d Document) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(d, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(d)
	}
	return nil, fmt.Errorf("unsupported document format %q", format)
}
