// Package repository is the shared state the rule engine reads and writes
// while analyzing a file set: the scope stack, recorded declarations, the
// type table, per-file using and alias tables, and the dependency graph.
package repository

import (
	"log/slog"
	"slices"

	"depscan/internal/engine/graph"
	"depscan/internal/engine/symbols"
)

// Frame is one open scope. Path holds the scope's name segments; only a
// dotted namespace has more than one.
type Frame struct {
	Kind            string
	Name            string
	Path            []string
	BeginLine       int
	EndLine         int
	BeginScopeCount int
	EndScopeCount   int
}

// Repository is built once per run and shared by both passes.
type Repository struct {
	file       string
	stack      Stack[*Frame]
	scopeCount int
	locations  []*symbols.TypeElement

	types   *symbols.TypeTable
	usings  map[string][][]string
	aliases map[string]*aliasTable
	graph   *graph.Graph
}

type aliasTable struct {
	names   []string
	targets map[string][]string
}

func New() *Repository {
	return &Repository{
		types:   symbols.NewTypeTable(),
		usings:  make(map[string][][]string),
		aliases: make(map[string]*aliasTable),
		graph:   graph.New(),
	}
}

func (r *Repository) Stack() *Stack[*Frame] { return &r.stack }

func (r *Repository) Types() *symbols.TypeTable { return r.types }

func (r *Repository) Graph() *graph.Graph { return r.graph }

// ScopeCount is the number of scopes opened since the last BeginFile.
func (r *Repository) ScopeCount() int { return r.scopeCount }

// File is the path set by the last BeginFile.
func (r *Repository) File() string { return r.file }

// BeginFile clears per-file scope state before path is read. Only
// declarations recorded for path are back-filled until the next call.
func (r *Repository) BeginFile(path string) {
	r.file = path
	r.stack.Clear()
	r.scopeCount = 0
}

// EndFile closes every scope still open at line, the file's last line.
// File-scoped namespaces end here.
func (r *Repository) EndFile(line int) {
	for r.stack.Len() > 0 {
		f, _ := r.stack.Peek()
		if f.Kind != symbols.KindNamespace {
			slog.Debug("scope still open at end of file", "path", r.file, "kind", f.Kind, "name", f.Name)
		}
		if _, err := r.PopScope(line); err != nil {
			break
		}
	}
	r.stack.Clear()
}

// PushScope opens a scope and returns its frame.
func (r *Repository) PushScope(kind, name string, path []string, line int) *Frame {
	r.scopeCount++
	if len(path) == 0 {
		path = []string{name}
	}
	f := &Frame{
		Kind:            kind,
		Name:            name,
		Path:            append([]string(nil), path...),
		BeginLine:       line,
		BeginScopeCount: r.scopeCount,
	}
	r.stack.Push(f)
	return f
}

// PopScope closes the innermost scope and back-fills its end into the most
// recent declaration of the current file with the same kind and name that
// is still open. An empty stack returns a SCOPE_UNDERFLOW error.
func (r *Repository) PopScope(line int) (*Frame, error) {
	f, err := r.stack.Pop()
	if err != nil {
		return nil, err
	}
	f.EndLine = line
	f.EndScopeCount = r.scopeCount
	for i := len(r.locations) - 1; i >= 0; i-- {
		loc := r.locations[i]
		if loc.EndLine == 0 && loc.FilePath == r.file && loc.Kind == f.Kind && loc.Name == f.Name {
			loc.EndLine = line
			loc.EndScopeCount = r.scopeCount
			break
		}
	}
	return f, nil
}

// RecordLocation appends a declaration to the location list.
func (r *Repository) RecordLocation(elem *symbols.TypeElement) {
	r.locations = append(r.locations, elem)
}

// Locations returns recorded declarations in the order they were seen.
func (r *Repository) Locations() []*symbols.TypeElement {
	return append([]*symbols.TypeElement(nil), r.locations...)
}

// ScopePath lists the enclosing namespace and type names, outermost first.
// Function and anonymous scopes are skipped.
func (r *Repository) ScopePath() []string {
	var out []string
	for _, f := range r.stack.items {
		if f.Kind == symbols.KindNamespace || symbols.IsTypeKind(f.Kind) {
			out = append(out, f.Path...)
		}
	}
	return out
}

// NamespacePath lists the enclosing namespace segments only.
func (r *Repository) NamespacePath() []string {
	var out []string
	for _, f := range r.stack.items {
		if f.Kind == symbols.KindNamespace {
			out = append(out, f.Path...)
		}
	}
	return out
}

// RecordUsing adds an imported namespace for file. Repeats are ignored.
func (r *Repository) RecordUsing(file string, path []string) {
	for _, existing := range r.usings[file] {
		if slices.Equal(existing, path) {
			return
		}
	}
	r.usings[file] = append(r.usings[file], append([]string(nil), path...))
}

// Usings returns the namespaces imported by file in declaration order.
func (r *Repository) Usings(file string) [][]string {
	return r.usings[file]
}

// RecordAlias binds alias to target within file. A later binding of the
// same alias replaces the earlier one.
func (r *Repository) RecordAlias(file, alias string, target []string) {
	t, ok := r.aliases[file]
	if !ok {
		t = &aliasTable{targets: make(map[string][]string)}
		r.aliases[file] = t
	}
	if _, exists := t.targets[alias]; !exists {
		t.names = append(t.names, alias)
	}
	t.targets[alias] = append([]string(nil), target...)
}

// Alias returns the expansion of alias within file.
func (r *Repository) Alias(file, alias string) ([]string, bool) {
	t, ok := r.aliases[file]
	if !ok {
		return nil, false
	}
	target, ok := t.targets[alias]
	return target, ok
}

// Aliases returns file's aliases in declaration order.
func (r *Repository) Aliases(file string) []string {
	t, ok := r.aliases[file]
	if !ok {
		return nil
	}
	return append([]string(nil), t.names...)
}

// AliasFiles lists files that declare at least one alias.
func (r *Repository) AliasFiles() []string {
	files := make([]string, 0, len(r.aliases))
	for f := range r.aliases {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// EnsureNode returns the graph node for path, creating it if needed.
func (r *Repository) EnsureNode(path string) int {
	return r.graph.AddNode(path)
}

// Merge folds the declarations, usings and aliases that other collected
// into r. The graph and scope stack are not merged.
func (r *Repository) Merge(other *Repository) {
	r.types.Merge(other.types)
	r.locations = append(r.locations, other.locations...)
	for file, list := range other.usings {
		for _, path := range list {
			r.RecordUsing(file, path)
		}
	}
	for file, t := range other.aliases {
		for _, name := range t.names {
			r.RecordAlias(file, name, t.targets[name])
		}
	}
}
