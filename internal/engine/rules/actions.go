package rules

import (
	"log/slog"
	"strings"

	domainErrors "depscan/internal/core/errors"
	"depscan/internal/engine/lexer"
	"depscan/internal/engine/repository"
	"depscan/internal/engine/symbols"
)

func malformed(local lexer.Semi, msg string) error {
	err := domainErrors.New(domainErrors.CodeMalformed, msg)
	err = domainErrors.AddContext(err, domainErrors.CtxPath, local.Path)
	return domainErrors.AddContext(err, domainErrors.CtxLine, local.Line)
}

// scopeName splits [kind seg...] into kind, display name and path.
func scopeName(local lexer.Semi) (kind, name string, path []string, err error) {
	if local.Len() < 2 {
		return "", "", nil, malformed(local, "scope entry needs a kind and a name")
	}
	kind = local.Tokens[0]
	path = local.Tokens[1:]
	return kind, strings.Join(path, "."), path, nil
}

// PushScope opens a scope frame. With Record set, namespace and function
// scopes are also appended to the repository's location list.
type PushScope struct {
	Repo   *repository.Repository
	Record bool
}

func (a *PushScope) Do(local lexer.Semi) error {
	kind, name, path, err := scopeName(local)
	if err != nil {
		return err
	}
	if a.Record && kind != symbols.KindControl {
		elem := symbols.NewTypeElement(kind, name, local.Path, a.Repo.ScopePath())
		elem.BeginLine = local.StartLine
		elem.BeginScopeCount = a.Repo.ScopeCount() + 1
		a.Repo.RecordLocation(elem)
	}
	a.Repo.PushScope(kind, name, path, local.StartLine)
	return nil
}

// PushTypeDeclaration records a type in the location list and the type
// table. Classes, structs, interfaces and enums also open a scope.
// Delegates have no body and begin and end on the same line.
type PushTypeDeclaration struct {
	Repo *repository.Repository
}

func (a *PushTypeDeclaration) Do(local lexer.Semi) error {
	kind, name, path, err := scopeName(local)
	if err != nil {
		return err
	}
	elem := symbols.NewTypeElement(kind, name, local.Path, a.Repo.ScopePath())
	elem.BeginLine = local.StartLine
	if kind == symbols.KindDelegate {
		elem.EndLine = local.StartLine
		elem.BeginScopeCount = a.Repo.ScopeCount()
		elem.EndScopeCount = a.Repo.ScopeCount()
	} else {
		elem.BeginScopeCount = a.Repo.ScopeCount() + 1
	}
	a.Repo.RecordLocation(elem)
	if !a.Repo.Types().Add(name, elem) {
		slog.Debug("duplicate type declaration", "name", name, "path", local.Path)
	}
	if kind != symbols.KindDelegate {
		a.Repo.PushScope(kind, name, path, local.StartLine)
	}
	return nil
}

// PopScope closes the innermost scope. An unbalanced close is logged and
// otherwise ignored.
type PopScope struct {
	Repo *repository.Repository
}

func (a *PopScope) Do(local lexer.Semi) error {
	if _, err := a.Repo.PopScope(local.Line); err != nil {
		slog.Debug("unbalanced closing brace", "path", local.Path, "line", local.Line, "error", err)
	}
	return nil
}

// SaveAlias records [Alias Target...] for the semi's file.
type SaveAlias struct {
	Repo *repository.Repository
}

func (a *SaveAlias) Do(local lexer.Semi) error {
	if local.Len() < 2 {
		return malformed(local, "alias needs a name and a target")
	}
	a.Repo.RecordAlias(local.Path, local.Tokens[0], local.Tokens[1:])
	return nil
}

// SaveUsing records an imported namespace for the semi's file.
type SaveUsing struct {
	Repo *repository.Repository
}

func (a *SaveUsing) Do(local lexer.Semi) error {
	if local.Len() == 0 {
		return malformed(local, "using directive without a namespace")
	}
	a.Repo.RecordUsing(local.Path, local.Tokens)
	return nil
}

// AddDependencyEdge resolves a qualified type reference and, when it is
// declared in another file, adds an edge from the current file to the
// declaring file labeled with the declaring file's name.
//
// Resolution expands aliases, then tries these namespace paths in order:
// the enclosing namespace plus the qualifier, each using plus the
// qualifier, and the bare qualifier. The bare qualifier is tried even when
// empty, so global types resolve from inside any namespace.
type AddDependencyEdge struct {
	Repo *repository.Repository
}

func (a *AddDependencyEdge) Do(local lexer.Semi) error {
	ref := a.expandAliases(local)
	if len(ref) == 0 {
		return nil
	}
	name := ref[len(ref)-1]
	qualifier := ref[:len(ref)-1]

	elem := a.Repo.Types().FindType(name, a.candidates(local.Path, qualifier))
	if elem == nil || elem.FilePath == local.Path {
		return nil
	}
	from := a.Repo.EnsureNode(local.Path)
	to := a.Repo.EnsureNode(elem.FilePath)
	if a.Repo.Graph().AddChild(from, to, elem.FileName) {
		slog.Debug("dependency", "from", local.Path, "to", elem.FilePath, "type", elem.QualifiedName())
	}
	return nil
}

func (a *AddDependencyEdge) expandAliases(local lexer.Semi) []string {
	out := make([]string, 0, local.Len())
	for _, tok := range local.Tokens {
		if target, ok := a.Repo.Alias(local.Path, tok); ok {
			out = append(out, target...)
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (a *AddDependencyEdge) candidates(file string, qualifier []string) [][]string {
	join := func(prefix []string) []string {
		c := make([]string, 0, len(prefix)+len(qualifier))
		c = append(c, prefix...)
		return append(c, qualifier...)
	}
	usings := a.Repo.Usings(file)
	cands := make([][]string, 0, len(usings)+2)
	cands = append(cands, join(a.Repo.NamespacePath()))
	for _, u := range usings {
		cands = append(cands, join(u))
	}
	return append(cands, qualifier)
}
