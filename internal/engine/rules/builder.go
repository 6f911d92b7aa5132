package rules

import (
	"depscan/internal/engine/repository"
)

// DefaultControlKeywords head parenthesized statements that open a body
// but do not declare a function.
var DefaultControlKeywords = []string{
	"if", "for", "foreach", "while", "catch", "using", "switch", "lock",
	"fixed", "else", "do", "try", "finally", "checked", "unchecked",
	"return", "new", "typeof", "nameof", "when", "base", "this",
}

// Options tune rule matching.
type Options struct {
	// BuiltinRoot is the namespace root whose using directives are ignored.
	BuiltinRoot     string
	ControlKeywords []string
}

func DefaultOptions() Options {
	return Options{BuiltinRoot: "System", ControlKeywords: DefaultControlKeywords}
}

func (o Options) control() map[string]bool {
	list := o.ControlKeywords
	if len(list) == 0 {
		list = DefaultControlKeywords
	}
	return toSet(list)
}

// BuildTypeAnalyzer returns the type-pass parser. It records aliases,
// declarations and scope extents into repo.
func BuildTypeAnalyzer(repo *repository.Repository, opts Options) *Parser {
	push := &PushScope{Repo: repo, Record: true}
	declare := &PushTypeDeclaration{Repo: repo}

	alias := &DetectAlias{}
	alias.Add(&SaveAlias{Repo: repo})
	namespace := &DetectNamespace{}
	namespace.Add(push)
	typ := &DetectType{}
	typ.Add(declare)
	delegate := &DetectDelegate{}
	delegate.Add(declare)
	function := &DetectFunction{control: opts.control()}
	function.Add(push)
	anon := &DetectAnonymousScope{}
	anon.Add(push)
	leaving := &DetectLeavingScope{}
	leaving.Add(&PopScope{Repo: repo})

	return NewParser().
		Add(alias).
		Add(namespace).
		Add(typ).
		Add(delegate).
		Add(function).
		Add(anon).
		Add(leaving)
}

// BuildScopeTracker returns a parser with the type-pass rules that only
// keeps the scope stack in step. The dependency pass runs it ahead of the
// dependency parser on every semi-expression.
func BuildScopeTracker(repo *repository.Repository, opts Options) *Parser {
	push := &PushScope{Repo: repo}

	namespace := &DetectNamespace{}
	namespace.Add(push)
	typ := &DetectType{}
	typ.Add(push)
	function := &DetectFunction{control: opts.control()}
	function.Add(push)
	anon := &DetectAnonymousScope{}
	anon.Add(push)
	leaving := &DetectLeavingScope{}
	leaving.Add(&PopScope{Repo: repo})

	return NewParser().
		Add(&DetectAlias{}).
		Add(namespace).
		Add(typ).
		Add(&DetectDelegate{}).
		Add(function).
		Add(anon).
		Add(leaving)
}

// BuildDepAnalyzer returns the dependency-pass parser. It records usings
// and adds graph edges for references to types declared in other files.
func BuildDepAnalyzer(repo *repository.Repository, opts Options) *Parser {
	edge := &AddDependencyEdge{Repo: repo}

	using := &DetectUsing{builtinRoot: opts.BuiltinRoot}
	using.Add(&SaveUsing{Repo: repo})
	inherited := &DetectInheritedType{}
	inherited.Add(edge)
	candidate := &DetectCandidateType{}
	candidate.Add(edge)

	return NewParser().
		Add(using).
		Add(&DetectNamespace{}).
		Add(&DetectLeavingScope{}).
		Add(inherited).
		Add(candidate)
}
