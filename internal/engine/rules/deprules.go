package rules

import (
	"depscan/internal/engine/lexer"
)

// keywords never name a user type.
var keywords = toSet([]string{
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit",
	"extern", "false", "finally", "fixed", "float", "for", "foreach",
	"goto", "if", "implicit", "in", "int", "interface", "internal", "is",
	"lock", "long", "namespace", "new", "null", "object", "operator", "out",
	"override", "params", "private", "protected", "public", "readonly",
	"ref", "return", "sbyte", "sealed", "short", "sizeof", "stackalloc",
	"static", "string", "struct", "switch", "this", "throw", "true", "try",
	"typeof", "uint", "ulong", "unchecked", "unsafe", "ushort", "using",
	"virtual", "void", "volatile", "while",
	"var", "get", "set", "value", "partial", "async", "await", "record",
	"where", "dynamic", "nameof", "add", "remove", "yield", "global",
	"init", "required",
})

func toSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}

func isPossibleType(tok string) bool {
	return isIdentifier(tok) && !keywords[tok]
}

// qualifiedGroups returns, for each candidate identifier at or after from,
// the identifier together with the dotted qualifier in front of it. For
// A.B.C that is [A], [A B] and [A B C]. Names in skip are ignored.
func qualifiedGroups(semi lexer.Semi, from int, skip map[string]bool) [][]string {
	var groups [][]string
	for i := from; i < semi.Len(); i++ {
		tok := semi.Tokens[i]
		if !isPossibleType(tok) || skip[tok] {
			continue
		}
		start := i
		for start >= 2 && semi.Tokens[start-1] == "." && isIdentifier(semi.Tokens[start-2]) {
			start -= 2
		}
		groups = append(groups, stripDots(semi.Tokens[start:i+1]))
	}
	return groups
}

// DetectUsing matches a using directive and hands the imported namespace
// segments to its actions. Alias directives match without firing actions.
// Directives naming the builtin root are ignored.
type DetectUsing struct {
	ruleBase
	builtinRoot string
}

func (r *DetectUsing) Test(semi lexer.Semi) (bool, error) {
	u := usingStart(semi)
	if u < 0 || semi.Last() != ";" {
		return false, nil
	}
	if isAliasDirective(semi) {
		return true, nil
	}
	body := semi.Tokens[u+1 : semi.Len()-1]
	if len(body) > 0 && body[0] == "static" {
		body = body[1:]
	}
	for _, t := range body {
		if t != "." && !isIdentifier(t) {
			// using statement or declaration, not a directive
			return false, nil
		}
	}
	path := stripDots(body)
	if len(path) == 0 {
		return false, nil
	}
	if path[0] == r.builtinRoot {
		return true, nil
	}
	return true, r.doActions(semi.With(path))
}

// DetectInheritedType matches a type declaration header and offers every
// type named after the declared name, base list and constraints included,
// as a dependency candidate. Generic parameters of the declared type are
// skipped.
type DetectInheritedType struct{ ruleBase }

func (r *DetectInheritedType) Test(semi lexer.Semi) (bool, error) {
	if _, _, ok := typeDeclaration(semi); !ok {
		return false, nil
	}
	i := findTypeKeyword(semi)
	from := i + 2
	skip := make(map[string]bool)
	if semi.At(from) == "<" {
		for ; from < semi.Len() && semi.Tokens[from] != ">"; from++ {
			if isIdentifier(semi.Tokens[from]) {
				skip[semi.Tokens[from]] = true
			}
		}
	}
	for _, g := range qualifiedGroups(semi, from, skip) {
		if err := r.doActions(semi.With(g)); err != nil {
			return true, err
		}
	}
	return true, nil
}

// DetectCandidateType offers every possible type reference in the semi as
// a dependency candidate. It always matches.
type DetectCandidateType struct{ ruleBase }

func (r *DetectCandidateType) Test(semi lexer.Semi) (bool, error) {
	for _, g := range qualifiedGroups(semi, 0, nil) {
		if err := r.doActions(semi.With(g)); err != nil {
			return true, err
		}
	}
	return true, nil
}
