package rules

import (
	"depscan/internal/engine/lexer"
	"depscan/internal/engine/symbols"
)

// DetectAlias matches "using Name = A.B.C;" and hands [Name A B C] to its
// actions.
type DetectAlias struct{ ruleBase }

func (r *DetectAlias) Test(semi lexer.Semi) (bool, error) {
	if !isAliasDirective(semi) {
		return false, nil
	}
	eq := semi.Find("=")
	target := stripDots(semi.Tokens[eq+1 : semi.Len()-1])
	if len(target) == 0 {
		return false, nil
	}
	local := append([]string{semi.At(eq - 1)}, target...)
	return true, r.doActions(semi.With(local))
}

// DetectNamespace matches block and file-scoped namespace declarations and
// hands [namespace Seg1 Seg2 ...] to its actions.
type DetectNamespace struct{ ruleBase }

func (r *DetectNamespace) Test(semi lexer.Semi) (bool, error) {
	i := semi.Find("namespace")
	if i < 0 {
		return false, nil
	}
	last := semi.Last()
	if last != "{" && last != ";" {
		return false, nil
	}
	segs := stripDots(semi.Tokens[i+1 : semi.Len()-1])
	if len(segs) == 0 {
		return false, nil
	}
	for _, s := range segs {
		if !isIdentifier(s) {
			return false, nil
		}
	}
	local := append([]string{symbols.KindNamespace}, segs...)
	return true, r.doActions(semi.With(local))
}

// DetectType matches the opening of a class, struct, interface or enum body
// and hands [kind Name] to its actions.
type DetectType struct{ ruleBase }

func (r *DetectType) Test(semi lexer.Semi) (bool, error) {
	kind, name, ok := typeDeclaration(semi)
	if !ok {
		return false, nil
	}
	return true, r.doActions(semi.With([]string{kind, name}))
}

func typeDeclaration(semi lexer.Semi) (kind, name string, ok bool) {
	if semi.Last() != "{" {
		return "", "", false
	}
	i := findTypeKeyword(semi)
	if i < 0 || !isIdentifier(semi.At(i+1)) {
		return "", "", false
	}
	return semi.Tokens[i], semi.Tokens[i+1], true
}

// DetectDelegate matches a delegate declaration and hands [delegate Name]
// to its actions.
type DetectDelegate struct{ ruleBase }

func (r *DetectDelegate) Test(semi lexer.Semi) (bool, error) {
	i := semi.Find("delegate")
	if i < 0 || semi.Last() != ";" {
		return false, nil
	}
	name := ""
	if p := findOpenParen(semi, i+1); p > i+1 {
		name, _ = nameBefore(semi, p)
	}
	if !isIdentifier(name) {
		name = semi.At(i + 2)
	}
	if !isIdentifier(name) {
		return false, nil
	}
	return true, r.doActions(semi.With([]string{symbols.KindDelegate, name}))
}

// DetectFunction matches the opening of a method, constructor or local
// function body and hands [function Name] to its actions. Control
// statements with parenthesized heads are left to later rules.
type DetectFunction struct {
	ruleBase
	control map[string]bool
}

func (r *DetectFunction) Test(semi lexer.Semi) (bool, error) {
	if semi.Last() != "{" {
		return false, nil
	}
	p := findOpenParen(semi, 0)
	if p <= 0 {
		return false, nil
	}
	name, at := nameBefore(semi, p)
	if !isIdentifier(name) || r.control[name] {
		return false, nil
	}
	if semi.At(at-1) == "new" {
		return false, nil
	}
	return true, r.doActions(semi.With([]string{symbols.KindFunction, name}))
}

// DetectAnonymousScope matches any other opening brace.
type DetectAnonymousScope struct{ ruleBase }

func (r *DetectAnonymousScope) Test(semi lexer.Semi) (bool, error) {
	if semi.Last() != "{" {
		return false, nil
	}
	return true, r.doActions(semi.With([]string{symbols.KindControl, "anonymous"}))
}

// DetectLeavingScope matches a closing brace.
type DetectLeavingScope struct{ ruleBase }

func (r *DetectLeavingScope) Test(semi lexer.Semi) (bool, error) {
	if semi.Last() != "}" {
		return false, nil
	}
	return true, r.doActions(semi.With([]string{"}"}))
}
