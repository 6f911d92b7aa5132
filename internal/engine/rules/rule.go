// Package rules is the rule engine that drives both analysis passes.
// A Parser holds an ordered list of rules. Each semi-expression is offered
// to the rules in order and the first rule that matches stops the search.
// A matching rule hands a trimmed token list to its actions.
package rules

import (
	"unicode"
	"unicode/utf8"

	"depscan/internal/engine/lexer"
)

// Action reacts to a matched semi-expression. The Semi it receives carries
// only the tokens the rule extracted, plus the origin of the full semi.
type Action interface {
	Do(local lexer.Semi) error
}

// ActionFunc adapts a function to Action.
type ActionFunc func(local lexer.Semi) error

func (f ActionFunc) Do(local lexer.Semi) error { return f(local) }

// Rule tests one semi-expression and fires its actions when it matches.
type Rule interface {
	Test(semi lexer.Semi) (bool, error)
	Add(a Action)
}

type ruleBase struct {
	actions []Action
}

func (r *ruleBase) Add(a Action) {
	r.actions = append(r.actions, a)
}

func (r *ruleBase) doActions(local lexer.Semi) error {
	for _, a := range r.actions {
		if err := a.Do(local); err != nil {
			return err
		}
	}
	return nil
}

// Parser offers each semi-expression to its rules in order.
type Parser struct {
	rules []Rule
}

func NewParser() *Parser {
	return &Parser{}
}

// Add appends a rule and returns the parser for chaining.
func (p *Parser) Add(r Rule) *Parser {
	p.rules = append(p.rules, r)
	return p
}

// Parse stops at the first rule that matches or returns an error.
func (p *Parser) Parse(semi lexer.Semi) error {
	for _, r := range p.rules {
		ok, err := r.Test(semi)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return nil
}

// Len is the number of rules.
func (p *Parser) Len() int {
	return len(p.rules)
}

func isIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(tok)
	if first != '_' && !unicode.IsLetter(first) {
		return false
	}
	for _, ch := range tok {
		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

var typeKinds = map[string]bool{
	"class":     true,
	"struct":    true,
	"interface": true,
	"enum":      true,
}

// findTypeKeyword returns the index of the first type keyword, or -1.
func findTypeKeyword(semi lexer.Semi) int {
	for i, tok := range semi.Tokens {
		if typeKinds[tok] {
			return i
		}
	}
	return -1
}

// findOpenParen returns the index of the first "(" or "()", or -1.
func findOpenParen(semi lexer.Semi, from int) int {
	for i := from; i < semi.Len(); i++ {
		if t := semi.Tokens[i]; t == "(" || t == "()" {
			return i
		}
	}
	return -1
}

// nameBefore returns the identifier ending just before index p, stepping
// back over one balanced generic argument list.
func nameBefore(semi lexer.Semi, p int) (string, int) {
	i := p - 1
	if semi.At(i) == ">" || semi.At(i) == ">>" {
		depth := 0
		for ; i >= 0; i-- {
			switch semi.Tokens[i] {
			case ">":
				depth++
			case ">>":
				depth += 2
			case "<":
				depth--
			case "<<":
				depth -= 2
			}
			if depth <= 0 {
				break
			}
		}
		i--
	}
	if i < 0 {
		return "", -1
	}
	return semi.Tokens[i], i
}

// usingStart returns the index of a leading using directive keyword,
// allowing a "global" prefix, or -1.
func usingStart(semi lexer.Semi) int {
	switch {
	case semi.At(0) == "using":
		return 0
	case semi.At(0) == "global" && semi.At(1) == "using":
		return 1
	}
	return -1
}

// isAliasDirective matches "using Name = Target;".
func isAliasDirective(semi lexer.Semi) bool {
	u := usingStart(semi)
	return u >= 0 && semi.Last() == ";" && semi.At(u+2) == "=" && isIdentifier(semi.At(u+1))
}

// stripDots drops "." and "::" separators.
func stripDots(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t == "." || t == "::" {
			continue
		}
		out = append(out, t)
	}
	return out
}
