package lexer

import (
	"strings"
	"unicode"
)

// state recognizes and extracts one token class. Each state decides from
// lookahead alone whether the next token belongs to it.
type state interface {
	kind() Kind
	starts(src *Source) bool
	extract(src *Source) string
}

type newlineState struct{}

func (newlineState) kind() Kind { return KindNewline }

func (newlineState) starts(src *Source) bool { return src.Peek(0) == '\n' }

// extract collapses a run of newlines into one token.
func (newlineState) extract(src *Source) string {
	src.Next()
	for src.Peek(0) == '\n' {
		src.Next()
	}
	return "\n"
}

type whitespaceState struct{}

func (whitespaceState) kind() Kind { return KindWhitespace }

func (whitespaceState) starts(src *Source) bool { return isSpace(src.Peek(0)) }

func (whitespaceState) extract(src *Source) string {
	var b strings.Builder
	for isSpace(src.Peek(0)) {
		b.WriteRune(src.Next())
	}
	return b.String()
}

func isSpace(ch rune) bool {
	return ch != EOF && ch != '\n' && unicode.IsSpace(ch)
}

type alphaNumState struct{}

func (alphaNumState) kind() Kind { return KindAlphaNum }

func (alphaNumState) starts(src *Source) bool { return isIdentRune(src.Peek(0)) }

func (alphaNumState) extract(src *Source) string {
	var b strings.Builder
	for isIdentRune(src.Peek(0)) {
		b.WriteRune(src.Next())
	}
	return b.String()
}

func isIdentRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

type blockCommentState struct{}

func (blockCommentState) kind() Kind { return KindBlockComment }

func (blockCommentState) starts(src *Source) bool {
	return src.Peek(0) == '/' && src.Peek(1) == '*'
}

// extract reads through the closing "*/" or to end of stream.
func (blockCommentState) extract(src *Source) string {
	var b strings.Builder
	b.WriteRune(src.Next())
	b.WriteRune(src.Next())
	for !src.End() {
		if src.Peek(0) == '*' && src.Peek(1) == '/' {
			b.WriteRune(src.Next())
			b.WriteRune(src.Next())
			break
		}
		b.WriteRune(src.Next())
	}
	return b.String()
}

type lineCommentState struct{}

func (lineCommentState) kind() Kind { return KindLineComment }

func (lineCommentState) starts(src *Source) bool {
	return src.Peek(0) == '/' && src.Peek(1) == '/'
}

// extract stops before the newline so it still reaches the assembler.
func (lineCommentState) extract(src *Source) string {
	var b strings.Builder
	for ch := src.Peek(0); ch != EOF && ch != '\n'; ch = src.Peek(0) {
		b.WriteRune(src.Next())
	}
	return b.String()
}

type doublePunctState struct {
	ops map[string]bool
}

func (doublePunctState) kind() Kind { return KindDoublePunct }

func (s doublePunctState) starts(src *Source) bool {
	a, b := src.Peek(0), src.Peek(1)
	if a == EOF || b == EOF {
		return false
	}
	return s.ops[string([]rune{a, b})]
}

func (doublePunctState) extract(src *Source) string {
	return string([]rune{src.Next(), src.Next()})
}

type singlePunctState struct {
	ops map[rune]bool
}

func (singlePunctState) kind() Kind { return KindSinglePunct }

func (s singlePunctState) starts(src *Source) bool { return s.ops[src.Peek(0)] }

func (singlePunctState) extract(src *Source) string { return string(src.Next()) }

type doubleQuoteState struct{}

func (doubleQuoteState) kind() Kind { return KindDoubleQuote }

func (doubleQuoteState) starts(src *Source) bool {
	return quotePrefix(src) > 0
}

// quotePrefix returns the number of characters up to and including the
// opening '"' of a string literal, or 0 when none starts here.
// Recognized openings: " @" $" $@" @$".
func quotePrefix(src *Source) int {
	for i := 0; i < 3; i++ {
		switch src.Peek(i) {
		case '"':
			return i + 1
		case '@', '$':
			if i == 2 {
				return 0
			}
			if i == 1 && src.Peek(0) == src.Peek(1) {
				return 0
			}
		default:
			return 0
		}
	}
	return 0
}

func (doubleQuoteState) extract(src *Source) string {
	var b strings.Builder
	n := quotePrefix(src)
	verbatim := false
	for i := 0; i < n; i++ {
		ch := src.Next()
		if ch == '@' {
			verbatim = true
		}
		b.WriteRune(ch)
	}
	if verbatim {
		extractVerbatim(src, &b)
	} else {
		extractEscaped(src, &b, '"')
	}
	return b.String()
}

// extractVerbatim reads a @"..." body, where "" is an embedded quote.
func extractVerbatim(src *Source, b *strings.Builder) {
	for !src.End() {
		ch := src.Next()
		b.WriteRune(ch)
		if ch != '"' {
			continue
		}
		if src.Peek(0) != '"' {
			return
		}
		b.WriteRune(src.Next())
	}
}

// extractEscaped reads up to a closing quote preceded by an even number of
// backslashes. An unterminated literal ends at end of stream.
func extractEscaped(src *Source, b *strings.Builder, quote rune) {
	backslashes := 0
	for !src.End() {
		ch := src.Next()
		b.WriteRune(ch)
		if ch == quote && backslashes%2 == 0 {
			return
		}
		if ch == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}
}

type singleQuoteState struct{}

func (singleQuoteState) kind() Kind { return KindSingleQuote }

// starts accepts 'x' and '\x'.
func (singleQuoteState) starts(src *Source) bool {
	if src.Peek(0) != '\'' {
		return false
	}
	if src.Peek(1) == '\\' {
		return src.Peek(3) == '\''
	}
	return src.Peek(1) != EOF && src.Peek(2) == '\''
}

func (singleQuoteState) extract(src *Source) string {
	var b strings.Builder
	b.WriteRune(src.Next())
	extractEscaped(src, &b, '\'')
	return b.String()
}

// punctState is the fallback: a run of characters no other state claims.
type punctState struct {
	others []state
}

func (punctState) kind() Kind { return KindPunct }

func (punctState) starts(src *Source) bool { return !src.End() }

func (s punctState) extract(src *Source) string {
	var b strings.Builder
	b.WriteRune(src.Next())
	for !src.End() && !s.claimed(src) {
		b.WriteRune(src.Next())
	}
	return b.String()
}

func (s punctState) claimed(src *Source) bool {
	for _, st := range s.others {
		if st.starts(src) {
			return true
		}
	}
	return false
}
