package lexer

import "strings"

// Semi is one grammatical unit: the tokens up to and including a
// terminator. Comments and newlines never appear in Tokens.
type Semi struct {
	Tokens    []string
	Path      string
	StartLine int
	Line      int
}

func (s Semi) Len() int { return len(s.Tokens) }

// At returns the token at i, or "" when out of range.
func (s Semi) At(i int) string {
	if i < 0 || i >= len(s.Tokens) {
		return ""
	}
	return s.Tokens[i]
}

// Last returns the final token, or "".
func (s Semi) Last() string {
	return s.At(len(s.Tokens) - 1)
}

// Find returns the index of the first occurrence of tok, or -1.
func (s Semi) Find(tok string) int {
	for i, t := range s.Tokens {
		if t == tok {
			return i
		}
	}
	return -1
}

func (s Semi) Contains(tok string) bool {
	return s.Find(tok) >= 0
}

// Predecessor returns the token before the first occurrence of tok.
func (s Semi) Predecessor(tok string) string {
	i := s.Find(tok)
	if i <= 0 {
		return ""
	}
	return s.Tokens[i-1]
}

// HasSequence reports whether toks appear in order, not necessarily adjacent.
func (s Semi) HasSequence(toks ...string) bool {
	pos := 0
	for _, tok := range toks {
		found := false
		for ; pos < len(s.Tokens); pos++ {
			if s.Tokens[pos] == tok {
				found = true
				pos++
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HasTerminator reports whether the semi ends in ; { or }.
func (s Semi) HasTerminator() bool {
	switch s.Last() {
	case ";", "{", "}":
		return true
	}
	return false
}

// Sub copies Tokens[from:to] into a new Semi carrying the same origin.
func (s Semi) Sub(from, to int) Semi {
	return s.With(append([]string(nil), s.Tokens[from:to]...))
}

// With returns a Semi over toks carrying the same origin.
func (s Semi) With(toks []string) Semi {
	return Semi{Tokens: toks, Path: s.Path, StartLine: s.StartLine, Line: s.Line}
}

func (s Semi) String() string {
	return strings.Join(s.Tokens, " ")
}

// SemiExp assembles tokens from a Toker into Semis.
type SemiExp struct {
	toker *Toker
	path  string
	done  bool
}

func NewSemiExp(opts ...Option) *SemiExp {
	return &SemiExp{toker: NewToker(opts...)}
}

// Open binds the assembler to a file.
func (se *SemiExp) Open(path string) error {
	if err := se.toker.Open(path); err != nil {
		return err
	}
	se.path = path
	se.done = false
	return nil
}

// OpenString binds the assembler to literal text recorded under path.
func (se *SemiExp) OpenString(path, text string) {
	se.toker.OpenString(text)
	se.path = path
	se.done = false
}

func (se *SemiExp) Close() error {
	return se.toker.Close()
}

// IsDone reports whether the underlying toker has been exhausted.
func (se *SemiExp) IsDone() bool {
	return se.done
}

// LineCount is the line the underlying toker is positioned on.
func (se *SemiExp) LineCount() int {
	return se.toker.LineCount()
}

// Err returns any read failure from the underlying source.
func (se *SemiExp) Err() error {
	return se.toker.Err()
}

// Get collects the next Semi. An empty Semi means the source is exhausted.
//
// A `for` adds two to a counter and each ';' seen while it is positive is
// absorbed, so a whole for-header stays in one Semi.
func (se *SemiExp) Get() Semi {
	semi := Semi{Path: se.path, Line: se.toker.LineCount()}
	forSemis := 0
	for {
		tok, ok := se.toker.GetTok()
		if !ok {
			se.done = true
			break
		}
		if tok.Kind.IsComment() {
			continue
		}
		semi.Line = tok.Line
		if tok.Kind != KindNewline {
			if len(semi.Tokens) == 0 {
				semi.StartLine = tok.Line
			}
			semi.Tokens = append(semi.Tokens, tok.Text)
		}
		if tok.Kind == KindAlphaNum && tok.Text == "for" {
			forSemis += 2
		}
		if tok.Text == ";" && forSemis > 0 {
			forSemis--
			continue
		}
		if isTerminator(semi, tok) {
			break
		}
	}
	return semi
}

func isTerminator(semi Semi, tok Token) bool {
	if tok.Kind == KindNewline {
		return semi.At(0) == "#"
	}
	switch tok.Text {
	case ";", "{", "}":
		return true
	case ":":
		first := semi.At(0)
		return first == "case" || first == "default"
	case "]":
		return semi.At(0) == "["
	}
	return false
}
