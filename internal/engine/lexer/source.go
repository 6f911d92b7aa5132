package lexer

import (
	"bufio"
	"io"
	"os"
	"strings"

	domainErrors "depscan/internal/core/errors"
)

// EOF is returned by Peek and Next once the stream is exhausted.
const EOF rune = -1

// maxLookahead bounds Peek. Four characters cover every start condition
// the tokenizer states need ('\x' is the longest).
const maxLookahead = 4

// Source is a character stream with a small lookahead queue and a line
// counter. Line numbers start at 1 and advance each time Next consumes '\n'.
// A lone '\r' and the pair "\r\n" are both delivered as a single '\n'.
type Source struct {
	r      *bufio.Reader
	closer io.Closer
	queue  []rune
	eof    bool
	err    error
	line   int
}

// OpenFile opens path as a character source.
func OpenFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		wrapped := domainErrors.Wrap(err, domainErrors.CodeSourceUnavailable, "open source")
		return nil, domainErrors.AddContext(wrapped, domainErrors.CtxPath, path)
	}
	return newSource(f, f), nil
}

// NewStringSource wraps literal text as a character source.
func NewStringSource(text string) *Source {
	return newSource(strings.NewReader(text), nil)
}

// NewReaderSource wraps an arbitrary reader. The reader is not closed.
func NewReaderSource(r io.Reader) *Source {
	return newSource(r, nil)
}

func newSource(r io.Reader, c io.Closer) *Source {
	return &Source{
		r:      bufio.NewReader(r),
		closer: c,
		queue:  make([]rune, 0, maxLookahead),
		line:   1,
	}
}

func (s *Source) read() (rune, bool) {
	if s.eof {
		return EOF, false
	}
	ch, _, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		s.eof = true
		return EOF, false
	}
	if ch == '\r' {
		if next, _, err := s.r.ReadRune(); err == nil && next != '\n' {
			_ = s.r.UnreadRune()
		}
		ch = '\n'
	}
	return ch, true
}

func (s *Source) fill(n int) bool {
	for len(s.queue) <= n {
		ch, ok := s.read()
		if !ok {
			return false
		}
		s.queue = append(s.queue, ch)
	}
	return true
}

// Peek returns the character n positions ahead without consuming it.
// n must be less than four. Peeking past the end returns EOF.
func (s *Source) Peek(n int) rune {
	if n < 0 || n >= maxLookahead {
		return EOF
	}
	if !s.fill(n) {
		return EOF
	}
	return s.queue[n]
}

// Next consumes and returns one character.
func (s *Source) Next() rune {
	if !s.fill(0) {
		return EOF
	}
	ch := s.queue[0]
	s.queue = s.queue[1:]
	if ch == '\n' {
		s.line++
	}
	return ch
}

// End reports whether the stream is exhausted.
func (s *Source) End() bool {
	return !s.fill(0)
}

// Line is the current one-based line number.
func (s *Source) Line() int {
	return s.line
}

// Err returns the first read error other than io.EOF.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}
