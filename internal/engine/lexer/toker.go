package lexer

// Kind classifies a token by the state that produced it.
type Kind int

const (
	KindWhitespace Kind = iota
	KindNewline
	KindAlphaNum
	KindBlockComment
	KindLineComment
	KindDoublePunct
	KindSinglePunct
	KindDoubleQuote
	KindSingleQuote
	KindPunct
)

var kindNames = [...]string{
	KindWhitespace:   "whitespace",
	KindNewline:      "newline",
	KindAlphaNum:     "alphanum",
	KindBlockComment: "block-comment",
	KindLineComment:  "line-comment",
	KindDoublePunct:  "double-punct",
	KindSinglePunct:  "single-punct",
	KindDoubleQuote:  "double-quote",
	KindSingleQuote:  "single-quote",
	KindPunct:        "punct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsComment reports whether the kind is a line or block comment.
func (k Kind) IsComment() bool {
	return k == KindBlockComment || k == KindLineComment
}

type Token struct {
	Text string
	Kind Kind
	Line int
}

// DefaultDoublePunct are the two-character operators kept as one token.
var DefaultDoublePunct = []string{
	"<<", ">>", "::", "++", "--", "==", "+=", "-=", "*=", "/=",
	"&&", "||", "=>", "&=", "^=", "??", "!=", ">=", "<=", "?:",
	"()", "[]", "?.",
}

// DefaultSinglePunct are the characters always emitted as their own token.
var DefaultSinglePunct = []rune{
	'<', '>', '[', ']', '(', ')', '{', '}', ':', '=', '+', '-', '*', '/', ';', ',',
}

type tokerConfig struct {
	doublePunct    []string
	singlePunct    []rune
	returnComments bool
}

// Option adjusts tokenizer behavior.
type Option func(*tokerConfig)

// WithDoublePunct replaces the two-character operator set.
func WithDoublePunct(ops []string) Option {
	return func(c *tokerConfig) { c.doublePunct = ops }
}

// WithSinglePunct replaces the single-character operator set.
func WithSinglePunct(ops []rune) Option {
	return func(c *tokerConfig) { c.singlePunct = ops }
}

// WithComments controls whether comment tokens are returned. Default true.
func WithComments(enabled bool) Option {
	return func(c *tokerConfig) { c.returnComments = enabled }
}

// Toker turns a Source into tokens. States are tried in a fixed priority
// order and the first whose start condition holds extracts the token.
// Whitespace is recognized but never returned.
type Toker struct {
	src    *Source
	states []state
	cfg    tokerConfig
}

func NewToker(opts ...Option) *Toker {
	cfg := tokerConfig{
		doublePunct:    DefaultDoublePunct,
		singlePunct:    DefaultSinglePunct,
		returnComments: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	double := make(map[string]bool, len(cfg.doublePunct))
	for _, op := range cfg.doublePunct {
		if len([]rune(op)) == 2 {
			double[op] = true
		}
	}
	single := make(map[rune]bool, len(cfg.singlePunct))
	for _, op := range cfg.singlePunct {
		single[op] = true
	}

	states := []state{
		newlineState{},
		whitespaceState{},
		alphaNumState{},
		blockCommentState{},
		lineCommentState{},
		doublePunctState{ops: double},
		singlePunctState{ops: single},
		doubleQuoteState{},
		singleQuoteState{},
	}
	states = append(states, punctState{others: append([]state(nil), states...)})

	return &Toker{states: states, cfg: cfg}
}

// Open binds the toker to a file, closing any previous source.
func (t *Toker) Open(path string) error {
	src, err := OpenFile(path)
	if err != nil {
		return err
	}
	t.Attach(src)
	return nil
}

// OpenString binds the toker to literal text.
func (t *Toker) OpenString(text string) {
	t.Attach(NewStringSource(text))
}

// Attach binds the toker to an existing source.
func (t *Toker) Attach(src *Source) {
	_ = t.Close()
	t.src = src
}

func (t *Toker) Close() error {
	if t.src == nil {
		return nil
	}
	return t.src.Close()
}

// GetTok returns the next significant token. ok is false at end of stream.
func (t *Toker) GetTok() (tok Token, ok bool) {
	if t.src == nil {
		return Token{}, false
	}
	for !t.src.End() {
		line := t.src.Line()
		st := t.dispatch()
		text := st.extract(t.src)
		k := st.kind()
		if k == KindWhitespace {
			continue
		}
		if k.IsComment() && !t.cfg.returnComments {
			continue
		}
		return Token{Text: text, Kind: k, Line: line}, true
	}
	return Token{}, false
}

func (t *Toker) dispatch() state {
	for _, st := range t.states {
		if st.starts(t.src) {
			return st
		}
	}
	return t.states[len(t.states)-1]
}

// LineCount is the line the toker is currently positioned on.
func (t *Toker) LineCount() int {
	if t.src == nil {
		return 0
	}
	return t.src.Line()
}

// IsDone reports whether the bound source is exhausted.
func (t *Toker) IsDone() bool {
	return t.src == nil || t.src.End()
}

// Err returns any read failure from the bound source.
func (t *Toker) Err() error {
	if t.src == nil {
		return nil
	}
	return t.src.Err()
}
