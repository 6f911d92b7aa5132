package lexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, text string, opts ...Option) []Token {
	t.Helper()
	tk := NewToker(opts...)
	tk.OpenString(text)
	var toks []Token
	for {
		tok, ok := tk.GetTok()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

func TestToker_Declaration(t *testing.T) {
	toks := collect(t, "int x = 5;")
	assert.Equal(t, []string{"int", "x", "=", "5", ";"}, texts(toks))
	assert.Equal(t, KindAlphaNum, toks[0].Kind)
	assert.Equal(t, KindSinglePunct, toks[2].Kind)
}

func TestToker_EscapedQuotesStayInOneToken(t *testing.T) {
	toks := collect(t, `s = "he said \"hi\"";`)
	require.Len(t, toks, 4)
	assert.Equal(t, `"he said \"hi\""`, toks[2].Text)
	assert.Equal(t, KindDoubleQuote, toks[2].Kind)
}

func TestToker_TrailingBackslashPair(t *testing.T) {
	toks := collect(t, `p = "dir\\"; q`)
	assert.Equal(t, []string{"p", "=", `"dir\\"`, ";", "q"}, texts(toks))
}

func TestToker_VerbatimString(t *testing.T) {
	toks := collect(t, `p = @"C:\tmp\""x"; y`)
	assert.Equal(t, []string{"p", "=", `@"C:\tmp\""x"`, ";", "y"}, texts(toks))
}

func TestToker_InterpolatedString(t *testing.T) {
	toks := collect(t, `m($"n={n}");`)
	assert.Equal(t, []string{"m", "(", `$"n={n}"`, ")", ";"}, texts(toks))
}

func TestToker_BlockCommentWithEmbeddedLineComment(t *testing.T) {
	toks := collect(t, "a /* one // two\n three */ b")
	require.Len(t, toks, 3)
	assert.Equal(t, "/* one // two\n three */", toks[1].Text)
	assert.Equal(t, KindBlockComment, toks[1].Kind)
	assert.Equal(t, 2, toks[2].Line)
}

func TestToker_LineCommentLeavesNewline(t *testing.T) {
	toks := collect(t, "x; // note\ny")
	assert.Equal(t, []string{"x", ";", "// note", "\n", "y"}, texts(toks))
	assert.Equal(t, KindLineComment, toks[2].Kind)
	assert.Equal(t, KindNewline, toks[3].Kind)
}

func TestToker_CommentsSuppressed(t *testing.T) {
	toks := collect(t, "x /* c */ y // d", WithComments(false))
	assert.Equal(t, []string{"x", "y"}, texts(toks))
}

func TestToker_CharLiterals(t *testing.T) {
	toks := collect(t, `c = 'a'; d = '\''; e = '\n';`)
	assert.Equal(t, []string{"c", "=", "'a'", ";", "d", "=", `'\''`, ";", "e", "=", `'\n'`, ";"}, texts(toks))
	assert.Equal(t, KindSingleQuote, toks[2].Kind)
}

func TestToker_DoubleAndSinglePunct(t *testing.T) {
	toks := collect(t, "a ?? b?.c != d::e; f() [] x<<=1")
	assert.Equal(t, []string{
		"a", "??", "b", "?.", "c", "!=", "d", "::", "e", ";",
		"f", "()", "[]", "x", "<<", "=", "1",
	}, texts(toks))
}

func TestToker_GenericPunctRun(t *testing.T) {
	toks := collect(t, "a.b !! #region")
	assert.Equal(t, []string{"a", ".", "b", "!!", "#", "region"}, texts(toks))
	assert.Equal(t, KindPunct, toks[1].Kind)
}

func TestToker_NewlinesCollapseAndNormalize(t *testing.T) {
	toks := collect(t, "a\r\n\r\n\rb\nc")
	assert.Equal(t, []string{"a", "\n", "b", "\n", "c"}, texts(toks))
	assert.Equal(t, 4, toks[2].Line)
	assert.Equal(t, 5, toks[4].Line)
}

func TestToker_UnterminatedLiteralsAreTruncated(t *testing.T) {
	toks := collect(t, `x = "never closed`)
	assert.Equal(t, []string{"x", "=", `"never closed`}, texts(toks))

	toks = collect(t, "y /* open")
	assert.Equal(t, []string{"y", "/* open"}, texts(toks))
}

func TestToker_OpenMissingFile(t *testing.T) {
	tk := NewToker()
	err := tk.Open(filepath.Join(t.TempDir(), "absent.cs"))
	require.Error(t, err)
	_, ok := tk.GetTok()
	assert.False(t, ok)
}

func TestToker_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	require.NoError(t, os.WriteFile(path, []byte("class A { }\n"), 0o644))

	tk := NewToker()
	require.NoError(t, tk.Open(path))
	defer tk.Close()

	var got []string
	for tok, ok := tk.GetTok(); ok; tok, ok = tk.GetTok() {
		got = append(got, tok.Text)
	}
	assert.Equal(t, []string{"class", "A", "{", "}", "\n"}, got)
	assert.True(t, tk.IsDone())
}

func TestSource_PeekIsBounded(t *testing.T) {
	src := NewStringSource("abcdef")
	assert.Equal(t, 'd', src.Peek(3))
	assert.Equal(t, EOF, src.Peek(4))
	assert.Equal(t, 'a', src.Next())
	assert.Equal(t, 'e', src.Peek(3))
	assert.False(t, src.End())
}
