package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func semis(text string) [][]string {
	se := NewSemiExp()
	se.OpenString("test.cs", text)
	var out [][]string
	for semi := se.Get(); semi.Len() > 0; semi = se.Get() {
		out = append(out, semi.Tokens)
	}
	return out
}

func TestSemiExp_Terminators(t *testing.T) {
	got := semis("namespace N { class C { int x = 5; } }")
	assert.Equal(t, [][]string{
		{"namespace", "N", "{"},
		{"class", "C", "{"},
		{"int", "x", "=", "5", ";"},
		{"}"},
		{"}"},
	}, got)
}

func TestSemiExp_ForHeaderIsOneSemi(t *testing.T) {
	got := semis("for (int i = 0; i < n; ++i) { f(i); }")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"for", "(", "int", "i", "=", "0", ";", "i", "<", "n", ";", "++", "i", ")", "{"}, got[0])
	assert.Equal(t, []string{"f", "(", "i", ")", ";"}, got[1])
}

func TestSemiExp_CaseAndDefaultLabels(t *testing.T) {
	got := semis("switch (k) { case 1: x = a ? b : c; break; default: break; }")
	assert.Equal(t, [][]string{
		{"switch", "(", "k", ")", "{"},
		{"case", "1", ":"},
		{"x", "=", "a", "?", "b", ":", "c", ";"},
		{"break", ";"},
		{"default", ":"},
		{"break", ";"},
		{"}"},
	}, got)
}

func TestSemiExp_DirectiveEndsAtNewline(t *testing.T) {
	got := semis("#region Helpers\nint y;\n#endregion")
	assert.Equal(t, [][]string{
		{"#", "region", "Helpers"},
		{"int", "y", ";"},
		{"#", "endregion"},
	}, got)
}

func TestSemiExp_AttributeEndsAtBracket(t *testing.T) {
	got := semis("[Serializable] public class P { }")
	assert.Equal(t, [][]string{
		{"[", "Serializable", "]"},
		{"public", "class", "P", "{"},
		{"}"},
	}, got)
}

func TestSemiExp_CommentsAndNewlinesDropped(t *testing.T) {
	got := semis("// header\nint /* inline */ a\n = 1; /* trailing { */")
	assert.Equal(t, [][]string{{"int", "a", "=", "1", ";"}}, got)
}

func TestSemiExp_LinesAndDone(t *testing.T) {
	se := NewSemiExp()
	se.OpenString("f.cs", "class A\n{\n}\n")

	first := se.Get()
	assert.Equal(t, "f.cs", first.Path)
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 2, first.Line)
	assert.False(t, se.IsDone())

	second := se.Get()
	assert.Equal(t, []string{"}"}, second.Tokens)
	assert.Equal(t, 3, second.Line)

	last := se.Get()
	assert.Equal(t, 0, last.Len())
	assert.True(t, se.IsDone())
}

func TestSemi_Helpers(t *testing.T) {
	s := Semi{Tokens: []string{"public", "class", "D", ":", "B", "{"}}
	assert.Equal(t, 1, s.Find("class"))
	assert.Equal(t, -1, s.Find("struct"))
	assert.True(t, s.Contains("B"))
	assert.Equal(t, "D", s.Predecessor(":"))
	assert.Equal(t, "", s.Predecessor("public"))
	assert.True(t, s.HasSequence("class", ":", "{"))
	assert.False(t, s.HasSequence("{", "class"))
	assert.Equal(t, "{", s.Last())
	assert.True(t, s.HasTerminator())
	assert.Equal(t, "public class D : B {", s.String())
	assert.Equal(t, []string{"D", ":"}, s.Sub(2, 4).Tokens)
}
