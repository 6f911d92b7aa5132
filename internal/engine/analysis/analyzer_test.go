package analysis

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "depscan/internal/core/errors"
	"depscan/internal/engine/graph"
	"depscan/internal/engine/lexer"
	"depscan/internal/engine/repository"
	"depscan/internal/engine/rules"
	"depscan/internal/engine/symbols"
)

// faultySource reads through LexerSource except for the listed paths,
// which panic or fail.
type faultySource struct {
	panics map[string]bool
	fails  map[string]error
}

func (s faultySource) Semis(ctx context.Context, path string) ([]lexer.Semi, error) {
	if s.panics[path] {
		panic("tokenizer state corrupted")
	}
	if err, ok := s.fails[path]; ok {
		return nil, err
	}
	return LexerSource{}.Semis(ctx, path)
}

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range sortedKeys(files) {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(files[name]), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func edgeLabels(t *testing.T, g *graph.Graph, path string) []string {
	t.Helper()
	idx, ok := g.Lookup(path)
	require.True(t, ok, "no node for %s", path)
	n, _ := g.Node(idx)
	var labels []string
	for _, e := range n.Edges {
		labels = append(labels, e.Label)
	}
	return labels
}

func TestAnalyzer_TwoFileScenario(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"File1.cs": "class Foo {}\n",
		"File2.cs": "Foo f = new Foo();\n",
	})

	res, err := New(Config{}, nil).Run(context.Background(), paths)
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	g := res.Repo.Graph()
	assert.Empty(t, edgeLabels(t, g, paths[0]))
	assert.Equal(t, []string{"File1.cs"}, edgeLabels(t, g, paths[1]))
	assert.Len(t, res.Components, 2)
	assert.Empty(t, res.Cyclic())
}

func TestAnalyzer_ForwardReferenceResolvesAfterTypePass(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.cs": "namespace N { class A { Later l; } }",
		"b.cs": "namespace N { class Later { } }",
	})
	res, err := New(Config{}, nil).Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.cs"}, edgeLabels(t, res.Repo.Graph(), paths[0]))
}

func TestAnalyzer_ThreeFileCycle(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.cs": "class A { B b; }",
		"b.cs": "class B { C c; }",
		"c.cs": "class C { A a; }",
		"d.cs": "class D { }",
	})
	res, err := New(Config{}, nil).Run(context.Background(), paths)
	require.NoError(t, err)

	cyclic := res.Cyclic()
	require.Len(t, cyclic, 1)
	assert.ElementsMatch(t, []string{"a.cs", "b.cs", "c.cs"}, res.Repo.Graph().Names(cyclic[0]))
	assert.Len(t, res.Components, 2)
}

func TestAnalyzer_RerunIsIdempotent(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.cs": "using Lib; namespace App { class A : Base { Util u; } }",
		"b.cs": "namespace Lib { class Base { } class Util { } }",
	})
	an := New(Config{}, nil)
	first, err := an.Run(context.Background(), paths)
	require.NoError(t, err)
	types, edges, nodes := first.Repo.Types().Count(), first.Repo.Graph().EdgeCount(), first.Repo.Graph().Len()

	second, err := an.RunWith(context.Background(), first.Repo, paths)
	require.NoError(t, err)
	assert.Equal(t, types, second.Repo.Types().Count())
	assert.Equal(t, edges, second.Repo.Graph().EdgeCount())
	assert.Equal(t, nodes, second.Repo.Graph().Len())
	assert.Equal(t, [][]string{{"Lib"}}, second.Repo.Usings(paths[0]))
	assert.Equal(t, 1, edges)
}

func TestAnalyzer_ParallelMatchesSequential(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files[name+".cs"] = "namespace P { class T" + name + " { } }"
	}
	files["use.cs"] = "namespace P { class U { Ta a; Tc c; Tf f; } }"
	_, paths := writeFiles(t, files)

	seq, err := New(Config{Workers: 1}, nil).Run(context.Background(), paths)
	require.NoError(t, err)
	par, err := New(Config{Workers: 4}, nil).Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, seq.Repo.Types().Names(), par.Repo.Types().Names())
	assert.Equal(t, seq.Repo.Graph().Nodes(), par.Repo.Graph().Nodes())
	assert.Equal(t, seq.Components, par.Components)
}

func TestAnalyzer_UnreadableFileIsSkipped(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"ok.cs": "class Ok { }",
	})
	missing := filepath.Join(dir, "gone.cs")
	files := []string{missing, paths[0]}

	res, err := New(Config{}, nil).Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, missing, res.Failures[0].Path)
	assert.Equal(t, PassTypes, res.Failures[0].Pass)
	assert.Equal(t, domainErrors.CodeSourceUnavailable, res.Failures[0].Code())

	_, ok := res.Repo.Graph().Lookup(missing)
	assert.False(t, ok)
	assert.True(t, res.Repo.Types().Contains("Ok"))
}

func TestAnalyzer_CancelledContextAborts(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.cs": "class A { }"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{}, nil).Run(ctx, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachedSource_ReusesUntilFileChanges(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.cs": "class A { }"})
	cached, err := NewCachedSource(LexerSource{}, 8)
	require.NoError(t, err)

	first, err := cached.Semis(context.Background(), paths[0])
	require.NoError(t, err)
	second, err := cached.Semis(context.Background(), paths[0])
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cached.Len())

	require.NoError(t, os.WriteFile(paths[0], []byte("class A { } class B { }"), 0o644))
	third, err := cached.Semis(context.Background(), paths[0])
	require.NoError(t, err)
	assert.Len(t, third, 4)

	_, err = cached.Semis(context.Background(), paths[0]+".missing")
	assert.True(t, domainErrors.IsCode(err, domainErrors.CodeSourceUnavailable))
}

func TestAnalyzer_DeclarationEndsStayInTheirOwnFile(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.cs": "namespace App;\nclass A { }\n",
		"b.cs": "\n\n\n\n\n\n\n\nnamespace App { class B { A a; } }\n",
	})
	res, err := New(Config{}, nil).Run(context.Background(), paths)
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	var namespaces []*symbols.TypeElement
	for _, loc := range res.Repo.Locations() {
		assert.GreaterOrEqual(t, loc.EndLine, loc.BeginLine, "%s %s in %s", loc.Kind, loc.Name, loc.FileName)
		if loc.Kind == symbols.KindNamespace {
			namespaces = append(namespaces, loc)
		}
	}
	require.Len(t, namespaces, 2)
	assert.Equal(t, "a.cs", namespaces[0].FileName)
	assert.Equal(t, 1, namespaces[0].BeginLine)
	assert.Equal(t, 2, namespaces[0].EndLine)
	assert.Equal(t, "b.cs", namespaces[1].FileName)
	assert.Equal(t, 9, namespaces[1].EndLine)
	assert.Equal(t, []string{"a.cs"}, edgeLabels(t, res.Repo.Graph(), paths[1]))
}

func TestAnalyzer_MalformedFileIsSkipped(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"a.cs": "class A { C c; }",
		"c.cs": "class C { }",
	})
	broken := filepath.Join(dir, "broken.cs")
	rejected := filepath.Join(dir, "rejected.cs")
	require.NoError(t, os.WriteFile(broken, []byte("class Broken { }"), 0o644))
	require.NoError(t, os.WriteFile(rejected, []byte("class Rejected { }"), 0o644))

	src := faultySource{
		panics: map[string]bool{broken: true},
		fails: map[string]error{
			rejected: domainErrors.New(domainErrors.CodeMalformed, "unterminated declaration"),
		},
	}
	files := []string{paths[0], broken, rejected, paths[1]}
	res, err := New(Config{Workers: 2}, src).Run(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, res.Failures, 2)
	for i, want := range []string{broken, rejected} {
		assert.Equal(t, want, res.Failures[i].Path)
		assert.Equal(t, PassTypes, res.Failures[i].Pass)
		assert.Equal(t, domainErrors.CodeMalformed, res.Failures[i].Code())
	}
	assert.Contains(t, res.Failures[0].Err.Error(), "tokenizer state corrupted")

	assert.Equal(t, []string{"c.cs"}, edgeLabels(t, res.Repo.Graph(), paths[0]))
	assert.Empty(t, edgeLabels(t, res.Repo.Graph(), broken))
	assert.Equal(t, 4, res.Repo.Graph().Len())
}

func TestAnalyzer_ProcessFileRecoversFromRulePanics(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.cs": "namespace N {\nclass Early { }\nclass Late { }\n}\n",
	})
	an := New(Config{}, nil)
	local := repository.New()

	bomb := &rules.DetectLeavingScope{}
	calls := 0
	bomb.Add(rules.ActionFunc(func(lexer.Semi) error {
		if calls++; calls == 2 {
			panic("index out of range")
		}
		return nil
	}))

	err := an.processFile(context.Background(), PassTypes, paths[0], local,
		rules.BuildTypeAnalyzer(local, rules.DefaultOptions()), rules.NewParser().Add(bomb))
	require.Error(t, err)
	assert.True(t, domainErrors.IsCode(err, domainErrors.CodeMalformed))

	assert.True(t, local.Types().Contains("Early"))
	assert.True(t, local.Types().Contains("Late"))
	assert.Equal(t, 0, local.Stack().Len())
	for _, loc := range local.Locations() {
		assert.GreaterOrEqual(t, loc.EndLine, loc.BeginLine, "%s %s", loc.Kind, loc.Name)
	}
}

func TestAnalyzer_RuleErrorAbortsOnlyThatFile(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.cs": "class A { }\nclass B { }\n"})
	an := New(Config{}, nil)
	local := repository.New()

	reject := &rules.DetectLeavingScope{}
	reject.Add(rules.ActionFunc(func(lexer.Semi) error {
		return domainErrors.New(domainErrors.CodeMalformed, "unexpected close")
	}))

	err := an.processFile(context.Background(), PassTypes, paths[0], local,
		rules.BuildTypeAnalyzer(local, rules.DefaultOptions()), rules.NewParser().Add(reject))
	require.Error(t, err)
	assert.Equal(t, domainErrors.CodeMalformed, domainErrors.CodeOf(err))
	assert.True(t, local.Types().Contains("A"))
	assert.False(t, local.Types().Contains("B"))
}
