package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContainsAny(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		s        string
		subs     []string
		expected bool
	}{
		{name: "Match", s: "Properties/AssemblyInfo.cs", subs: []string{"AssemblyInfo"}, expected: true},
		{name: "NoMatch", s: "Program.cs", subs: []string{".g.cs", "AssemblyInfo"}, expected: false},
		{name: "EmptySub", s: "Program.cs", subs: []string{""}, expected: false},
		{name: "NoSubs", s: "Program.cs", expected: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ContainsAny(tc.s, tc.subs); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "foo/bar", prefix: "foo/bar", expected: true},
		{name: "Nested", path: "foo/bar/baz.cs", prefix: "foo/bar", expected: true},
		{name: "Neighbor", path: "foo/barista", prefix: "foo/bar", expected: false},
		{name: "Shorter", path: "foo", prefix: "foo/bar", expected: false},
		{name: "Dot", path: "foo/bar", prefix: ".", expected: true},
		{name: "Relative", path: "./foo/bar/baz", prefix: "foo/bar/", expected: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	keys := SortedStringKeys(map[string]int{"b": 2, "a": 1, "c": 3})
	expected := []string{"a", "b", "c"}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	got := Dedupe([]string{"b.cs", "a.cs", "b.cs", "c.cs", "a.cs"})
	expected := []string{"b.cs", "a.cs", "c.cs"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "graph.dot")
	if err := WriteFileWithDirs(path, []byte("digraph {}"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "digraph {}" {
		t.Fatalf("unexpected content %q", string(got))
	}
}
