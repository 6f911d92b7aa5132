// Package symbols holds the type declarations collected during the type pass.
package symbols

import (
	"path/filepath"
	"slices"
	"strings"
)

// Declaration kinds recorded in the table and in scope frames.
const (
	KindNamespace = "namespace"
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
	KindEnum      = "enum"
	KindDelegate  = "delegate"
	KindFunction  = "function"
	KindControl   = "control"
)

// IsTypeKind reports whether kind declares a type that other files can
// depend on.
func IsTypeKind(kind string) bool {
	switch kind {
	case KindClass, KindStruct, KindInterface, KindEnum, KindDelegate:
		return true
	}
	return false
}

// TypeElement is one declaration. ScopePath lists the enclosing namespace
// and type names, outermost first.
type TypeElement struct {
	Kind            string
	Name            string
	FilePath        string
	FileName        string
	ScopePath       []string
	BeginLine       int
	EndLine         int
	BeginScopeCount int
	EndScopeCount   int
}

func NewTypeElement(kind, name, path string, scope []string) *TypeElement {
	return &TypeElement{
		Kind:      kind,
		Name:      name,
		FilePath:  path,
		FileName:  filepath.Base(path),
		ScopePath: append([]string(nil), scope...),
	}
}

// Namespace renders ScopePath with dots.
func (e *TypeElement) Namespace() string {
	return strings.Join(e.ScopePath, ".")
}

// QualifiedName is the dotted scope path followed by the name.
func (e *TypeElement) QualifiedName() string {
	if len(e.ScopePath) == 0 {
		return e.Name
	}
	return e.Namespace() + "." + e.Name
}

func (e *TypeElement) sameDeclaration(other *TypeElement) bool {
	return e.FilePath == other.FilePath && slices.Equal(e.ScopePath, other.ScopePath)
}

// TypeTable maps a simple type name to every declaration of that name.
// It is not safe for concurrent use; parallel passes merge into it from a
// single goroutine.
type TypeTable struct {
	entries map[string][]*TypeElement
	order   []string
}

func NewTypeTable() *TypeTable {
	return &TypeTable{entries: make(map[string][]*TypeElement)}
}

// Add records elem under name unless a declaration with the same file and
// scope path is already present. It reports whether elem was added.
func (t *TypeTable) Add(name string, elem *TypeElement) bool {
	list, ok := t.entries[name]
	for _, existing := range list {
		if existing.sameDeclaration(elem) {
			return false
		}
	}
	if !ok {
		t.order = append(t.order, name)
	}
	t.entries[name] = append(list, elem)
	return true
}

// FindType returns the first declaration of name whose scope path equals a
// candidate. Candidates are tried in order and, within a candidate, entries
// in insertion order.
func (t *TypeTable) FindType(name string, candidates [][]string) *TypeElement {
	list := t.entries[name]
	if len(list) == 0 {
		return nil
	}
	for _, cand := range candidates {
		for _, elem := range list {
			if slices.Equal(elem.ScopePath, cand) {
				return elem
			}
		}
	}
	return nil
}

// Lookup returns every declaration of name.
func (t *TypeTable) Lookup(name string) []*TypeElement {
	return t.entries[name]
}

func (t *TypeTable) Contains(name string) bool {
	return len(t.entries[name]) > 0
}

// Names lists the recorded names in first-seen order.
func (t *TypeTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Len counts names, not declarations.
func (t *TypeTable) Len() int {
	return len(t.order)
}

// Count counts declarations across all names.
func (t *TypeTable) Count() int {
	n := 0
	for _, list := range t.entries {
		n += len(list)
	}
	return n
}

// Merge adds every declaration of other, preserving other's order.
func (t *TypeTable) Merge(other *TypeTable) {
	for _, name := range other.order {
		for _, elem := range other.entries[name] {
			t.Add(name, elem)
		}
	}
}
