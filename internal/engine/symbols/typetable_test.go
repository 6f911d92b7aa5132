package symbols

import "testing"

func TestTypeTable_AddDeduplicates(t *testing.T) {
	tt := NewTypeTable()
	a := NewTypeElement(KindClass, "Widget", "/src/a.cs", []string{"App"})
	if !tt.Add("Widget", a) {
		t.Fatal("expected first add to succeed")
	}
	dup := NewTypeElement(KindClass, "Widget", "/src/a.cs", []string{"App"})
	if tt.Add("Widget", dup) {
		t.Error("expected duplicate declaration to be ignored")
	}
	other := NewTypeElement(KindClass, "Widget", "/src/b.cs", []string{"App"})
	if !tt.Add("Widget", other) {
		t.Error("expected same name from another file to be added")
	}
	if got := len(tt.Lookup("Widget")); got != 2 {
		t.Errorf("expected 2 declarations, got %d", got)
	}
	if tt.Len() != 1 || tt.Count() != 2 {
		t.Errorf("expected 1 name and 2 declarations, got %d and %d", tt.Len(), tt.Count())
	}
}

func TestTypeTable_FindTypeCandidateOrder(t *testing.T) {
	tt := NewTypeTable()
	inner := NewTypeElement(KindClass, "Foo", "/src/inner.cs", []string{"A", "B"})
	outer := NewTypeElement(KindClass, "Foo", "/src/outer.cs", []string{"C"})
	tt.Add("Foo", inner)
	tt.Add("Foo", outer)

	got := tt.FindType("Foo", [][]string{{"C"}, {"A", "B"}})
	if got != outer {
		t.Errorf("expected the first matching candidate to win, got %+v", got)
	}

	got = tt.FindType("Foo", [][]string{{"X"}, {"A", "B"}})
	if got != inner {
		t.Errorf("expected A.B match, got %+v", got)
	}

	if tt.FindType("Foo", [][]string{{"A"}}) != nil {
		t.Error("expected prefix-only candidate not to match")
	}
	if tt.FindType("Bar", [][]string{{}}) != nil {
		t.Error("expected unknown name to miss")
	}
}

func TestTypeTable_GlobalScopeAndMerge(t *testing.T) {
	tt := NewTypeTable()
	tt.Add("G", NewTypeElement(KindStruct, "G", "/g.cs", nil))
	if tt.FindType("G", [][]string{{"N"}, {}}) == nil {
		t.Error("expected empty candidate to match global declaration")
	}

	other := NewTypeTable()
	other.Add("H", NewTypeElement(KindEnum, "H", "/h.cs", nil))
	other.Add("G", NewTypeElement(KindStruct, "G", "/g.cs", nil))
	tt.Merge(other)

	names := tt.Names()
	if len(names) != 2 || names[0] != "G" || names[1] != "H" {
		t.Errorf("unexpected names %v", names)
	}
	if tt.Count() != 2 {
		t.Errorf("expected merge to skip duplicate, got %d", tt.Count())
	}
}

func TestTypeElement_Names(t *testing.T) {
	e := NewTypeElement(KindInterface, "IShape", "/x/shapes.cs", []string{"Geo", "Core"})
	if e.FileName != "shapes.cs" {
		t.Errorf("unexpected file name %q", e.FileName)
	}
	if e.QualifiedName() != "Geo.Core.IShape" {
		t.Errorf("unexpected qualified name %q", e.QualifiedName())
	}
}

func TestTypeTable_CandidateOrderNotDeclarationOrder(t *testing.T) {
	tt := NewTypeTable()
	c1 := NewTypeElement(KindClass, "C1", "/c1.cs", []string{"N1", "N2"})
	tt.Add("C1", c1)

	if got := tt.FindType("C1", [][]string{{"N2"}, {"N1", "N2"}}); got != c1 {
		t.Errorf("expected second candidate to match, got %+v", got)
	}
}
