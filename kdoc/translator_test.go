package kdoc

import "testing"

func TestNullTranslatorReplayIsOrderPreserving(t *testing.T) {
	null := NewNullTranslator()
	null.OutputFunctionDecl(DeclEvent{Kind: DeclFunction, Name: "a"})
	null.OutputStructDecl(DeclEvent{Kind: DeclStruct, Name: "b"})
	null.OutputDOC("c", NewOrderedMap())

	got := NewNullTranslator()
	null.Replay(got)

	if len(got.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got.Events))
	}
	order := []string{got.Events[0].Name, got.Events[1].Name, got.Events[2].Name}
	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestListTranslatorUndocumentedExports(t *testing.T) {
	lt := NewListTranslator([]string{"foo", "bar", "baz"})
	lt.OutputFunctionDecl(DeclEvent{Kind: DeclFunction, Name: "foo"})
	lt.OutputEpilog()

	undoc := lt.UndocumentedExports()
	if len(undoc) != 2 || undoc[0] != "bar" || undoc[1] != "baz" {
		t.Fatalf("undocumented exports = %v", undoc)
	}
}

func TestListTranslatorNamesByKind(t *testing.T) {
	lt := NewListTranslator(nil)
	lt.OutputFunctionDecl(DeclEvent{Kind: DeclFunction, Name: "foo"})
	lt.OutputStructDecl(DeclEvent{Kind: DeclStruct, Name: "bar"})

	if names := lt.Names(DeclFunction); len(names) != 1 || names[0] != "foo" {
		t.Fatalf("function names = %v", names)
	}
	if names := lt.Names(DeclStruct); len(names) != 1 || names[0] != "bar" {
		t.Fatalf("struct names = %v", names)
	}
}
