package kdoc

import (
	"reflect"
	"testing"
)

func TestCreateParameterListBasic(t *testing.T) {
	res := createParameterList("int a, char *b")
	if !reflect.DeepEqual(res.Names, []string{"a", "b"}) {
		t.Fatalf("names = %v", res.Names)
	}
	if res.Types["a"] != "int" || res.Types["b"] != "char *" {
		t.Fatalf("types = %v", res.Types)
	}
}

func TestCreateParameterListVoid(t *testing.T) {
	res := createParameterList("void")
	if !reflect.DeepEqual(res.Names, []string{"void"}) {
		t.Fatalf("names = %v", res.Names)
	}
	if res.AutoDescs["void"] != "no arguments" {
		t.Fatalf("auto desc = %v", res.AutoDescs)
	}
}

func TestCreateParameterListVarargs(t *testing.T) {
	res := createParameterList("int fmt, ...")
	if len(res.Names) != 2 || res.Names[1] != "..." {
		t.Fatalf("names = %v", res.Names)
	}
	if res.AutoDescs["..."] != "variable arguments" {
		t.Fatalf("auto desc = %v", res.AutoDescs)
	}
}

func TestCreateParameterListFuncPointer(t *testing.T) {
	res := createParameterList("void (*cb)(int x)")
	if len(res.Names) != 1 || res.Names[0] != "cb" {
		t.Fatalf("names = %v", res.Names)
	}
	if res.Types["cb"] != "void (*)(int x)" {
		t.Fatalf("types = %v", res.Types)
	}
}

func TestCreateMemberListStripsPrivateSection(t *testing.T) {
	res := createMemberList(cleanStructBody("int a; /* private: */ int secret;"))
	for _, n := range res.Names {
		if n == "secret" {
			t.Fatalf("private member leaked into member list: %v", res.Names)
		}
	}
	if len(res.Names) != 1 || res.Names[0] != "a" {
		t.Fatalf("names = %v", res.Names)
	}
}

func TestCreateMemberListBitfield(t *testing.T) {
	res := createMemberList("unsigned int flag:1; unsigned int :3; unsigned int other:2;")
	if !reflect.DeepEqual(res.Names, []string{"flag", "other"}) {
		t.Fatalf("names = %v", res.Names)
	}
	if res.Types["flag"] != "unsigned int:1" {
		t.Fatalf("types = %v", res.Types)
	}
}

func TestFlattenNestedStructsEmitsDottedSubMembers(t *testing.T) {
	res := createMemberList("int a; struct { int x; int y; } point;")
	found := map[string]bool{}
	for _, n := range res.Names {
		found[n] = true
	}
	for _, want := range []string{"a", "point", "point.x", "point.y"} {
		if !found[want] {
			t.Fatalf("missing member %q in %v", want, res.Names)
		}
	}
}

func TestSplitTopLevelIgnoresNestedDelims(t *testing.T) {
	parts := splitTopLevelCommas("int a, void (*cb)(int x, int y), char c")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %v", len(parts), parts)
	}
}
