package kdoc

import "testing"

func TestMatchFuncPrototypeSingleWordReturn(t *testing.T) {
	ret, name, args, ok := matchFuncPrototype("int foo(int x);")
	if !ok {
		t.Fatal("expected a match")
	}
	if ret != "int" || name != "foo" || args != "int x" {
		t.Fatalf("got (%q, %q, %q)", ret, name, args)
	}
}

func TestMatchFuncPrototypeVoidReturnDefaultsWhenEmpty(t *testing.T) {
	// protoShape(0) requires no leading specifier word at all; an
	// unqualified declarator like "foo(void)" should still resolve to a
	// "void" return type rather than an empty string.
	ret, name, args, ok := matchFuncPrototype("foo(void)")
	if !ok {
		t.Fatal("expected a match")
	}
	if ret != "void" || name != "foo" || args != "void" {
		t.Fatalf("got (%q, %q, %q)", ret, name, args)
	}
}

func TestMatchFuncPrototypeMultiWordReturnType(t *testing.T) {
	ret, name, args, ok := matchFuncPrototype("struct foo *bar(void)")
	if !ok {
		t.Fatal("expected a match")
	}
	if ret != "struct foo *" || name != "bar" || args != "void" {
		t.Fatalf("got (%q, %q, %q)", ret, name, args)
	}
}

func TestMatchFuncPrototypeLongestShapeWins(t *testing.T) {
	// "unsigned long long" is three specifier words; protoShape(3) is the
	// shape that matches, since the fewer-word shapes would have to take
	// "long" or "unsigned" as the name, and no "(" follows either.
	ret, name, args, ok := matchFuncPrototype("unsigned long long foo(void)")
	if !ok {
		t.Fatal("expected a match")
	}
	if ret != "unsigned long long" || name != "foo" || args != "void" {
		t.Fatalf("got (%q, %q, %q)", ret, name, args)
	}
}

func TestMatchFuncPrototypeNoMatch(t *testing.T) {
	if _, _, _, ok := matchFuncPrototype("this is not a prototype"); ok {
		t.Fatal("expected no match")
	}
}

func TestMatchFuncPrototypeTrailingSemicolonOptional(t *testing.T) {
	withSemi, _, _, ok1 := firstField(matchFuncPrototype("int foo(void);"))
	withoutSemi, _, _, ok2 := firstField(matchFuncPrototype("int foo(void)"))
	if !ok1 || !ok2 {
		t.Fatal("expected both forms to match")
	}
	if withSemi != withoutSemi {
		t.Fatalf("return type differs with/without trailing semicolon: %q vs %q", withSemi, withoutSemi)
	}
}

// firstField is a small passthrough so the two matchFuncPrototype calls in
// TestMatchFuncPrototypeTrailingSemicolonOptional read as a single
// expression each.
func firstField(ret, name, args string, ok bool) (string, string, string, bool) {
	return ret, name, args, ok
}
