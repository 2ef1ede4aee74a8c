package kdoc

import "testing"

func TestNewParseOptionsDefaults(t *testing.T) {
	o := NewParseOptions()

	if o.Markup != MarkupReST {
		t.Fatalf("default markup = %v, want MarkupReST", o.Markup)
	}
	if o.TabWidth != 8 {
		t.Fatalf("default tab width = %d, want 8", o.TabWidth)
	}
	if o.ExpMethod != ExportMacro {
		t.Fatalf("default export method = %v, want ExportMacro", o.ExpMethod)
	}
	want := []string{"EXPORT_SYMBOL", "EXPORT_SYMBOL_GPL", "EXPORT_SYMBOL_NS", "EXPORT_SYMBOL_NS_GPL"}
	if len(o.ExpIDs) != len(want) {
		t.Fatalf("default export ids = %v", o.ExpIDs)
	}
	for i, id := range want {
		if o.ExpIDs[i] != id {
			t.Fatalf("export id %d = %q, want %q", i, o.ExpIDs[i], id)
		}
	}
	if o.Logger == nil {
		t.Fatal("default logger is nil")
	}
}

func TestWithTabWidthIgnoresNonPositive(t *testing.T) {
	o := NewParseOptions(WithTabWidth(4))
	if o.TabWidth != 4 {
		t.Fatalf("tab width = %d, want 4", o.TabWidth)
	}

	o = NewParseOptions(WithTabWidth(0))
	if o.TabWidth != 8 {
		t.Fatalf("tab width after WithTabWidth(0) = %d, want unchanged default 8", o.TabWidth)
	}

	o = NewParseOptions(WithTabWidth(-1))
	if o.TabWidth != 8 {
		t.Fatalf("tab width after WithTabWidth(-1) = %d, want unchanged default 8", o.TabWidth)
	}
}

func TestMarkupString(t *testing.T) {
	if got := MarkupReST.String(); got != "reST" {
		t.Fatalf("MarkupReST.String() = %q", got)
	}
	if got := MarkupKernelDoc.String(); got != "kernel-doc" {
		t.Fatalf("MarkupKernelDoc.String() = %q", got)
	}
}

func TestNameAllowedWithoutUseNames(t *testing.T) {
	o := NewParseOptions()
	if !o.nameAllowed("anything") {
		t.Fatal("empty UseNames should allow every name")
	}
}

func TestNameAllowedSkipTakesPriorityOverUse(t *testing.T) {
	o := NewParseOptions(WithUseNames("foo", "bar"), WithSkipNames("foo"))

	if o.nameAllowed("foo") {
		t.Fatal("foo is both used and skipped, skip should win")
	}
	if !o.nameAllowed("bar") {
		t.Fatal("bar should be allowed")
	}
	if o.nameAllowed("baz") {
		t.Fatal("baz is not in UseNames, should not be allowed")
	}
}

func TestNameAllowedSkipOnly(t *testing.T) {
	o := NewParseOptions(WithSkipNames("secret"))

	if o.nameAllowed("secret") {
		t.Fatal("secret should be skipped")
	}
	if !o.nameAllowed("public") {
		t.Fatal("public should be allowed when UseNames is empty")
	}
}

func TestWithExportIdentifiersOverridesDefaults(t *testing.T) {
	o := NewParseOptions(WithExportIdentifiers("MY_EXPORT"))
	if len(o.ExpIDs) != 1 || o.ExpIDs[0] != "MY_EXPORT" {
		t.Fatalf("export ids = %v", o.ExpIDs)
	}
}

func TestWithKnownAttrsAndExportMethod(t *testing.T) {
	o := NewParseOptions(WithKnownAttrs("__init", "__exit"), WithExportMethod(ExportAttribute))

	if len(o.KnownAttrs) != 2 || o.KnownAttrs[0] != "__init" || o.KnownAttrs[1] != "__exit" {
		t.Fatalf("known attrs = %v", o.KnownAttrs)
	}
	if o.ExpMethod != ExportAttribute {
		t.Fatalf("export method = %v, want ExportAttribute", o.ExpMethod)
	}
}
