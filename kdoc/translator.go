package kdoc

import (
	"sort"

	"github.com/xlab/treeprint"
)

// Translator is the contract the parser drives once per completed
// declaration or DOC block. A parse runs in two phases: once into a
// NullTranslator to build the ordered dump storage, then replayed into
// whichever Translator the caller actually wants, so every translator
// observes declarations in identical source order regardless of how
// expensive its own rendering is.
type Translator interface {
	OutputPreamble()
	OutputEpilog()
	OutputPrefix()
	OutputSuffix()

	OutputDOC(title string, sections *OrderedMap)
	OutputFunctionDecl(ev DeclEvent)
	OutputStructDecl(ev DeclEvent)
	OutputEnumDecl(ev DeclEvent)
	OutputTypedefDecl(ev DeclEvent)
}

// NullTranslator records every event into Events and otherwise does
// nothing; it is the parser's first pass.
type NullTranslator struct {
	Events []DeclEvent
}

// NewNullTranslator returns an empty NullTranslator.
func NewNullTranslator() *NullTranslator { return &NullTranslator{} }

func (t *NullTranslator) OutputPreamble() {}
func (t *NullTranslator) OutputEpilog()   {}
func (t *NullTranslator) OutputPrefix()   {}
func (t *NullTranslator) OutputSuffix()   {}

func (t *NullTranslator) OutputDOC(title string, sections *OrderedMap) {
	t.Events = append(t.Events, DeclEvent{Kind: DeclDoc, Name: title, Sections: sections})
}

func (t *NullTranslator) OutputFunctionDecl(ev DeclEvent) { t.Events = append(t.Events, ev) }
func (t *NullTranslator) OutputStructDecl(ev DeclEvent)   { t.Events = append(t.Events, ev) }
func (t *NullTranslator) OutputEnumDecl(ev DeclEvent)     { t.Events = append(t.Events, ev) }
func (t *NullTranslator) OutputTypedefDecl(ev DeclEvent)  { t.Events = append(t.Events, ev) }

// Replay drives dst with every recorded event, in recording order,
// implementing the two-phase parse/replay pattern.
func (t *NullTranslator) Replay(dst Translator) {
	dst.OutputPreamble()
	dst.OutputPrefix()
	for _, ev := range t.Events {
		switch ev.Kind {
		case DeclDoc:
			dst.OutputDOC(ev.Name, ev.Sections)
		case DeclFunction:
			dst.OutputFunctionDecl(ev)
		case DeclStruct, DeclUnion:
			dst.OutputStructDecl(ev)
		case DeclEnum:
			dst.OutputEnumDecl(ev)
		case DeclTypedef:
			dst.OutputTypedefDecl(ev)
		}
	}
	dst.OutputSuffix()
	dst.OutputEpilog()
}

// ListTranslator indexes declaration names by kind and flags symbols that
// were exported (per the gather-context pre-scan) but left undocumented
//.
type ListTranslator struct {
	exported []string

	byKind      map[DeclKind][]string
	documented  map[string]struct{}
	undocExport []string
}

// NewListTranslator returns a ListTranslator that cross-checks documented
// names against exported (the ExportedSymbols gathered by a GatherContext
// pre-scan; nil when that option is off).
func NewListTranslator(exported []string) *ListTranslator {
	return &ListTranslator{
		exported:   exported,
		byKind:     make(map[DeclKind][]string),
		documented: make(map[string]struct{}),
	}
}

func (t *ListTranslator) OutputPreamble() {}
func (t *ListTranslator) OutputPrefix()   {}
func (t *ListTranslator) OutputSuffix()   {}

func (t *ListTranslator) OutputDOC(title string, sections *OrderedMap) {
	t.record(DeclDoc, title)
}

func (t *ListTranslator) OutputFunctionDecl(ev DeclEvent) { t.record(ev.Kind, ev.Name) }
func (t *ListTranslator) OutputStructDecl(ev DeclEvent)   { t.record(ev.Kind, ev.Name) }
func (t *ListTranslator) OutputEnumDecl(ev DeclEvent)     { t.record(ev.Kind, ev.Name) }
func (t *ListTranslator) OutputTypedefDecl(ev DeclEvent)  { t.record(ev.Kind, ev.Name) }

func (t *ListTranslator) record(kind DeclKind, name string) {
	t.byKind[kind] = append(t.byKind[kind], name)
	t.documented[name] = struct{}{}
}

// OutputEpilog computes the exported-but-undocumented list; it must run
// after every declaration has been recorded, which the two-phase replay
// guarantees.
func (t *ListTranslator) OutputEpilog() {
	for _, name := range t.exported {
		if _, ok := t.documented[name]; !ok {
			t.undocExport = append(t.undocExport, name)
		}
	}
	sort.Strings(t.undocExport)
}

// Names returns the recorded declaration names for kind, in first-seen
// order.
func (t *ListTranslator) Names(kind DeclKind) []string { return t.byKind[kind] }

// UndocumentedExports returns exported symbols with no matching
// documentation comment, sorted.
func (t *ListTranslator) UndocumentedExports() []string { return t.undocExport }

// Index renders a human-readable "exported vs internal" symbol index as a
// tree, one branch per declaration kind plus an "undocumented exports"
// branch when the gather-context pre-scan found any.
func (t *ListTranslator) Index() string {
	tree := treeprint.New()
	tree.SetValue("symbols")
	for _, kind := range []DeclKind{DeclFunction, DeclStruct, DeclUnion, DeclEnum, DeclTypedef, DeclDoc} {
		names := t.byKind[kind]
		if len(names) == 0 {
			continue
		}
		branch := tree.AddBranch(kind.String())
		for _, n := range names {
			branch.AddNode(n)
		}
	}
	if len(t.undocExport) > 0 {
		branch := tree.AddBranch("undocumented exports")
		for _, n := range t.undocExport {
			branch.AddNode(n)
		}
	}
	return tree.String()
}
