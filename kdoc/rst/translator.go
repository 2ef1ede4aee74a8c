package rst

import (
	"fmt"
	"io"

	"github.com/return42/linuxdoc/kdoc"
)

// Config tunes what ReSTTranslator emits around the declaration bodies
// themselves.
type Config struct {
	// SkipPreamble suppresses the leading "generated from <file>" comment.
	SkipPreamble bool
	// SkipEpilog suppresses the trailing undocumented-exports notice.
	SkipEpilog bool
	// ManSect, when non-zero, adds a ":man-sect: N" field to every rendered
	// function.
	ManSect int
}

// Translator renders a replayed parse as reStructuredText.
type Translator struct {
	w    io.Writer
	opts *kdoc.ParseOptions
	cfg  Config

	exported []string

	// documented accumulates every rendered declaration/DOC name, so
	// OutputEpilog can compute exported-but-undocumented symbols without a
	// second pass over the dump.
	documented []string
}

// New returns a Translator writing to w under opts and cfg. exported, when
// non-nil, is the symbol list from a GatherContext pre-scan, used to emit
// the undocumented-exports epilog notice.
func New(w io.Writer, opts *kdoc.ParseOptions, cfg Config, exported []string) *Translator {
	return &Translator{w: w, opts: opts, cfg: cfg, exported: exported}
}

func (t *Translator) OutputPreamble() {
	if t.cfg.SkipPreamble {
		return
	}
	filename := t.opts.Filename
	if filename == "" {
		filename = "<stdin>"
	}
	fmt.Fprintf(t.w, ".. -*- coding: utf-8; mode: rst -*-\n.. generated from %s by linuxdoc\n\n", filename)
}

func (t *Translator) OutputPrefix() {}
func (t *Translator) OutputSuffix() {}

func (t *Translator) OutputEpilog() {
	if t.cfg.SkipEpilog || len(t.exported) == 0 {
		return
	}
	undoc := diffSorted(t.exported, t.documented)
	if len(undoc) == 0 {
		return
	}
	fmt.Fprintln(t.w, ".. note::")
	fmt.Fprintln(t.w, "   The following exported symbols have no kernel-doc comment:")
	fmt.Fprintln(t.w)
	for _, name := range undoc {
		fmt.Fprintf(t.w, "   - %s\n", name)
	}
	fmt.Fprintln(t.w)
}

func (t *Translator) OutputDOC(title string, sections *kdoc.OrderedMap) {
	renderDOC(t.w, t.opts, title, sections)
	t.markDocumented(title)
}

func (t *Translator) OutputFunctionDecl(ev kdoc.DeclEvent) {
	renderFunction(t.w, t.opts, ev)
	if t.cfg.ManSect > 0 {
		fmt.Fprintf(t.w, ":man-sect: %d\n\n", t.cfg.ManSect)
	}
	t.markDocumented(ev.Name)
}

func (t *Translator) OutputStructDecl(ev kdoc.DeclEvent) {
	renderStructOrUnion(t.w, t.opts, ev)
	t.markDocumented(ev.Name)
}

func (t *Translator) OutputEnumDecl(ev kdoc.DeclEvent) {
	renderEnum(t.w, t.opts, ev)
	t.markDocumented(ev.Name)
}

func (t *Translator) OutputTypedefDecl(ev kdoc.DeclEvent) {
	renderTypedef(t.w, t.opts, ev)
	t.markDocumented(ev.Name)
}

func (t *Translator) markDocumented(name string) {
	t.documented = append(t.documented, name)
}

func diffSorted(all, seen []string) []string {
	seenSet := make(map[string]struct{}, len(seen))
	for _, s := range seen {
		seenSet[s] = struct{}{}
	}
	var out []string
	for _, name := range all {
		if _, ok := seenSet[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
