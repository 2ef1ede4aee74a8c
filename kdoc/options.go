package kdoc

import "github.com/return42/linuxdoc/diagnostic"

// Markup selects the inline highlight table used by the reST translator.
// Section-header recognition is the same in both modes; neither mode
// restricts section titles to a whitelist.
type Markup int

const (
	// MarkupReST treats body text as reST: only the type-reference
	// substitution pass runs, and a bare "Title" line inside a parameter
	// section is set off with blank lines.
	MarkupReST Markup = iota
	// MarkupKernelDoc is the legacy markup: the mask pass escapes
	// reST-significant characters before the type-reference pass runs.
	MarkupKernelDoc
)

func (m Markup) String() string {
	if m == MarkupKernelDoc {
		return "kernel-doc"
	}
	return "reST"
}

// ExportMethod selects how exported symbols are recognized during the
// optional pre-scan.
type ExportMethod int

const (
	// ExportMacro recognizes EXPORT_SYMBOL[_variant](name) invocations.
	ExportMacro ExportMethod = iota
	// ExportAttribute recognizes an attribute-form export, e.g.
	// `EXPORT_ATTR int name(...)`.
	ExportAttribute
)

// ParseOptions is the configuration bag carried through a parse, built with
// functional options.
type ParseOptions struct {
	Markup   Markup
	Filename string
	SrcTree  string
	IDPrefix string

	UseNames  []string
	SkipNames []string

	UseAllDocs    bool
	ErrorMissing  bool
	VerboseWarn   bool
	GatherContext bool

	ExpMethod ExportMethod
	ExpIDs    []string

	KnownAttrs []string

	TabWidth int

	// SnipName and Snapping hold the state of an inline `SNIP`/`SNAP`
	// parse-option directive.
	SnipName string
	Snapping bool

	// HighlightOff mirrors the inline `parse-highlight: on|off` directive;
	// the reST translator skips both highlight passes while it is set.
	HighlightOff bool

	Logger *diagnostic.Logger
}

// ParseOption mutates a ParseOptions; see the With* constructors below.
type ParseOption func(*ParseOptions)

// NewParseOptions builds the default option bag and applies opts in order.
func NewParseOptions(opts ...ParseOption) *ParseOptions {
	o := &ParseOptions{
		Markup:     MarkupReST,
		TabWidth:   8,
		ExpMethod:  ExportMacro,
		ExpIDs:     []string{"EXPORT_SYMBOL", "EXPORT_SYMBOL_GPL", "EXPORT_SYMBOL_NS", "EXPORT_SYMBOL_NS_GPL"},
		KnownAttrs: nil,
		Logger:     diagnostic.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFilename sets the filename attributed to parse errors and anchors.
func WithFilename(filename string) ParseOption {
	return func(o *ParseOptions) { o.Filename = filename }
}

// WithSrcTree roots relative filenames at srctree.
func WithSrcTree(srctree string) ParseOption {
	return func(o *ParseOptions) { o.SrcTree = srctree }
}

// WithMarkup selects reST or legacy kernel-doc markup.
func WithMarkup(m Markup) ParseOption {
	return func(o *ParseOptions) { o.Markup = m }
}

// WithIDPrefix prepends prefix to generated anchor IDs.
func WithIDPrefix(prefix string) ParseOption {
	return func(o *ParseOptions) { o.IDPrefix = prefix }
}

// WithUseNames restricts emission to the given declaration/DOC names.
func WithUseNames(names ...string) ParseOption {
	return func(o *ParseOptions) { o.UseNames = names }
}

// WithSkipNames deny-lists declaration/DOC names.
func WithSkipNames(names ...string) ParseOption {
	return func(o *ParseOptions) { o.SkipNames = names }
}

// WithUseAllDocs emits every DOC: block regardless of UseNames.
func WithUseAllDocs(v bool) ParseOption {
	return func(o *ParseOptions) { o.UseAllDocs = v }
}

// WithErrorMissing promotes "name in UseNames not found" from a warning to
// an error.
func WithErrorMissing(v bool) ParseOption {
	return func(o *ParseOptions) { o.ErrorMissing = v }
}

// WithVerboseWarn enables non-severe (informational) warnings.
func WithVerboseWarn(v bool) ParseOption {
	return func(o *ParseOptions) { o.VerboseWarn = v }
}

// WithGatherContext prescans the whole file for exported symbols and module
// metadata before parsing.
func WithGatherContext(v bool) ParseOption {
	return func(o *ParseOptions) { o.GatherContext = v }
}

// WithExportMethod selects macro- or attribute-based export detection.
func WithExportMethod(m ExportMethod) ParseOption {
	return func(o *ParseOptions) { o.ExpMethod = m }
}

// WithExportIdentifiers overrides the identifiers considered exports.
func WithExportIdentifiers(ids ...string) ParseOption {
	return func(o *ParseOptions) { o.ExpIDs = ids }
}

// WithKnownAttrs adds attribute names stripped from prototypes.
func WithKnownAttrs(attrs ...string) ParseOption {
	return func(o *ParseOptions) { o.KnownAttrs = attrs }
}

// WithTabWidth sets the tab-stop width used before lexing (default 8).
func WithTabWidth(n int) ParseOption {
	return func(o *ParseOptions) {
		if n > 0 {
			o.TabWidth = n
		}
	}
}

// WithLogger overrides the diagnostic logger (default: silent, stderr-less).
func WithLogger(l *diagnostic.Logger) ParseOption {
	return func(o *ParseOptions) { o.Logger = l }
}

// nameAllowed applies UseNames/SkipNames to a candidate declaration or DOC
// name.
func (o *ParseOptions) nameAllowed(name string) bool {
	for _, skip := range o.SkipNames {
		if skip == name {
			return false
		}
	}
	if len(o.UseNames) == 0 {
		return true
	}
	for _, use := range o.UseNames {
		if use == name {
			return true
		}
	}
	return false
}
