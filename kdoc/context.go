package kdoc

// parserState is the parser's current top-level state.
type parserState int

const (
	stateNormal parserState = iota
	stateSeekName
	stateScanSections
	stateScanPrototype
	stateDocBlock
	stateSplitDoc
)

// splitState is the split-doc comment's own sub-state. There is no distinct
// "done" state: a closed parameter section immediately either opens the next
// one or closes the comment.
type splitState int

const (
	splitNone       splitState = iota // not inside a split-doc comment
	splitSeekHeader                   // expect a "@param:" header next
	splitAccumulate                   // accumulating the current parameter's body
	splitError                        // malformed, first line wasn't a header
)

// ParserContext is the parser's accumulator. Cross-declaration
// state (exported symbols, module metadata, snippets, the running line
// counter) persists for the lifetime of a file; per-declaration state is
// cleared by reset() every time a fresh `/**` is seen. The ordered dump
// storage itself lives on the NullTranslator the parser writes into, so a
// recorded parse can outlive its context and be replayed at will.
type ParserContext struct {
	Filename string

	// Line is the 1-based number of the most recently fed source line.
	Line int

	// ExportedSymbols is populated during the optional pre-scan
	// (ParseOptions.GatherContext) and is append-only within a parse.
	ExportedSymbols []string
	exportedSet     map[string]struct{}

	// ModuleMeta holds MODULE_AUTHOR/DESCRIPTION/LICENSE macro scrapes,
	// keyed by the macro's bare suffix ("AUTHOR", "DESCRIPTION", ...).
	ModuleMeta map[string]string

	// Snippets holds named code regions captured between a `SNIP name` and
	// `SNAP` parse-option directive. Recording is orthogonal to comment
	// parsing, so it is never touched by reset().
	Snippets map[string][]string

	// seenNames enforces "a name must be unique per parse".
	seenNames map[string]Pos

	// --- per-declaration state, cleared by reset() ---

	state      parserState
	splitState splitState

	declOffset Pos
	kind       DeclKind
	name       string
	purpose    string
	inPurpose  bool

	paramList  []string
	paramTypes map[string]string
	paramDescs *OrderedMap
	sections   *OrderedMap

	returnType string
	definition string

	curSection string
	curBuf     []string
	inParamSec bool

	protoLines []string
	braceDepth int

	// splitParamName/splitBuf accumulate the description of the parameter
	// currently being documented by a split-doc comment.
	splitParamName string
	splitBuf       []string

	// splitParent stashes the enclosing struct/union's in-progress
	// prototype accumulation while a split-doc comment is being read, so
	// it can resume exactly where it left off.
	splitParent *pendingStruct
}

// pendingStruct is the saved prototype-accumulation state for the
// struct/union declaration a split-doc comment interrupts.
type pendingStruct struct {
	protoLines []string
	braceDepth int
}

// NewParserContext returns a fresh context for filename.
func NewParserContext(filename string) *ParserContext {
	pc := &ParserContext{
		Filename:    filename,
		ModuleMeta:  make(map[string]string),
		Snippets:    make(map[string][]string),
		exportedSet: make(map[string]struct{}),
		seenNames:   make(map[string]Pos),
	}
	pc.reset()
	return pc
}

// reset clears per-declaration fields; it is called whenever state returns
// to NORMAL after a declaration is flushed, and whenever a new `/**` is
// seen.
func (pc *ParserContext) reset() {
	pc.state = stateNormal
	pc.splitState = splitNone
	pc.kind = DeclFunction
	pc.name = ""
	pc.purpose = ""
	pc.inPurpose = false
	pc.paramList = nil
	pc.paramTypes = make(map[string]string)
	pc.paramDescs = NewOrderedMap()
	pc.sections = NewOrderedMap()
	pc.curSection = ""
	pc.curBuf = nil
	pc.inParamSec = false
	pc.protoLines = nil
	pc.braceDepth = 0
	pc.returnType = ""
	pc.definition = ""
	pc.splitParamName = ""
	pc.splitBuf = nil
	pc.splitParent = nil
}

// addExported records name as an exported symbol, ignoring duplicates.
func (pc *ParserContext) addExported(name string) {
	if _, ok := pc.exportedSet[name]; ok {
		return
	}
	pc.exportedSet[name] = struct{}{}
	pc.ExportedSymbols = append(pc.ExportedSymbols, name)
}

// recordSnippet appends line to the named snippet. Feed calls it for every
// source line, regardless of parser state, while a SNIP directive is active.
func (pc *ParserContext) recordSnippet(name, line string) {
	pc.Snippets[name] = append(pc.Snippets[name], line)
}
