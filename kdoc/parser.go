package kdoc

import (
	"context"
	"strconv"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/return42/linuxdoc/diagnostic"
)

// Parser drives the six-state comment scanner over a single file's worth of
// lines, feeding completed declarations to a Translator. A Parser owns one
// mutable ParserContext and is not safe to share across goroutines.
type Parser struct {
	ctx  context.Context
	opts *ParseOptions
	pc   *ParserContext
	out  Translator

	matchedUseNames map[string]bool
}

// NewParser returns a Parser for filename, emitting completed declarations
// to out (typically a *NullTranslator for the record pass; see Replay).
func NewParser(ctx context.Context, opts *ParseOptions, out Translator) *Parser {
	if opts == nil {
		opts = NewParseOptions()
	}
	return &Parser{
		ctx:             ctx,
		opts:            opts,
		pc:              NewParserContext(opts.Filename),
		out:             out,
		matchedUseNames: make(map[string]bool),
	}
}

// Context returns the parser's accumulator, for callers that want the
// gathered exported-symbol list or module metadata after a parse.
func (p *Parser) Context() *ParserContext { return p.pc }

// ParseLines feeds every line of src through the parser, pre-scanning first
// when GatherContext is set, and closes out at EOF. The translator is
// bracketed by the same preamble/prefix and suffix/epilog calls Replay
// makes, so driving a renderer directly produces the same bytes as
// recording first and replaying.
func ParseLines(ctx context.Context, opts *ParseOptions, out Translator, lines []string) *Parser {
	p := NewParser(ctx, opts, out)
	if opts.GatherContext {
		gatherContext(p.pc, opts, lines)
	}
	out.OutputPreamble()
	out.OutputPrefix()
	for _, line := range lines {
		p.Feed(line)
	}
	p.Finish()
	out.OutputSuffix()
	out.OutputEpilog()
	return p
}

// ParseString splits src on newlines and parses it with ParseLines,
// returning the ordered dump storage recorded by a NullTranslator.
func ParseString(ctx context.Context, opts *ParseOptions, src string) (*NullTranslator, *Parser) {
	null := NewNullTranslator()
	lines := strings.Split(src, "\n")
	p := ParseLines(ctx, opts, null, lines)
	return null, p
}

// Feed processes one raw source line: tab expansion, inline directive
// recognition, snippet recording, then dispatch to the current state's
// handler.
func (p *Parser) Feed(rawLine string) {
	p.pc.Line++
	line := expandTabs(rawLine, p.opts.TabWidth)
	pos := p.pos()

	if applyDirective(p.ctx, p.opts, pos, line) {
		return
	}
	if p.opts.Snapping {
		p.pc.recordSnippet(p.opts.SnipName, line)
	}

	if reDocStart.MatchString(line) {
		p.handleDocStart(pos)
		return
	}

	switch p.pc.state {
	case stateNormal:
		// scanning code outside any comment; nothing to do.
	case stateSeekName:
		p.handleSeekName(pos, line)
	case stateScanSections:
		p.handleScanSections(pos, line)
	case stateScanPrototype:
		p.handleScanPrototype(line)
	case stateDocBlock:
		p.handleDocBlock(pos, line)
	case stateSplitDoc:
		p.handleSplitDoc(pos, line)
	}
}

func (p *Parser) pos() Pos {
	return Pos{Filename: p.opts.Filename, Line: p.pc.Line}
}

// handleDocStart implements doc_start.
func (p *Parser) handleDocStart(pos Pos) {
	switch {
	case p.pc.state == stateScanPrototype && (p.pc.kind == DeclStruct || p.pc.kind == DeclUnion) && p.pc.braceDepth > 0:
		p.enterSplitDoc()
	case p.pc.state == stateNormal:
		p.pc.reset()
		p.pc.declOffset = pos
		p.pc.state = stateSeekName
	default:
		// A fresh comment opened before the previous declaration was
		// complete; the unfinished one is unrecoverable, the new one isn't.
		p.opts.Logger.Warnf(p.ctx, pos, "new comment before %q was complete, discarding it", p.pc.name)
		p.pc.reset()
		p.pc.declOffset = pos
		p.pc.state = stateSeekName
	}
}

// handleSeekName reads the first comment-body line: a DOC: title or a
// declaration header with an optional trailing "- purpose".
func (p *Parser) handleSeekName(pos Pos, line string) {
	content := stripDocCom(line)

	if title, ok := matchDocBlock(content); ok {
		p.pc.kind = DeclDoc
		p.pc.name = title
		p.pc.curBuf = nil
		p.pc.state = stateDocBlock
		return
	}

	kind, name, purpose, hasPurpose, ok := parseDeclHeader(content)
	if !ok {
		p.opts.Logger.Warnf(p.ctx, pos, "cannot understand %q, ignoring comment", strings.TrimSpace(content))
		p.pc.state = stateNormal
		return
	}

	p.pc.kind = kind
	p.pc.name = name
	p.pc.inPurpose = true
	p.pc.curBuf = nil
	if hasPurpose {
		p.pc.curBuf = append(p.pc.curBuf, purpose)
	} else {
		p.opts.Logger.Warnf(p.ctx, pos, "no purpose given for %s %q", kind, name)
	}
	p.pc.state = stateScanSections
}

// handleScanSections consumes the comment body, splitting it into parameter
// and titled prose sections.
func (p *Parser) handleScanSections(pos Pos, line string) {
	body, isEnd := splitAtDocEnd(line)
	content := stripDocCom(body)

	if name, rest, isParam, ok := matchSectionHeader(content, p.opts.Markup); ok {
		p.closePurposeOrSection()
		p.pc.inParamSec = isParam
		p.pc.curSection = name
		p.pc.curBuf = []string{rest}
	} else {
		p.scanSectionContent(content)
	}

	if isEnd {
		p.flushCurrentSection()
		p.pc.protoLines = nil
		p.pc.braceDepth = 0
		p.pc.state = stateScanPrototype
	}
}

func (p *Parser) scanSectionContent(content string) {
	trimmed := strings.TrimSpace(content)

	if trimmed == "" {
		switch {
		case p.pc.inPurpose:
			p.closePurposeOrSection()
			p.pc.curSection = "Description"
		case p.pc.inParamSec:
			p.flushCurrentSection()
			p.pc.inParamSec = false
			p.pc.curSection = "Description"
		case p.pc.curSection != "":
			p.pc.curBuf = append(p.pc.curBuf, "")
		}
		return
	}

	if p.pc.inPurpose {
		p.pc.curBuf = append(p.pc.curBuf, trimmed)
		return
	}

	if p.pc.curSection == "" {
		p.pc.curSection = "Description"
		p.pc.curBuf = nil
	}

	line := content
	if p.pc.inParamSec && p.opts.Markup == MarkupReST {
		line = strings.TrimLeft(line, " \t")
		if title, ok := bareTitleLine(line); ok {
			p.pc.curBuf = append(p.pc.curBuf, "", title+":", "")
			return
		}
	}
	p.pc.curBuf = append(p.pc.curBuf, line)
}

// closePurposeOrSection finalizes whichever of purpose/current-section is
// open, ahead of opening a new section (used both by a section header
// appearing mid-stream and by the blank-line rules in scanSectionContent).
func (p *Parser) closePurposeOrSection() {
	if p.pc.inPurpose {
		p.pc.purpose = strings.TrimSpace(strings.Join(p.pc.curBuf, " "))
		p.pc.inPurpose = false
		p.pc.curBuf = nil
		return
	}
	p.flushCurrentSection()
}

func (p *Parser) flushCurrentSection() {
	if p.pc.inPurpose {
		p.pc.purpose = strings.TrimSpace(strings.Join(p.pc.curBuf, " "))
		p.pc.inPurpose = false
		p.pc.curBuf = nil
		return
	}
	if p.pc.curSection == "" {
		return
	}
	text := joinSectionText(p.pc.curBuf)
	if text == "" {
		// A section that never accumulated content, e.g. the implicit
		// Description opened by a blank line right before the comment
		// closes; recording it would only produce an empty heading.
		p.pc.curSection = ""
		p.pc.curBuf = nil
		return
	}
	var dup bool
	if p.pc.inParamSec {
		dup = p.pc.paramDescs.Append(p.pc.curSection, text)
	} else {
		dup = p.pc.sections.Append(p.pc.curSection, text)
	}
	if dup {
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "duplicate section %q in %s", p.pc.curSection, p.pc.name)
	}
	p.pc.curSection = ""
	p.pc.curBuf = nil
}

// handleScanPrototype accumulates the source lines following the comment
// until the declaration they form is complete.
func (p *Parser) handleScanPrototype(line string) {
	stripped := stripInlineComments(line)

	if p.pc.kind == DeclFunction {
		// The prototype ends at the first "{" or ";": for a K&R-style
		// definition the opening brace of the function body often lands on
		// its own accumulated line, and must not be folded into the
		// prototype text or the trailing brace defeats the end-anchored
		// shape match.
		if strings.HasPrefix(strings.TrimSpace(stripped), "#define") {
			p.pc.protoLines = append(p.pc.protoLines, strings.TrimSuffix(strings.TrimSpace(stripped), "\\"))
			p.finalizeFunction()
			return
		}
		if idx := strings.IndexAny(stripped, "{;"); idx >= 0 {
			p.pc.protoLines = append(p.pc.protoLines, stripped[:idx])
			p.finalizeFunction()
			return
		}
		p.pc.protoLines = append(p.pc.protoLines, stripped)
		return
	}

	// Aggregate bodies keep their raw text here: a private/public marker is
	// itself a /*...*/ comment, and stripping comments line-by-line before
	// finalizeAggregate sees them would erase the marker before
	// cleanStructBody ever gets a chance to cut the section it delimits.
	p.pc.protoLines = append(p.pc.protoLines, line)
	p.pc.braceDepth += strings.Count(stripped, "{") - strings.Count(stripped, "}")
	if p.pc.braceDepth <= 0 && strings.Contains(stripped, ";") {
		p.finalizeAggregate()
	}
}

// handleDocBlock accumulates a DOC: block's free-form content.
func (p *Parser) handleDocBlock(pos Pos, line string) {
	body, isEnd := splitAtDocEnd(line)
	content := stripDocCom(body)

	if title, ok := matchDocBlock(content); ok {
		p.emitDocBlock()
		p.pc.name = title
		p.pc.curBuf = nil
	} else {
		p.pc.curBuf = append(p.pc.curBuf, content)
	}

	if isEnd {
		p.emitDocBlock()
		p.pc.reset()
	}
}

func (p *Parser) emitDocBlock() {
	if p.pc.name == "" {
		return
	}
	if !p.opts.nameAllowed(p.pc.name) && !p.opts.UseAllDocs {
		p.pc.curBuf = nil
		return
	}
	p.markUseName(p.pc.name)
	sections := NewOrderedMap()
	sections.Set(p.pc.name, joinSectionText(p.pc.curBuf))
	p.out.OutputDOC(p.pc.name, sections)
	p.pc.curBuf = nil
}

// enterSplitDoc suspends the in-progress struct/union accumulation to read
// a comment documenting a single member.
func (p *Parser) enterSplitDoc() {
	p.pc.splitParent = &pendingStruct{protoLines: p.pc.protoLines, braceDepth: p.pc.braceDepth}
	p.pc.protoLines = nil
	p.pc.splitState = splitSeekHeader
	p.pc.splitParamName = ""
	p.pc.splitBuf = nil
	p.pc.state = stateSplitDoc
}

// handleSplitDoc runs the split-doc comment's own small state machine.
func (p *Parser) handleSplitDoc(pos Pos, line string) {
	body, isEnd := splitAtDocEnd(line)
	content := stripDocCom(body)

	switch p.pc.splitState {
	case splitSeekHeader:
		if name, rest, isParam, ok := matchSectionHeader(content, p.opts.Markup); ok && isParam {
			p.pc.splitParamName = name
			p.pc.splitBuf = []string{rest}
			p.pc.splitState = splitAccumulate
		} else {
			p.opts.Logger.Errorf(p.ctx, pos, "split doc comment must open with a parameter header")
			p.pc.splitState = splitError
		}
	case splitAccumulate:
		if name, rest, isParam, ok := matchSectionHeader(content, p.opts.Markup); ok && isParam {
			p.flushSplitParam()
			p.pc.splitParamName = name
			p.pc.splitBuf = []string{rest}
		} else {
			p.pc.splitBuf = append(p.pc.splitBuf, strings.TrimSpace(content))
		}
	case splitError:
		// discard until the comment closes.
	}

	if isEnd {
		if p.pc.splitState == splitAccumulate {
			p.flushSplitParam()
		}
		p.pc.protoLines = p.pc.splitParent.protoLines
		p.pc.braceDepth = p.pc.splitParent.braceDepth
		p.pc.splitParent = nil
		p.pc.splitState = splitNone
		p.pc.state = stateScanPrototype
	}
}

func (p *Parser) flushSplitParam() {
	text := joinSectionText(p.pc.splitBuf)
	if dup := p.pc.paramDescs.Append(p.pc.splitParamName, text); dup {
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "duplicate description for parameter %q", p.pc.splitParamName)
	}
	p.pc.splitParamName = ""
	p.pc.splitBuf = nil
}

// finalizeFunction normalizes and matches an accumulated function
// prototype: macro rewriting first, then qualifier scrubbing, then the
// ordered prototype shapes.
func (p *Parser) finalizeFunction() {
	proto := collapseWhitespace(strings.Join(p.pc.protoLines, " "))

	if strings.HasPrefix(proto, "#define") {
		// A macro has no return type. A function-like macro still gets its
		// argument list split; an object-like macro has no parameters.
		p.pc.returnType = ""
		if m := reDefineFunctionLike.FindStringSubmatch(proto); m != nil {
			// Macro parameters are untyped bare names.
			for _, tok := range splitTopLevelCommas(m[2]) {
				arg := strings.TrimSpace(tok)
				if arg == "" {
					continue
				}
				p.pc.paramList = append(p.pc.paramList, arg)
				p.pc.paramTypes[arg] = ""
				if arg == "..." {
					mergeAutoDescs(p.pc, map[string]string{"...": "variable arguments"})
				}
			}
			if m[1] != p.pc.name {
				p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "macro name %q does not match comment name %q", m[1], p.pc.name)
			}
		}
		p.finalizeDecl(DeclFunction)
		return
	}

	if rewritten, ok := normalizeSyscallDefine(proto); ok {
		proto = rewritten
	} else if rewritten, ok := normalizeTraceEvent(proto); ok {
		proto = rewritten
	}
	proto = scrubPrototype(proto, p.opts.KnownAttrs)

	ret, name, args, ok := matchFuncPrototype(proto)
	if !ok {
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "cannot parse prototype for %q", p.pc.name)
		p.pc.reset()
		p.pc.state = stateNormal
		return
	}
	if name != p.pc.name {
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "prototype name %q does not match comment name %q", name, p.pc.name)
	}

	res := createParameterList(args)
	p.pc.returnType = ret
	p.pc.paramList = res.Names
	p.pc.paramTypes = res.Types
	mergeAutoDescs(p.pc, res.AutoDescs)
	p.finalizeDecl(DeclFunction)
}

// finalizeAggregate extracts members from an accumulated struct, union,
// enum or typedef declaration.
func (p *Parser) finalizeAggregate() {
	full := strings.Join(p.pc.protoLines, "\n")
	inner, hasBody := extractOuterBraces(full)
	if !hasBody {
		// A brace-less declaration, e.g. "typedef unsigned long foo_t;" or
		// a plain forward declaration: there is nothing to flatten into
		// members, just the trimmed declaration text itself.
		inner = strings.TrimSuffix(strings.TrimSpace(full), ";")
	}

	switch p.pc.kind {
	case DeclStruct, DeclUnion:
		cleaned := cleanStructBody(inner)
		res := createMemberList(cleaned)
		p.pc.paramList = res.Names
		p.pc.paramTypes = res.Types
		mergeAutoDescs(p.pc, res.AutoDescs)
		p.pc.definition = collapseWhitespace(cleaned)
		p.finalizeDecl(p.pc.kind)
	case DeclEnum:
		inner = stripJoinedComments(inner)
		p.pc.paramList = splitEnumerators(inner)
		p.pc.definition = collapseWhitespace(inner)
		p.finalizeDecl(DeclEnum)
	default: // DeclTypedef
		inner = stripJoinedComments(inner)
		p.pc.definition = collapseWhitespace(inner)
		p.finalizeDecl(DeclTypedef)
	}
}

// finalizeDecl applies the cross-kind invariants (unique name, missing and
// excess parameter descriptions) and emits the completed DeclEvent, after
// which the context is reset ready for the next "/**".
func (p *Parser) finalizeDecl(kind DeclKind) {
	if prev, dup := p.pc.seenNames[p.pc.name]; dup {
		p.opts.Logger.Errorf(p.ctx, p.pc.declOffset, "duplicate declaration name %q, previously seen at %s", p.pc.name, diagnostic.FormatPos(prev))
	} else {
		p.pc.seenNames[p.pc.name] = p.pc.declOffset
	}

	for _, name := range p.pc.paramList {
		if !p.pc.paramDescs.Has(name) {
			p.pc.paramDescs.Set(name, UndescribedText)
			if p.opts.VerboseWarn {
				p.opts.Logger.Infof(p.ctx, p.pc.declOffset, "missing description for parameter %q of %q", name, p.pc.name)
			}
		}
	}
	known := make(map[string]bool, len(p.pc.paramList))
	for _, name := range p.pc.paramList {
		known[name] = true
	}
	for _, name := range p.pc.paramDescs.Keys() {
		if !known[name] {
			p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "excess description for unknown parameter %q of %q", name, p.pc.name)
		}
	}

	ev := DeclEvent{
		Kind:           kind,
		Name:           p.pc.name,
		Pos:            p.pc.declOffset,
		Purpose:        p.pc.purpose,
		ReturnType:     p.pc.returnType,
		ParameterList:  append([]string(nil), p.pc.paramList...),
		ParameterTypes: p.pc.paramTypes,
		ParameterDescs: p.pc.paramDescs.Clone(),
		Sections:       p.pc.sections.Clone(),
		Definition:     p.pc.definition,
	}

	if p.opts.nameAllowed(ev.Name) {
		p.markUseName(ev.Name)
		switch kind {
		case DeclFunction:
			p.out.OutputFunctionDecl(ev)
		case DeclStruct, DeclUnion:
			p.out.OutputStructDecl(ev)
		case DeclEnum:
			p.out.OutputEnumDecl(ev)
		case DeclTypedef:
			p.out.OutputTypedefDecl(ev)
		}
	}

	p.pc.reset()
	p.pc.state = stateNormal
}

func (p *Parser) markUseName(name string) {
	for _, use := range p.opts.UseNames {
		if use == name {
			p.matchedUseNames[name] = true
		}
	}
}

// Finish closes the parse at end of file: an unfinished declaration emits a
// warning; an open DOC block or a pending prototype is still emitted, while
// a comment whose body never closed is discarded. Every UseNames entry never
// matched is reported (error or warning per ErrorMissing).
func (p *Parser) Finish() {
	switch p.pc.state {
	case stateDocBlock:
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "unexpected end of file: missing */")
		p.emitDocBlock()
	case stateScanSections:
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "unexpected end of file: missing */")
	case stateScanPrototype:
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "unexpected end of file: missing */")
		if p.pc.kind == DeclFunction {
			p.finalizeFunction()
		} else {
			p.finalizeAggregate()
		}
	case stateSplitDoc, stateSeekName:
		p.opts.Logger.Warnf(p.ctx, p.pc.declOffset, "unexpected end of file: missing */")
	}

	seen := make([]string, 0, len(p.pc.seenNames))
	for name := range p.pc.seenNames {
		seen = append(seen, name)
	}

	for _, want := range p.opts.UseNames {
		if p.matchedUseNames[want] {
			continue
		}
		pos := Pos{Filename: p.opts.Filename}
		msg := "requested name %s not found%s"
		if p.opts.ErrorMissing {
			p.opts.Logger.Errorf(p.ctx, pos, msg, strconv.Quote(want), suggestSuffix(want, seen))
		} else {
			p.opts.Logger.Warnf(p.ctx, pos, msg, strconv.Quote(want), suggestSuffix(want, seen))
		}
	}
}

// gatherContext pre-scans every line of the file for exported symbols and
// module metadata before the main parse, implementing ParseOptions.
// GatherContext.
func gatherContext(pc *ParserContext, opts *ParseOptions, lines []string) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if m := reModuleMeta.FindStringSubmatch(line); m != nil {
			pc.ModuleMeta[m[1]] = m[2]
			continue
		}

		switch opts.ExpMethod {
		case ExportMacro:
			if m := reExportMacro.FindStringSubmatch(line); m != nil && containsString(opts.ExpIDs, m[1]) {
				pc.addExported(m[2])
			}
		case ExportAttribute:
			if m := reExportAttr.FindStringSubmatch(line); m != nil && containsString(opts.ExpIDs, m[1]) {
				pc.addExported(m[2])
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// expandTabs replaces tabs with spaces up to the next tab stop of width,
// applied before lexing.
func expandTabs(line string, width int) string {
	if width <= 0 {
		width = 8
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := width - (col % width)
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// splitAtDocEnd splits line at the comment terminator.
func splitAtDocEnd(line string) (before string, isEnd bool) {
	loc := reDocEnd.FindStringIndex(line)
	if loc == nil {
		return line, false
	}
	return line[:loc[0]], true
}

// joinSectionText joins buffered lines with newlines, preserving paragraph
// breaks recorded as empty strings, dedenting any common leading
// indentation left over from continuation lines (a section body may be
// captured verbatim, e.g. a code example under a "::" marker), and trims
// the result.
func joinSectionText(buf []string) string {
	return strings.TrimSpace(dedent.Dedent(strings.Join(buf, "\n")))
}

// bareTitleLine recognizes a bare "Title" line with no trailing content, so
// a reST parameter section can wrap it with surrounding blank lines.
func bareTitleLine(line string) (title string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	m := reBareTitle.FindStringSubmatch(trimmed)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractOuterBraces returns the text between the first unmatched "{" in s
// and its matching "}".
func extractOuterBraces(s string) (inner string, ok bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i], true
			}
		}
	}
	return "", false
}

// splitEnumerators splits an enum body into its enumerator names, dropping
// any explicit "= value" initializer.
func splitEnumerators(body string) []string {
	var out []string
	for _, tok := range splitTopLevelCommas(body) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if idx := strings.Index(tok, "="); idx >= 0 {
			tok = strings.TrimSpace(tok[:idx])
		}
		fields := strings.Fields(tok)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields[0])
	}
	return out
}

// mergeAutoDescs assigns every auto-derived description (varargs, void,
// anonymous members) into pc.paramDescs, but only for a name not already
// documented explicitly, so a real @name: section always wins.
func mergeAutoDescs(pc *ParserContext, auto map[string]string) {
	for name, desc := range auto {
		if !pc.paramDescs.Has(name) {
			pc.paramDescs.Set(name, desc)
		}
	}
}
