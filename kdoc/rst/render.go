package rst

import (
	"fmt"
	"io"
	"strings"

	"github.com/return42/linuxdoc/kdoc"
)

// headerLevel2 and headerLevel3 are the underline characters the translator
// uses for a declaration's own title and its sub-sections respectively.
// kernel-doc never emits a level-1 (document) title, since a rendered file
// is always included into a larger document.
const (
	headerLevel2 = '='
	headerLevel3 = '-'
)

func writeHeader(w io.Writer, title string, underline byte) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat(string(underline), len([]rune(title))))
	fmt.Fprintln(w)
}

func anchorID(opts *kdoc.ParseOptions, name string) string {
	if opts.IDPrefix == "" {
		return name
	}
	return opts.IDPrefix + "." + name
}

func writeAnchor(w io.Writer, opts *kdoc.ParseOptions, name string) {
	fmt.Fprintf(w, ".. _%s:\n\n", anchorID(opts, name))
}

// writeBody renders a prose section body, applying the highlight pipeline
// and indenting it under the current directive/field.
func writeBody(w io.Writer, opts *kdoc.ParseOptions, indent, body string) {
	body = HighlightLines(opts, body)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

// subParamsOf returns the dotted sub-members of parent ("parent.field")
// present in names, in the order they appear there.
func subParamsOf(parent string, names []string) []string {
	var out []string
	prefix := parent + "."
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

func isSubParam(name string) bool { return strings.Contains(name, ".") }

// writeParamFields renders the ":param name:" field list for a function,
// struct or union declaration, nesting dotted sub-members under their
// parent as an indented definition list.
func writeParamFields(w io.Writer, opts *kdoc.ParseOptions, ev kdoc.DeclEvent) {
	for _, name := range ev.ParameterList {
		if isSubParam(name) {
			continue
		}
		desc, ok := ev.ParameterDescs.Get(name)
		if !ok {
			desc = kdoc.UndescribedText
		}
		fmt.Fprintf(w, ":param %s: ", name)
		lines := strings.Split(HighlightLines(opts, desc), "\n")
		fmt.Fprintln(w, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "    %s\n", l)
		}

		for _, sub := range subParamsOf(name, ev.ParameterList) {
			subDesc, ok := ev.ParameterDescs.Get(sub)
			if !ok {
				subDesc = kdoc.UndescribedText
			}
			fmt.Fprintf(w, "\n    %s\n        %s\n", sub, HighlightLines(opts, subDesc))
		}
	}
	fmt.Fprintln(w)
}

// writeSections renders the named prose sections (Description, Context,
// Return, ...) as level-3 headers followed by their highlighted body.
func writeSections(w io.Writer, opts *kdoc.ParseOptions, sections *kdoc.OrderedMap) {
	for _, title := range sections.Keys() {
		body, _ := sections.Get(title)
		writeHeader(w, title, headerLevel3)
		writeBody(w, opts, "", body)
		fmt.Fprintln(w)
	}
}

// reindentDefinition reflows a struct/union/enum's cleaned body (a single
// run-on string assembled during prototype accumulation) onto one member
// per line, breaking after every `;` or `,` and increasing/decreasing
// indentation on `{`/`}`.
func reindentDefinition(body string) string {
	var out strings.Builder
	depth := 0
	var cur strings.Builder
	flush := func() {
		line := strings.TrimSpace(cur.String())
		if line != "" {
			out.WriteString(strings.Repeat("\t", depth))
			out.WriteString(line)
			out.WriteString("\n")
		}
		cur.Reset()
	}
	for _, r := range body {
		switch r {
		case '{':
			cur.WriteRune(r)
			flush()
			depth++
		case '}':
			flush()
			depth--
			if depth < 0 {
				depth = 0
			}
			cur.WriteRune(r)
			flush()
		case ';', ',':
			cur.WriteRune(r)
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return strings.TrimRight(out.String(), "\n")
}

func writeCodeBlock(w io.Writer, body string) {
	fmt.Fprintln(w, "::")
	fmt.Fprintln(w)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "    %s\n", line)
	}
	fmt.Fprintln(w)
}

func renderFunction(w io.Writer, opts *kdoc.ParseOptions, ev kdoc.DeclEvent) {
	writeAnchor(w, opts, ev.Name)
	title := ev.Name
	if ev.Purpose != "" {
		title = fmt.Sprintf("%s - %s", ev.Name, ev.Purpose)
	}
	writeHeader(w, title, headerLevel2)

	proto := ev.ReturnType
	if proto != "" {
		proto += " "
	}
	proto += fmt.Sprintf("%s(%s)", ev.Name, strings.Join(paramDeclarators(ev), ", "))

	fmt.Fprintf(w, ".. c:function:: %s\n\n", proto)
	writeParamFields(w, opts, ev)
	writeSections(w, opts, ev.Sections)
}

// paramDeclarators reassembles the "type name" declarator of every top-level
// parameter, so the rendered prototype keeps the declaration's types and
// pointer shapes. Dotted sub-members never appear in a C prototype.
func paramDeclarators(ev kdoc.DeclEvent) []string {
	var out []string
	for _, name := range ev.ParameterList {
		if isSubParam(name) {
			continue
		}
		out = append(out, declarator(ev.ParameterTypes[name], name))
	}
	return out
}

func declarator(typ, name string) string {
	switch {
	case typ == "":
		return name
	case strings.Contains(typ, "(*)"):
		// Pointer-to-function: the name goes back inside the parens.
		return strings.Replace(typ, "(*)", "(*"+name+")", 1)
	case strings.HasSuffix(typ, "*"):
		return typ + name
	default:
		return typ + " " + name
	}
}

func aggregateDirective(kind kdoc.DeclKind) string {
	if kind == kdoc.DeclUnion {
		return "c:union"
	}
	return "c:struct"
}

func renderStructOrUnion(w io.Writer, opts *kdoc.ParseOptions, ev kdoc.DeclEvent) {
	writeAnchor(w, opts, ev.Name)
	title := ev.Name
	if ev.Purpose != "" {
		title = fmt.Sprintf("%s - %s", ev.Name, ev.Purpose)
	}
	writeHeader(w, title, headerLevel2)

	fmt.Fprintf(w, ".. %s:: %s\n\n", aggregateDirective(ev.Kind), ev.Name)

	fmt.Fprintln(w, "Definition:")
	fmt.Fprintln(w)
	full := fmt.Sprintf("%s %s {%s}", ev.Kind, ev.Name, ev.Definition)
	writeCodeBlock(w, reindentDefinition(full))

	fmt.Fprintln(w, "Members:")
	fmt.Fprintln(w)
	writeParamFields(w, opts, ev)
	writeSections(w, opts, ev.Sections)
}

func renderEnum(w io.Writer, opts *kdoc.ParseOptions, ev kdoc.DeclEvent) {
	writeAnchor(w, opts, ev.Name)
	title := ev.Name
	if ev.Purpose != "" {
		title = fmt.Sprintf("%s - %s", ev.Name, ev.Purpose)
	}
	writeHeader(w, title, headerLevel2)

	fmt.Fprintf(w, ".. c:enum:: %s\n\n", ev.Name)

	fmt.Fprintln(w, "Definition:")
	fmt.Fprintln(w)
	writeCodeBlock(w, fmt.Sprintf("enum %s { %s }", ev.Name, strings.Join(ev.ParameterList, ", ")))

	fmt.Fprintln(w, "Constants:")
	fmt.Fprintln(w)
	for _, name := range ev.ParameterList {
		desc, ok := ev.ParameterDescs.Get(name)
		if !ok {
			desc = kdoc.UndescribedText
		}
		fmt.Fprintf(w, "%s\n    %s\n\n", name, HighlightLines(opts, desc))
	}
	writeSections(w, opts, ev.Sections)
}

func renderTypedef(w io.Writer, opts *kdoc.ParseOptions, ev kdoc.DeclEvent) {
	writeAnchor(w, opts, ev.Name)
	title := ev.Name
	if ev.Purpose != "" {
		title = fmt.Sprintf("%s - %s", ev.Name, ev.Purpose)
	}
	writeHeader(w, title, headerLevel2)

	fmt.Fprintf(w, ".. c:type:: %s\n\n", ev.Name)
	writeSections(w, opts, ev.Sections)
}

func renderDOC(w io.Writer, opts *kdoc.ParseOptions, title string, sections *kdoc.OrderedMap) {
	writeAnchor(w, opts, title)
	writeHeader(w, title, headerLevel2)
	writeSections(w, opts, sections)
}
