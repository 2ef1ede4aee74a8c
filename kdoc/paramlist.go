package kdoc

import (
	"fmt"
	"strings"
)

// splitTopLevel splits s on delim, treating text inside (), [], {} or quotes
// as opaque so a pointer-to-function argument list or an array dimension
// never contributes a spurious split point.
func splitTopLevel(s string, delim byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case c == delim && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitTopLevelCommas splits a parameter or argument list on its top-level
// commas.
func splitTopLevelCommas(s string) []string {
	return splitTopLevel(s, ',')
}

// splitStructMembers splits a cleaned struct/union body on its top-level
// semicolons, dropping blank entries left by trailing separators.
func splitStructMembers(body string) []string {
	var out []string
	for _, part := range splitTopLevel(body, ';') {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// flattenNestedStructs expands one level of anonymous nested struct/union
// members ("struct { int a; int b; } nested, *pnested;") into a synthetic
// member for the nested aggregate itself plus dotted sub-members for each of
// its fields, and then discards any remaining (deeper) brace bodies
// untouched by that single pass. Only one level of nesting is named;
// anything deeper degrades to an opaque type, which keeps the rule simple
// and total.
func flattenNestedStructs(body string) string {
	for {
		loc := reNestedStructMember.FindStringSubmatchIndex(body)
		if loc == nil {
			break
		}
		kind := body[loc[2]:loc[3]]
		fields := body[loc[4]:loc[5]]
		declList := body[loc[6]:loc[7]]

		var synthetic []string
		for _, decl := range splitTopLevelCommas(declList) {
			decl = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(decl), "*"))
			if decl == "" {
				continue
			}
			synthetic = append(synthetic, fmt.Sprintf("%s %s;", kind, decl))
			for _, field := range splitStructMembers(fields) {
				typ, name, ok := splitDeclarator(field)
				if !ok {
					continue
				}
				synthetic = append(synthetic, fmt.Sprintf("%s %s.%s;", typ, decl, name))
			}
		}

		body = body[:loc[0]] + strings.Join(synthetic, " ") + body[loc[1]:]
	}
	return reAnyBrace.ReplaceAllString(body, "")
}

// splitDeclarator separates a single C declarator ("int *foo", "void
// (*cb)(int)", "char name[32]") into its base type and bare name. It
// reports ok=false when no name token can be found at all, which the
// caller treats as an anonymous member.
func splitDeclarator(decl string) (typ, name string, ok bool) {
	decl = collapseWhitespace(decl)
	if decl == "" {
		return "", "", false
	}

	if m := reFuncPtrDeclarator.FindStringSubmatch(decl); m != nil {
		ret := collapseWhitespace(m[1])
		name = m[2]
		args := strings.TrimSpace(m[3])
		if name == "" {
			return decl, "", false
		}
		return fmt.Sprintf("%s (*)(%s)", ret, args), name, true
	}

	decl = strings.TrimSpace(reTrailingArray.ReplaceAllString(decl, ""))

	m := reTrailingIdent.FindStringSubmatchIndex(decl)
	if m == nil {
		return decl, "", false
	}
	name = decl[m[2]:m[3]]
	typ = strings.TrimSpace(decl[:m[2]])
	if typ == "" {
		// A single bare word with nothing before it is just a type, not a
		// named declarator (e.g. a lone "struct" left by cleanup).
		return decl, "", false
	}
	return typ, name, true
}

// ParamResult is the outcome of splitting a parameter or member list into
// names, types, and any auto-assigned descriptions that should not trigger
// the "undescribed" warning.
type ParamResult struct {
	Names     []string
	Types     map[string]string
	AutoDescs map[string]string
}

func newParamResult() ParamResult {
	return ParamResult{Types: make(map[string]string), AutoDescs: make(map[string]string)}
}

// createParameterList splits a function's argument-list text into its
// parameters, special-casing void/empty, varargs, bitfields, and
// pointer-to-function declarators.
func createParameterList(args string) ParamResult {
	res := newParamResult()

	trimmed := strings.TrimSpace(args)
	if trimmed == "" || trimmed == "void" {
		res.Names = []string{"void"}
		res.Types["void"] = ""
		res.AutoDescs["void"] = "no arguments"
		return res
	}

	for _, tok := range splitTopLevelCommas(trimmed) {
		addParameter(&res, tok)
	}
	return res
}

// createMemberList splits a cleaned struct/union/enum body into its
// members, first flattening one level of anonymous nesting.
func createMemberList(body string) ParamResult {
	res := newParamResult()
	for _, tok := range splitStructMembers(flattenNestedStructs(body)) {
		addParameter(&res, tok)
	}
	return res
}

func addParameter(res *ParamResult, tok string) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return
	}

	if tok == "..." {
		res.Names = append(res.Names, "...")
		res.Types["..."] = ""
		res.AutoDescs["..."] = "variable arguments"
		return
	}

	if m := reBitfield.FindStringSubmatch(tok); m != nil {
		left, name, width := strings.TrimSpace(m[1]), m[2], m[3]
		if name == "" || left == "" {
			// Unnamed padding bitfield; it documents nothing.
			return
		}
		switch name {
		case "int", "char", "short", "long", "signed", "unsigned", "bool", "_Bool":
			// "unsigned int :3": the word before the colon ends the type, so
			// this is an unnamed padding bitfield too.
			return
		}
		typ := "int"
		if t, n, ok := splitDeclarator(left + " " + name); ok {
			typ = t
			name = n
		}
		res.Names = append(res.Names, name)
		res.Types[name] = typ + ":" + width
		return
	}

	typ, name, ok := splitDeclarator(tok)
	if !ok {
		synth := "{unnamed_struct}"
		if strings.HasPrefix(strings.TrimSpace(tok), "union") {
			synth = "{unnamed_union}"
		}
		res.Names = append(res.Names, synth)
		res.Types[synth] = typ
		res.AutoDescs[synth] = "anonymous"
		return
	}

	res.Names = append(res.Names, name)
	res.Types[name] = typ
}
