package kdoc

import (
	"regexp"
	"strconv"
	"strings"
)

// funcPrototypes is the ordered list of recognized function-prototype
// shapes: each entry requires *exactly* n leading return-type specifier
// words (e.g. "unsigned long", "struct foo") before an optional run of
// pointer asterisks, the declarator name, and a parenthesized argument
// list. They are probed longest-specifier-first; because each shape
// anchors on an exact word count, at most one shape can match a given
// prototype, so the longest shape wins by construction.
var funcPrototypes = []*regexp.Regexp{
	protoShape(4),
	protoShape(3),
	protoShape(2),
	protoShape(1),
	protoShape(0),
}

func protoShape(n int) *regexp.Regexp {
	return regexp.MustCompile(
		`^\s*((?:\w+\s+){` + strconv.Itoa(n) + `})(\**)\s*(\w+)\s*\(([\s\S]*)\)\s*;?\s*$`,
	)
}

// matchFuncPrototype applies funcPrototypes in order and returns the first
// match's return type (with pointer stars reattached), declared name, and
// raw argument-list text.
func matchFuncPrototype(proto string) (returnType, name, args string, ok bool) {
	proto = strings.TrimSpace(proto)
	for _, re := range funcPrototypes {
		m := re.FindStringSubmatch(proto)
		if m == nil {
			continue
		}
		ret := strings.TrimSpace(m[1])
		stars := m[2]
		name = m[3]
		args = m[4]
		if ret == "" {
			ret = "void"
		}
		if stars != "" {
			ret = ret + " " + stars
		}
		return ret, name, args, true
	}
	return "", "", "", false
}
