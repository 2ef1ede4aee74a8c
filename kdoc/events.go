package kdoc

// DeclKind identifies which shape a DeclEvent carries.
type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclStruct
	DeclUnion
	DeclEnum
	DeclTypedef
	DeclDoc
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclStruct:
		return "struct"
	case DeclUnion:
		return "union"
	case DeclEnum:
		return "enum"
	case DeclTypedef:
		return "typedef"
	case DeclDoc:
		return "DOC"
	default:
		return "unknown"
	}
}

// DeclEvent is a single dump-event recorded by the parser and replayed into
// a Translator.
// Every declaration kind reuses this one struct rather than a Go sum type
// (a Go interface with six structs satisfying it) because the translators
// need only branch on Kind and every field applies to at least one kind
// without contorting the others; keeping one shape also makes dump storage
// a flat, directly-replayable []DeclEvent.
type DeclEvent struct {
	Kind DeclKind
	Name string
	Pos  Pos

	// Purpose is the short trailing phrase after "name - " (function,
	// struct/union, enum, typedef).
	Purpose string

	// ReturnType applies to DeclFunction only; empty for an object-like
	// macro.
	ReturnType string

	// ParameterList is the parameter/member order as seen in the
	// declaration (function params, or struct/union/enum members).
	ParameterList []string

	// ParameterTypes maps a parameter/member name to its C type string, as
	// derived from the declaration (not the comment).
	ParameterTypes map[string]string

	// ParameterDescs maps a parameter/member name to its description, as
	// derived from the comment's @name: sections. Every entry in
	// ParameterList not present here is assigned the undescribed sentinel
	// before the event is emitted.
	ParameterDescs *OrderedMap

	// Sections holds the named prose sections (Description, Context,
	// Return, ...), insertion-ordered. For DeclDoc, this
	// is the DOC: block's only content, keyed by its title.
	Sections *OrderedMap

	// Definition is the cleaned struct/union/enum body text, used by the
	// reST translator to render a "Definition" code block.
	Definition string
}

// UndescribedText is the sentinel description assigned to a parameter that
// appears in ParameterList but has no corresponding ParameterDescs entry.
const UndescribedText = "undescribed"
