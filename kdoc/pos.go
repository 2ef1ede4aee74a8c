package kdoc

import "github.com/alecthomas/participle/v2/lexer"

// Pos is a source position: filename, line and column. It aliases
// participle's lexer.Position so diagnostics and dump events share one
// position type.
type Pos = lexer.Position
