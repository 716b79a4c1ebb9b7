// Package synfmt implements the generic operation-textual-syntax front
// end required by §6 ("the tool must round-trip any input it accepts"):
// a participle-based lexer/grammar/parser plus the inverse printer.
// Grounded file-for-file on kanso's grammar/lexer.go (a
// lexer.MustStateful token set) and grammar/parser.go
// (participle.Build + participle.Elide + a caret-style reportParseError).
package synfmt

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// GenericLexer tokenizes the MLIR-style generic syntax:
// `%r = "dialect.op"(%a, %b) <{k = v}> ({ ^bb: ... }) : (t, t) -> (t)`.
var GenericLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"SSAName", `%[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"BlockName", `\^[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Arrow", `->`, nil},
		{"Punctuation", `[(){}\[\]<>,:=@!]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
