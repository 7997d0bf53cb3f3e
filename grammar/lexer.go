package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RulesLexer tokenizes rule files. After "=" it switches to the RHS state so
// the rest of the line is taken verbatim as a pattern, '#' included.
var RulesLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `#[^\n]*`, Action: nil},
		{Name: "Directive", Pattern: `%[a-zA-Z_]+`, Action: nil},
		{Name: "Name", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`, Action: nil},
		{Name: "Assign", Pattern: `=[ \t]*`, Action: lexer.Push("RHS")},
		{Name: "Newline", Pattern: `\r?\n`, Action: nil},
		{Name: "Whitespace", Pattern: `[ \t\r]+`, Action: nil},
	},
	"RHS": {
		{Name: "EOL", Pattern: `\r?\n`, Action: lexer.Pop()},
		{Name: "Value", Pattern: `[^\r\n]+`, Action: nil},
	},
})
