// Package grammar parses the line-oriented rule file format:
//
//	# comment
//	%whitespace = [ \t\r\n]+
//	%keywords   = if else while
//	%operator add = +
//	number = [0-9]+
//	ident  = [a-zA-Z_][a-zA-Z0-9_]*
//
// Everything after "=" up to the end of the line is the pattern, with
// surrounding blanks trimmed.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Pos     lexer.Position
	Entries []*Entry `parser:"@@*"`
}

type Entry struct {
	Operator  *Operator  `parser:"  @@"`
	Directive *Directive `parser:"| @@"`
	Rule      *Rule      `parser:"| @@"`
}

// Operator maps a literal lexeme to a token type.
type Operator struct {
	Pos    lexer.Position
	Name   string `parser:"\"%operator\" @Name"`
	Lexeme string `parser:"Assign @Value"`
}

// Directive is a "%key = value" setting such as %whitespace or %keywords.
type Directive struct {
	Pos   lexer.Position
	Key   string `parser:"@Directive"`
	Value string `parser:"Assign @Value"`
}

type Rule struct {
	Pos     lexer.Position
	Name    string `parser:"@Name"`
	Pattern string `parser:"Assign @Value"`
}
