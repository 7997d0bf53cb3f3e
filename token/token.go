// Package token SPDX-License-Identifier: Apache-2.0
package token

import "fmt"

// Type is the name of the rule that produced a token.
type Type string

// Token is a single classified lexeme. Line and Column are 0-based and
// describe where the lexeme starts; Offset is a byte offset into the source.
type Token struct {
	Type   Type
	Value  string
	Line   int
	Column int
	Offset int
}

// Is reports whether the token's type is one of types.
func (t Token) Is(types ...Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// End returns the byte offset just past the lexeme.
func (t Token) End() int {
	return t.Offset + len(t.Value)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}
