package config

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"lexgen/grammar"
)

// Lex renders the document in the ".lex" format, so JSON and YAML rule
// files can be converted.
func (d *Document) Lex() *grammar.File {
	file := &grammar.File{}
	add := func(e *grammar.Entry) { file.Entries = append(file.Entries, e) }

	if d.Whitespace != "" {
		add(&grammar.Entry{Directive: &grammar.Directive{Key: "%whitespace", Value: escape(d.Whitespace)}})
	}
	if len(d.Keywords) > 0 {
		add(&grammar.Entry{Directive: &grammar.Directive{Key: "%keywords", Value: strings.Join(d.Keywords, " ")}})
	}
	for _, op := range d.Operators {
		add(&grammar.Entry{Operator: &grammar.Operator{Name: op.Name, Lexeme: op.Lexeme}})
	}
	for _, r := range d.Rules {
		add(&grammar.Entry{Rule: &grammar.Rule{Name: r.Name, Pattern: escape(r.Pattern)}})
	}
	return file
}

var controls = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// escape rewrites a pattern so it fits on one line and keeps blanks at
// either end, which the ".lex" format would otherwise trim.
func escape(pattern string) string {
	pattern = controls.Replace(pattern)

	if r, size := utf8.DecodeRuneInString(pattern); size > 0 && unicode.IsSpace(r) {
		pattern = hexEscape(r) + pattern[size:]
	}

	r, size := utf8.DecodeLastRuneInString(pattern)
	if size == 0 || !unicode.IsSpace(r) {
		return pattern
	}
	rest := pattern[:len(pattern)-size]
	// An odd run of backslashes escapes the blank; the escape goes with it.
	if n := len(rest) - len(strings.TrimRight(rest, `\`)); n%2 == 1 {
		rest = rest[:len(rest)-1]
	}
	return rest + hexEscape(r)
}

func hexEscape(r rune) string {
	if r < 0x100 {
		return fmt.Sprintf(`\x%02x`, r)
	}
	return fmt.Sprintf(`\x{%x}`, r)
}
