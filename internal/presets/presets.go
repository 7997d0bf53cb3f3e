// Package presets holds rule sets built into lexgen, usable wherever a rule
// file path is accepted by writing "builtin:<name>".
package presets

import (
	"fmt"
	"sort"
	"strings"

	"lexgen/internal/config"
	"lexgen/internal/rules"
)

// Prefix marks a rule file argument that names a preset instead of a path.
const Prefix = "builtin:"

// Preset is a rule set shipped with lexgen.
type Preset struct {
	Name        string
	Description string
	Whitespace  string
	Keywords    []string
	Operators   []config.Operator
	Rules       []rules.Rule
}

// Document returns the preset as if it had been loaded from a rule file.
func (p *Preset) Document() *config.Document {
	return &config.Document{
		Path:       Prefix + p.Name,
		Format:     config.FormatLex,
		Whitespace: p.Whitespace,
		Keywords:   append([]string(nil), p.Keywords...),
		Operators:  append([]config.Operator(nil), p.Operators...),
		Rules:      append([]rules.Rule(nil), p.Rules...),
	}
}

func operators(pairs ...string) []config.Operator {
	ops := make([]config.Operator, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ops = append(ops, config.Operator{Name: pairs[i], Lexeme: pairs[i+1]})
	}
	return ops
}

// GetPresets returns all built-in presets keyed by name.
func GetPresets() map[string]*Preset {
	return map[string]*Preset{
		"calc": {
			Name:        "calc",
			Description: "arithmetic with let bindings and print",
			Whitespace:  `[ \t\r\n]+`,
			Keywords:    []string{"let", "print"},
			Operators: operators(
				"add", "+", "subtract", "-", "multiply", "*", "divide", "/",
				"assign", "=", "lparen", "(", "rparen", ")",
			),
			Rules: []rules.Rule{
				{Name: "comment", Pattern: `//[^\n]*`},
				{Name: "number", Pattern: `[0-9]+(\.[0-9]+)?`},
				{Name: "string", Pattern: `"([^"\\]|\\.)*"`},
				{Name: "ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			},
		},
		"json": {
			Name:        "json",
			Description: "JSON values",
			Whitespace:  `[ \t\r\n]+`,
			Keywords:    []string{"true", "false", "null"},
			Operators: operators(
				"lbrace", "{", "rbrace", "}", "lbracket", "[", "rbracket", "]",
				"colon", ":", "comma", ",",
			),
			Rules: []rules.Rule{
				{Name: "string", Pattern: `"([^"\\\x00-\x1f]|\\["\\/bfnrt]|\\u[0-9a-fA-F]{4})*"`},
				{Name: "number", Pattern: `-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`},
			},
		},
		"sexpr": {
			Name:        "sexpr",
			Description: "Lisp style s-expressions",
			Whitespace:  `[ \t\r\n]+`,
			Operators:   operators("lparen", "(", "rparen", ")", "quote", "'"),
			Rules: []rules.Rule{
				{Name: "comment", Pattern: `;[^\n]*`},
				{Name: "string", Pattern: `"([^"\\]|\\.)*"`},
				{Name: "number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
				{Name: "symbol", Pattern: `[^\s()';"]+`},
			},
		},
	}
}

// Names returns the preset names in lexical order.
func Names() []string {
	var names []string
	for name := range GetPresets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsPreset checks whether a rule file argument refers to a preset.
func IsPreset(arg string) bool {
	return strings.HasPrefix(arg, Prefix)
}

// Lookup returns the preset called name, with or without the "builtin:"
// prefix.
func Lookup(name string) (*Preset, bool) {
	p, ok := GetPresets()[strings.TrimPrefix(name, Prefix)]
	return p, ok
}

// UnknownError is returned for a "builtin:" argument naming no preset.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

// Load compiles the rules named by arg, either a preset written as
// "builtin:name" or a rule file path.
func Load(arg string) (*rules.Table, *config.Document, error) {
	if !IsPreset(arg) {
		return config.LoadTable(arg)
	}

	p, ok := Lookup(arg)
	if !ok {
		return nil, nil, &UnknownError{Name: strings.TrimPrefix(arg, Prefix)}
	}
	doc := p.Document()
	table, err := doc.Compile()
	if err != nil {
		return nil, doc, err
	}
	return table, doc, nil
}
