// Package config loads rule files into rule specs.
//
// Three formats are accepted, chosen by file extension: the line based
// ".lex" format handled by package grammar, JSON and YAML. Besides plain
// rules every format may list keywords and operators; these are turned into
// ordinary rules declared ahead of the file's own rules so that they win ties
// against, for example, an identifier rule.
package config

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tliron/commonlog"

	"lexgen/internal/rules"
)

// KeywordRule is the token type given to every keyword.
const KeywordRule = "keyword"

var log = commonlog.GetLogger("lexgen.config")

type Format int

const (
	FormatLex Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "lex"
	}
}

// FormatOf picks the format for path from its extension. Unknown extensions
// are read as ".lex".
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLex
	}
}

// Operator maps one literal lexeme to a token type.
type Operator struct {
	Name   string
	Lexeme string
}

// Document is a rule file after parsing and before compilation.
type Document struct {
	Path       string
	Format     Format
	Whitespace string
	Keywords   []string
	Operators  []Operator
	Rules      []rules.Rule

	// 1-based line where each rule was defined, when the format reports it.
	lines map[string]int
}

func newDocument(path string, format Format) *Document {
	return &Document{Path: path, Format: format, lines: make(map[string]int)}
}

func (d *Document) define(name string, line int) {
	if line <= 0 {
		return
	}
	if _, ok := d.lines[name]; !ok {
		d.lines[name] = line
	}
}

// Line returns the line a rule (or "whitespace", or "keyword") was defined on.
func (d *Document) Line(name string) (int, bool) {
	line, ok := d.lines[name]
	return line, ok
}

// Spec assembles the rule spec: the keyword rule first, then one rule per
// operator name, then the file's rules in file order.
func (d *Document) Spec() rules.Spec {
	spec := rules.Spec{Whitespace: d.Whitespace}

	if len(d.Keywords) > 0 {
		spec.Add(KeywordRule, literals(d.Keywords))
		log.Debugf("%s: %d keywords", d.Path, len(d.Keywords))
	}

	var names []string
	lexemes := make(map[string][]string)
	for _, op := range d.Operators {
		if _, ok := lexemes[op.Name]; !ok {
			names = append(names, op.Name)
		}
		lexemes[op.Name] = append(lexemes[op.Name], op.Lexeme)
	}
	for _, name := range names {
		spec.Add(name, literals(lexemes[name]))
	}

	spec.Rules = append(spec.Rules, d.Rules...)
	return spec
}

// Compile builds the rule table. A bad pattern is reported as an *Error
// pointing at the line that defined it.
func (d *Document) Compile() (*rules.Table, error) {
	table, err := rules.Compile(d.Spec())
	if err != nil {
		e := &Error{Path: d.Path, Err: err}
		var ce *rules.CompilationError
		if errors.As(err, &ce) {
			e.Line, _ = d.Line(ce.Rule)
		}
		return nil, e
	}
	return table, nil
}

func literals(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
