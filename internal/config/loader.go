package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"gopkg.in/yaml.v3"

	"lexgen/grammar"
	"lexgen/internal/rules"
)

// Load reads and parses the rule file at path.
func Load(path string) (*Document, error) {
	format := FormatOf(path)
	if format == FormatLex {
		log.Debugf("loading %s as %s", path, format)
		file, err := grammar.ParseFile(path)
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return lexDocument(path, file, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(path, data, format)
}

// LoadTable loads and compiles the rule file at path.
func LoadTable(path string) (*rules.Table, *Document, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	table, err := doc.Compile()
	if err != nil {
		return nil, doc, err
	}
	return table, doc, nil
}

// Parse decodes rule file data. path is only used for messages.
func Parse(path string, data []byte, format Format) (*Document, error) {
	log.Debugf("loading %s as %s", path, format)

	switch format {
	case FormatJSON:
		return parseJSON(path, data)
	case FormatYAML:
		return parseYAML(path, data)
	default:
		return parseLex(path, data)
	}
}

func parseLex(path string, data []byte) (*Document, error) {
	file, err := grammar.ParseString(path, string(data))
	return lexDocument(path, file, err)
}

// lexDocument builds a document from a parsed ".lex" file, turning a parse
// error into an *Error.
func lexDocument(path string, file *grammar.File, err error) (*Document, error) {
	if err != nil {
		var pe participle.Error
		if errors.As(err, &pe) {
			pos := pe.Position()
			return nil, &Error{Path: path, Line: pos.Line, Column: pos.Column, Err: errors.New(pe.Message())}
		}
		return nil, &Error{Path: path, Err: err}
	}

	doc := newDocument(path, FormatLex)
	for _, e := range file.Entries {
		switch {
		case e.Operator != nil:
			doc.Operators = append(doc.Operators, Operator{Name: e.Operator.Name, Lexeme: e.Operator.Lexeme})
			doc.define(e.Operator.Name, e.Operator.Pos.Line)

		case e.Directive != nil:
			d := e.Directive
			switch d.Key {
			case "%whitespace":
				doc.Whitespace = d.Value
				doc.define(rules.WhitespaceRule, d.Pos.Line)
			case "%keywords":
				doc.Keywords = append(doc.Keywords, strings.Fields(d.Value)...)
				doc.define(KeywordRule, d.Pos.Line)
			default:
				return nil, &Error{
					Path:   path,
					Line:   d.Pos.Line,
					Column: d.Pos.Column,
					Err:    fmt.Errorf("%w %s", ErrUnknownDirective, d.Key),
				}
			}

		case e.Rule != nil:
			doc.Rules = append(doc.Rules, rules.Rule{Name: e.Rule.Name, Pattern: e.Rule.Pattern})
			doc.define(e.Rule.Name, e.Rule.Pos.Line)
		}
	}
	return doc, nil
}

// ruleFile is the JSON and YAML shape of a rule file.
type ruleFile struct {
	Whitespace string            `json:"whitespace" yaml:"whitespace"`
	Keywords   []string          `json:"keywords" yaml:"keywords"`
	Operators  map[string]string `json:"operators" yaml:"operators"`
	Rules      ruleList          `json:"rules" yaml:"rules"`
}

type ruleEntry struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	line    int
}

// ruleList accepts either a list of {name, pattern} objects, which keeps
// the file's order, or a name to pattern object. JSON objects are ordered
// by name; YAML mappings keep document order.
type ruleList []ruleEntry

func (l *ruleList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		for _, r := range rules.FromMap(m, "").Rules {
			*l = append(*l, ruleEntry{Name: r.Name, Pattern: r.Pattern})
		}
		return nil
	}

	var entries []ruleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = entries
	return nil
}

func (l *ruleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			var r ruleEntry
			if err := item.Decode(&r); err != nil {
				return err
			}
			r.line = item.Line
			*l = append(*l, r)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: pattern for %q must be a string", value.Line, key.Value)
			}
			*l = append(*l, ruleEntry{Name: key.Value, Pattern: value.Value, line: key.Line})
		}
	default:
		return fmt.Errorf("line %d: rules must be a sequence or a mapping", node.Line)
	}
	return nil
}

func parseJSON(path string, data []byte) (*Document, error) {
	var f ruleFile
	if err := json.Unmarshal(data, &f); err != nil {
		e := &Error{Path: path, Err: err}

		var se *json.SyntaxError
		var te *json.UnmarshalTypeError
		switch {
		case errors.As(err, &se):
			e.Line, e.Column = position(data, se.Offset)
		case errors.As(err, &te):
			e.Line, e.Column = position(data, te.Offset)
		}
		return nil, e
	}
	return f.document(path, FormatJSON), nil
}

func parseYAML(path string, data []byte) (*Document, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return f.document(path, FormatYAML), nil
}

func (f *ruleFile) document(path string, format Format) *Document {
	doc := newDocument(path, format)
	doc.Whitespace = f.Whitespace
	doc.Keywords = f.Keywords

	lexemes := make([]string, 0, len(f.Operators))
	for lexeme := range f.Operators {
		lexemes = append(lexemes, lexeme)
	}
	sort.Strings(lexemes)
	for _, lexeme := range lexemes {
		doc.Operators = append(doc.Operators, Operator{Name: f.Operators[lexeme], Lexeme: lexeme})
	}

	for _, r := range f.Rules {
		doc.Rules = append(doc.Rules, rules.Rule{Name: r.Name, Pattern: r.Pattern})
		doc.define(r.Name, r.line)
	}
	return doc
}
