package grammar

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[File](
	participle.Lexer(RulesLexer),
	participle.Elide("Whitespace", "Comment", "Newline", "EOL"),
	participle.UseLookahead(2),
)

// ParseString parses rule file source. Values are returned with surrounding
// blanks removed.
func ParseString(filename, source string) (*File, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}

	for _, e := range file.Entries {
		switch {
		case e.Operator != nil:
			e.Operator.Lexeme = strings.TrimSpace(e.Operator.Lexeme)
		case e.Directive != nil:
			e.Directive.Value = strings.TrimSpace(e.Directive.Value)
		case e.Rule != nil:
			e.Rule.Pattern = strings.TrimSpace(e.Rule.Pattern)
		}
	}
	return file, nil
}

func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}
