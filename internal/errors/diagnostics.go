package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"lexgen/internal/config"
	"lexgen/internal/presets"
	"lexgen/internal/rules"
	"lexgen/internal/scanner"
)

// Builder assembles a Diagnostic.
type Builder struct {
	d Diagnostic
}

func NewError(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

func NewWarning(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.d.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, message)
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *Builder) Build() Diagnostic {
	return b.d
}

// UnrecognizedCharacter reports input that no rule matches.
func UnrecognizedCharacter(ch rune, pos Position) Diagnostic {
	return NewError(ErrorUnrecognizedCharacter, fmt.Sprintf("unrecognized character %q", ch), pos).
		WithNote("no rule matches here; the character was skipped").
		Build()
}

// RuleCompilation reports a rule whose pattern does not compile.
func RuleCompilation(err *rules.CompilationError, pos Position) Diagnostic {
	b := NewError(ErrorRuleCompilation, fmt.Sprintf("invalid pattern for rule '%s'", err.Rule), pos).
		WithNote(err.Err.Error())
	if err.Rule == "" {
		b = NewError(ErrorRuleCompilation, "rule without a name", pos)
	}
	return b.Build()
}

// RuleSyntax reports a rule file that cannot be read.
func RuleSyntax(message string, pos Position) Diagnostic {
	return NewError(ErrorRuleSyntax, message, pos).
		WithSuggestion("rules are written as 'name = pattern', one per line").
		Build()
}

// UnknownTokenType reports a token type no rule defines, suggesting close
// matches among known.
func UnknownTokenType(name string, known []string) Diagnostic {
	b := NewError(ErrorUnknownTokenType, fmt.Sprintf("unknown token type '%s'", name), Position{})
	return suggest(b, name, known, "defined types: ").Build()
}

// UnknownPreset reports a "builtin:" rule set that does not exist.
func UnknownPreset(name string, known []string) Diagnostic {
	b := NewError(ErrorUnknownPreset, fmt.Sprintf("unknown preset '%s'", name), Position{})
	return suggest(b, name, known, "available presets: ").Build()
}

func suggest(b *Builder, name string, known []string, listNote string) *Builder {
	similar := SimilarNames(name, known)
	switch len(similar) {
	case 0:
		return b.WithNote(listNote + strings.Join(known, ", "))
	case 1:
		return b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		return b.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
}

// SimilarNames returns the candidates that look like target, closest first.
func SimilarNames(target string, candidates []string) []string {
	type match struct {
		name     string
		distance int
	}

	var matches []match
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(strings.ToLower(target), strings.ToLower(c))
		if d <= 2 || fuzzy.MatchNormalizedFold(target, c) || fuzzy.MatchNormalizedFold(c, target) {
			matches = append(matches, match{name: c, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// FromError converts errors produced by the scanner and the rule loader into
// diagnostics. It reports false for errors it does not know.
func FromError(err error) (Diagnostic, bool) {
	var ue *scanner.UnrecognizedError
	if stderrors.As(err, &ue) {
		return UnrecognizedCharacter(ue.Char, Position{Line: ue.Line + 1, Column: ue.Column + 1}), true
	}

	var pe *presets.UnknownError
	if stderrors.As(err, &pe) {
		return UnknownPreset(pe.Name, presets.Names()), true
	}

	var pos Position
	var ce *config.Error
	if stderrors.As(err, &ce) {
		pos = Position{Line: ce.Line, Column: ce.Column}
	}

	var rce *rules.CompilationError
	if stderrors.As(err, &rce) {
		return RuleCompilation(rce, pos), true
	}

	if ce != nil {
		return RuleSyntax(ce.Err.Error(), pos), true
	}
	return Diagnostic{}, false
}
