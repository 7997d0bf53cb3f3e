// Package rules compiles declarative lexer rules into a Table of anchored
// matchers.
package rules

import (
	"sort"

	"github.com/tliron/commonlog"
)

// WhitespaceRule is the name reported for errors in the whitespace pattern.
const WhitespaceRule = "whitespace"

var log = commonlog.GetLogger("lexgen.rules")

// Rule is a named pattern. The pattern uses Go regexp (RE2) syntax.
type Rule struct {
	Name    string
	Pattern string
}

// Spec is an uncompiled rule table. Rule order decides ties between rules
// that match the same number of bytes: the earlier rule wins.
type Spec struct {
	Rules      []Rule
	Whitespace string
}

// FromMap builds a Spec from an unordered mapping. Rules are ordered by name
// so the resulting table tokenizes ambiguous input the same way every time.
func FromMap(patterns map[string]string, whitespace string) Spec {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	spec := Spec{Whitespace: whitespace}
	for _, name := range names {
		spec.Rules = append(spec.Rules, Rule{Name: name, Pattern: patterns[name]})
	}
	return spec
}

// Add appends a rule to the spec.
func (s *Spec) Add(name, pattern string) {
	s.Rules = append(s.Rules, Rule{Name: name, Pattern: pattern})
}
