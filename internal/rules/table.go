package rules

import (
	"regexp"
)

type matcher struct {
	name string
	re   *regexp.Regexp
}

// Table is a compiled rule set. It is never mutated after Compile returns and
// may be shared by any number of scanners.
type Table struct {
	rules      []matcher
	index      map[string]int
	whitespace *regexp.Regexp
}

// Compile turns a Spec into a Table. If any pattern fails to compile the
// whole table is rejected with a *CompilationError naming the rule.
func Compile(spec Spec) (*Table, error) {
	t := &Table{index: make(map[string]int, len(spec.Rules))}

	for _, rule := range spec.Rules {
		if rule.Name == "" {
			return nil, &CompilationError{Pattern: rule.Pattern, Err: ErrEmptyName}
		}

		re, err := compileAnchored(rule.Pattern)
		if err != nil {
			return nil, &CompilationError{Rule: rule.Name, Pattern: rule.Pattern, Err: err}
		}

		// A redefined rule keeps its original position.
		if i, ok := t.index[rule.Name]; ok {
			log.Debugf("rule %q redefined, replacing %q with %q", rule.Name, t.rules[i].re.String(), re.String())
			t.rules[i].re = re
			continue
		}

		t.index[rule.Name] = len(t.rules)
		t.rules = append(t.rules, matcher{name: rule.Name, re: re})
	}

	if spec.Whitespace != "" {
		re, err := compileAnchored(spec.Whitespace)
		if err != nil {
			return nil, &CompilationError{Rule: WhitespaceRule, Pattern: spec.Whitespace, Err: err}
		}
		t.whitespace = re
	}

	log.Debugf("compiled %d rules", len(t.rules))
	return t, nil
}

// MustCompile is like Compile but panics on error. Use it for tables built
// from literals.
func MustCompile(spec Spec) *Table {
	t, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return t
}

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	// Validate on its own first so unbalanced groups cannot escape the anchor.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return re, nil
}

// Match finds the rule with the longest non-empty match starting at the
// beginning of input. Equal lengths go to the rule declared first.
func (t *Table) Match(input string) (name string, length int, ok bool) {
	for _, m := range t.rules {
		n := prefixLen(m.re, input)
		if n > length {
			name, length, ok = m.name, n, true
		}
	}
	return name, length, ok
}

// Whitespace returns the length of the whitespace run at the start of input.
func (t *Table) Whitespace(input string) int {
	if t.whitespace == nil {
		return 0
	}
	return prefixLen(t.whitespace, input)
}

func prefixLen(re *regexp.Regexp, input string) int {
	loc := re.FindStringIndex(input)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// Names returns the rule names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rules))
	for i, m := range t.rules {
		names[i] = m.name
	}
	return names
}

// Has reports whether the table defines a rule called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rules, not counting whitespace.
func (t *Table) Len() int {
	return len(t.rules)
}
