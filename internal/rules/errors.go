package rules

import (
	"errors"
	"fmt"
)

// ErrEmptyName is wrapped by a CompilationError for a rule without a name.
var ErrEmptyName = errors.New("rule name is empty")

// CompilationError reports a rule whose pattern could not be compiled.
type CompilationError struct {
	Rule    string
	Pattern string
	Err     error
}

func (e *CompilationError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("unnamed rule %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}
