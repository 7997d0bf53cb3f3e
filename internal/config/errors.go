package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDirective = errors.New("unknown directive")

// Error is a problem in a rule file. Line and Column are 1-based; zero means
// the position is unknown.
type Error struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// position converts a byte offset in data to a 1-based line and column.
func position(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := string(data[:offset])
	line = strings.Count(before, "\n") + 1
	column = int(offset) - strings.LastIndex(before, "\n")
	return line, column
}
