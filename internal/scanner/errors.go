package scanner

import (
	"errors"
	"fmt"
)

// ErrEndOfFile is returned when a token is requested past the end of input.
var ErrEndOfFile = errors.New("end of file")

// UnrecognizedError reports a character that no rule matches. The character
// has already been consumed when the error is returned.
type UnrecognizedError struct {
	Char   rune
	Line   int
	Column int
	Offset int
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("%d:%d: unrecognized character %q", e.Line+1, e.Column+1, e.Char)
}
