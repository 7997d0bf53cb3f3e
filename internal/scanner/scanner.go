// Package scanner turns source text into tokens using a compiled rule table.
//
// The scanner keeps a cursor into an immutable buffer. Each call to Advance
// skips whitespace, picks the rule with the longest anchored match and moves
// the cursor past the lexeme. Peek computes the same result ahead of time and
// caches it; the next Advance returns it from the cache.
package scanner

import (
	"errors"
	"unicode/utf8"

	"lexgen/internal/rules"
	"lexgen/token"
)

// Result is the outcome of one scan step: a token, or an error that is
// either ErrEndOfFile or an *UnrecognizedError.
type Result struct {
	Token token.Token
	Err   error
}

// Scanner produces tokens from one source text. It is not safe for
// concurrent use; Fork gives each consumer its own cursor.
type Scanner struct {
	table *rules.Table
	src   string

	pos  int
	line int
	col  int

	lookahead *Result
	last      *Result
}

// New returns a scanner over src. The table is only read.
func New(table *rules.Table, src string) *Scanner {
	return &Scanner{table: table, src: src}
}

// Advance returns the next token, taking it from the lookahead cache when a
// Peek has already computed it.
func (s *Scanner) Advance() (token.Token, error) {
	var r Result
	if s.lookahead != nil {
		r = *s.lookahead
		s.lookahead = nil
	} else {
		r = s.next()
	}
	s.last = &r
	return r.Token, r.Err
}

// Peek returns the next result without consuming it from the caller's point
// of view: the next Advance returns the same result. The peeked result also
// becomes current. Repeated calls return the same result until Advance is
// called.
func (s *Scanner) Peek() (token.Token, error) {
	if s.lookahead == nil {
		r := s.next()
		s.lookahead = &r
		last := r
		s.last = &last
	}
	return s.lookahead.Token, s.lookahead.Err
}

// Current returns the most recently produced result, from Advance or Peek.
// It reports false before either has been called.
func (s *Scanner) Current() (Result, bool) {
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Done reports whether the whole buffer has been consumed. A pending
// lookahead does not affect it.
func (s *Scanner) Done() bool {
	return s.pos >= len(s.src)
}

// Offset is the byte offset of the cursor.
func (s *Scanner) Offset() int { return s.pos }

// Line is the 0-based line of the cursor.
func (s *Scanner) Line() int { return s.line }

// Remaining returns the unconsumed part of the source.
func (s *Scanner) Remaining() string { return s.src[s.pos:] }

// Fork returns an independent scanner positioned where s is. Both share the
// source buffer and rule table.
func (s *Scanner) Fork() *Scanner {
	c := *s
	return &c
}

func (s *Scanner) next() Result {
	s.skipWhitespace()
	if s.Done() {
		return Result{Err: ErrEndOfFile}
	}

	line, col, start := s.line, s.col, s.pos
	rest := s.src[s.pos:]

	name, n, ok := s.table.Match(rest)
	if !ok {
		// Consume exactly one character so a retry makes progress.
		ch, size := utf8.DecodeRuneInString(rest)
		s.consume(size)
		return Result{Err: &UnrecognizedError{Char: ch, Line: line, Column: col, Offset: start}}
	}

	s.consume(n)
	return Result{Token: token.Token{
		Type:   token.Type(name),
		Value:  rest[:n],
		Line:   line,
		Column: col,
		Offset: start,
	}}
}

func (s *Scanner) skipWhitespace() {
	for !s.Done() {
		n := s.table.Whitespace(s.src[s.pos:])
		if n == 0 {
			return
		}
		s.consume(n)
	}
}

func (s *Scanner) consume(n int) {
	for _, ch := range s.src[s.pos : s.pos+n] {
		if ch == '\n' {
			s.line++
			s.col = 0
		} else {
			s.col++
		}
	}
	s.pos += n
}

// Tokenize scans src to the end, collecting tokens and the errors for any
// unrecognized characters.
func Tokenize(table *rules.Table, src string) ([]token.Token, []error) {
	var (
		tokens []token.Token
		errs   []error
	)

	s := New(table, src)
	for {
		tok, err := s.Advance()
		if errors.Is(err, ErrEndOfFile) {
			return tokens, errs
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
	}
}
