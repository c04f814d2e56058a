package internal

import (
	"strings"
	"unicode/utf8"
)

// Scanner is a single cursor over template source.
// It decodes UTF-8 on the fly and tracks line and column for error reporting.
type Scanner struct {
	source string
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column in runes (1-indexed)
}

// NewScanner creates a scanner positioned at the start of source
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Position returns the current position
func (s *Scanner) Position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// Reset moves the cursor back to a previously recorded position
func (s *Scanner) Reset(pos Position) {
	s.pos = pos.Offset
	s.line = pos.Line
	s.column = pos.Column
}

// IsAtEnd returns true if the source is exhausted
func (s *Scanner) IsAtEnd() bool {
	return s.pos >= len(s.source)
}

// Peek returns the current rune without advancing, or utf8.RuneError at end
func (s *Scanner) Peek() rune {
	if s.IsAtEnd() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.pos:])
	return r
}

// PeekNext returns the rune after the current one without advancing
func (s *Scanner) PeekNext() rune {
	if s.IsAtEnd() {
		return utf8.RuneError
	}
	_, size := utf8.DecodeRuneInString(s.source[s.pos:])
	if s.pos+size >= len(s.source) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.pos+size:])
	return r
}

// Advance consumes and returns the current rune
func (s *Scanner) Advance() rune {
	if s.IsAtEnd() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(s.source[s.pos:])
	s.pos += size
	if r == CharNewline {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

// AdvanceN consumes n runes
func (s *Scanner) AdvanceN(n int) {
	for i := 0; i < n && !s.IsAtEnd(); i++ {
		s.Advance()
	}
}

// MatchStr returns true if the remaining source starts with str
func (s *Scanner) MatchStr(str string) bool {
	return strings.HasPrefix(s.source[s.pos:], str)
}

// TakeWhile consumes runes while pred holds and returns the consumed source.
// The returned string is a slice of the source, so invalid UTF-8 is kept as is.
func (s *Scanner) TakeWhile(pred func(rune) bool) string {
	start := s.pos
	for !s.IsAtEnd() && pred(s.Peek()) {
		s.Advance()
	}
	return s.source[start:s.pos]
}
