package internal

import "fmt"

// ParseErrorKind classifies parse failures
type ParseErrorKind int

// Parse error kinds
const (
	ParseErrorUnexpectedChar ParseErrorKind = iota
	ParseErrorUnterminatedElement
	ParseErrorInvalidIdentifier
	ParseErrorInvalidLocale
)

// String returns the name of the parse error kind
func (k ParseErrorKind) String() string {
	switch k {
	case ParseErrorUnexpectedChar:
		return "UnexpectedChar"
	case ParseErrorUnterminatedElement:
		return "UnterminatedElement"
	case ParseErrorInvalidIdentifier:
		return "InvalidIdentifier"
	case ParseErrorInvalidLocale:
		return "InvalidLocale"
	default:
		return "Unknown"
	}
}

// ParseError represents a terminal parse failure with position
type ParseError struct {
	Kind     ParseErrorKind
	Message  string
	Position Position
	Found    string // Offending text, if any
}

func (e *ParseError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%s %q at %s", e.Message, e.Found, e.Position)
	}
	return e.Message + " at " + e.Position.String()
}

func newParseError(kind ParseErrorKind, msg string, pos Position, found string) *ParseError {
	return &ParseError{
		Kind:     kind,
		Message:  msg,
		Position: pos,
		Found:    found,
	}
}
