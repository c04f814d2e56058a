package txtt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-txtt/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgUnexpectedChar      = "unexpected character"
	ErrMsgUnterminatedElement = "unterminated element"
	ErrMsgInvalidIdentifier   = "invalid identifier"
	ErrMsgInvalidLocale       = "invalid locale"

	// Resolution errors
	ErrMsgMissingKey      = "no content supplied for key"
	ErrMsgMissingOption   = "no choice supplied for option"
	ErrMsgUnknownOption   = "option is not declared in content state"
	ErrMsgUnknownConstant = "constant is not defined in content state"
	ErrMsgUnknownChoice   = "choice is not declared for option"
	ErrMsgUnknownElement  = "unknown element kind"

	// Content errors
	ErrMsgInvalidContent     = "invalid content document"
	ErrMsgContentIdentifier  = "invalid identifier in content document"
	ErrMsgEmptyChoiceName    = "choice name cannot be empty"
	ErrMsgNullKey            = "identifier decodes as YAML null, quote it"
	ErrMsgEmptyChoiceSet     = "option declares no choices"
	ErrMsgReadContentFailed  = "failed to read content document"
	ErrMsgEncodeContentError = "failed to encode content document"
)

// Message formats naming the failing element. The sentinel text follows
// as the wrapped cause.
const (
	ErrFmtElement       = "%s %q at %s"
	ErrFmtChoiceElement = "%s %q, choice %q at %s"
	ErrFmtParseFound    = "found %q at %s"
	ErrFmtParseAt       = "at %s"
)

// Error code constants for categorization
const (
	ErrCodeParse   = "TXTT_PARSE"
	ErrCodeResolve = "TXTT_RESOLVE"
	ErrCodeContent = "TXTT_CONTENT"
)

// Sentinel errors. Every error returned by this package wraps one of them,
// so callers can branch with errors.Is and read details with GetMetadata.
var (
	ErrUnexpectedChar      = errors.New(ErrMsgUnexpectedChar)
	ErrUnterminatedElement = errors.New(ErrMsgUnterminatedElement)
	ErrInvalidIdentifier   = errors.New(ErrMsgInvalidIdentifier)
	ErrInvalidLocale       = errors.New(ErrMsgInvalidLocale)

	ErrMissingKey      = errors.New(ErrMsgMissingKey)
	ErrMissingOption   = errors.New(ErrMsgMissingOption)
	ErrUnknownOption   = errors.New(ErrMsgUnknownOption)
	ErrUnknownConstant = errors.New(ErrMsgUnknownConstant)
	ErrUnknownChoice   = errors.New(ErrMsgUnknownChoice)

	ErrInvalidContent = errors.New(ErrMsgInvalidContent)
)

// Position represents a location in the source template
type Position = internal.Position

// NewParseError converts a parser failure into a categorized error
// carrying the failure kind and source position.
func NewParseError(perr *internal.ParseError) error {
	var sentinel error
	switch perr.Kind {
	case internal.ParseErrorUnterminatedElement:
		sentinel = ErrUnterminatedElement
	case internal.ParseErrorInvalidIdentifier:
		sentinel = ErrInvalidIdentifier
	case internal.ParseErrorInvalidLocale:
		sentinel = ErrInvalidLocale
	default:
		sentinel = ErrUnexpectedChar
	}

	msg := fmt.Sprintf(ErrFmtParseAt, perr.Position)
	if perr.Found != "" {
		msg = fmt.Sprintf(ErrFmtParseFound, perr.Found, perr.Position)
	}
	cause := sentinel
	if perr.Message != "" && perr.Message != sentinel.Error() {
		cause = fmt.Errorf("%w: %s", sentinel, perr.Message)
	}

	return withPosition(cuserr.WrapStdError(cause, ErrCodeParse, msg), perr.Position).
		WithMetadata(MetaKeyKind, perr.Kind.String()).
		WithMetadata(MetaKeyFound, perr.Found)
}

// NewMissingKeyError reports a key with neither volatile content nor a default.
// Suggestions name close identifiers that were supplied instead.
func NewMissingKeyError(id string, pos Position, suggestions ...string) error {
	return newResolutionError(ErrMissingKey, fmt.Sprintf(ErrFmtElement, ElementKindKey, id, pos), id, ElementKindKey, pos, suggestions)
}

// NewMissingOptionError reports an option with neither a choice nor a default
func NewMissingOptionError(id string, pos Position, suggestions ...string) error {
	return newResolutionError(ErrMissingOption, fmt.Sprintf(ErrFmtElement, ElementKindOption, id, pos), id, ElementKindOption, pos, suggestions)
}

// NewUnknownOptionError reports an option absent from the content state
func NewUnknownOptionError(id string, pos Position, suggestions ...string) error {
	return newResolutionError(ErrUnknownOption, fmt.Sprintf(ErrFmtElement, ElementKindOption, id, pos), id, ElementKindOption, pos, suggestions)
}

// NewUnknownConstantError reports a constant absent from the content state
func NewUnknownConstantError(id string, pos Position, suggestions ...string) error {
	return newResolutionError(ErrUnknownConstant, fmt.Sprintf(ErrFmtElement, ElementKindConstant, id, pos), id, ElementKindConstant, pos, suggestions)
}

// NewUnknownChoiceError reports a chosen name that the option does not declare
func NewUnknownChoiceError(id, choice string, pos Position, suggestions ...string) error {
	err := newResolutionError(ErrUnknownChoice, fmt.Sprintf(ErrFmtChoiceElement, ElementKindOption, id, choice, pos), id, ElementKindOption, pos, suggestions)
	var customErr *cuserr.CustomError
	if errors.As(err, &customErr) {
		return customErr.WithMetadata(MetaKeyChoice, choice)
	}
	return err
}

// NewInternalResolutionError reports an element the resolver cannot dispatch
func NewInternalResolutionError(el internal.Element) error {
	return withPosition(cuserr.NewInternalError(ErrCodeResolve, errors.New(ErrMsgUnknownElement)), el.Pos()).
		WithMetadata(MetaKeyElementKind, el.Kind().String())
}

func newResolutionError(sentinel error, msg, id, kind string, pos Position, suggestions []string) error {
	cause := sentinel
	if len(suggestions) > 0 {
		cause = fmt.Errorf("%w%s", sentinel, internal.FormatSuggestions(suggestions))
	}
	err := withPosition(cuserr.WrapStdError(cause, ErrCodeResolve, msg), pos).
		WithMetadata(MetaKeyIdentifier, id).
		WithMetadata(MetaKeyElementKind, kind)
	if len(suggestions) > 0 {
		err = err.WithMetadata(MetaKeySuggestions, strings.Join(suggestions, SuggestionSeparator))
	}
	return err
}

// NewContentIdentifierError reports an invalid identifier in a content document
func NewContentIdentifierError(field, id string) error {
	return cuserr.WrapStdError(ErrInvalidContent, ErrCodeContent, ErrMsgContentIdentifier).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyIdentifier, id)
}

// NewContentError reports a malformed content document
func NewContentError(msg, field, id string) error {
	return cuserr.WrapStdError(ErrInvalidContent, ErrCodeContent, msg).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyIdentifier, id)
}

// NewContentDecodeError wraps a YAML decoding or file read failure
func NewContentDecodeError(msg, path string, cause error) error {
	return cuserr.WrapStdError(errors.Join(ErrInvalidContent, cause), ErrCodeContent, msg).
		WithMetadata(MetaKeyPath, path)
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}
