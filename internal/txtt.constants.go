package internal

// ElementKind identifies the variant of a template element
type ElementKind int

// Element kind constants
const (
	ElementKindText ElementKind = iota
	ElementKindKey
	ElementKindOption
	ElementKindConstant
)

// Element kind names used in errors, logs and debug output
const (
	ElementKindNameText     = "text"
	ElementKindNameKey      = "key"
	ElementKindNameOption   = "option"
	ElementKindNameConstant = "constant"
)

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	switch k {
	case ElementKindText:
		return ElementKindNameText
	case ElementKindKey:
		return ElementKindNameKey
	case ElementKindOption:
		return ElementKindNameOption
	case ElementKindConstant:
		return ElementKindNameConstant
	default:
		return ElementKindNameText
	}
}

// Reserved scalars of the template grammar
const (
	CharKeyOpen      = '{'
	CharElementClose = '}'
	CharDollar       = '$'
	CharDefaultSep   = ':'
	CharNewline      = '\n'
	CharLocaleSubSep = '-'
	CharLocaleAltSep = '_'
)

// Locale header constants
const (
	LocaleKeyword = "locale"
	DefaultLocale = "en-US"
)

// Display limits for String() output
const (
	MaxStringDisplayLength = 50
	TruncatedStringLength  = 47
	TruncationSuffix       = "..."
)

// Log message constants
const (
	LogMsgParserCreated = "parser created"
	LogMsgParserStart   = "starting parse"
	LogMsgParserEnd     = "parse complete"
	LogMsgLocaleFound   = "locale header found"
	LogMsgLocaleDefault = "no locale header, using default"
)

// Log field names
const (
	LogFieldSource   = "source_length"
	LogFieldElements = "element_count"
	LogFieldLocale   = "locale"
)

// Parse error messages
const (
	ErrMsgUnexpectedChar      = "unexpected character"
	ErrMsgUnterminatedElement = "unterminated element"
	ErrMsgInvalidIdentifier   = "invalid identifier"
	ErrMsgInvalidLocale       = "invalid locale"
	ErrMsgMissingLocaleEnd    = "locale header must end with a newline"
	ErrMsgStrayClose          = "closing brace outside of an element"
	ErrMsgExpectedClose       = "expected closing brace after default"
	ErrMsgEmptyDefault        = "default must contain an element"
)
