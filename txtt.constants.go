package txtt

import "github.com/itsatony/go-txtt/internal"

// Template defaults
const (
	// DefaultLocale is the locale used when a template has no locale header.
	DefaultLocale = internal.DefaultLocale
	// LocaleKeyword starts the optional locale header line.
	LocaleKeyword = internal.LocaleKeyword
)

// Element kind names, as reported in error metadata
const (
	ElementKindText     = internal.ElementKindNameText
	ElementKindKey      = internal.ElementKindNameKey
	ElementKindOption   = internal.ElementKindNameOption
	ElementKindConstant = internal.ElementKindNameConstant
	ElementKindMeta     = "meta"
)

// Error metadata keys
const (
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeyKind        = "kind"
	MetaKeyFound       = "found"
	MetaKeyIdentifier  = "identifier"
	MetaKeyElementKind = "element_kind"
	MetaKeyChoice      = "choice"
	MetaKeyPath        = "path"
	MetaKeyField       = "field"
	MetaKeySuggestions = "suggestions"
)

// yamlNullTag is the resolved tag of a YAML null scalar.
const yamlNullTag = "!!null"

// SuggestionSeparator joins suggested identifiers in error metadata.
const SuggestionSeparator = ","

// Log message constants
const (
	LogMsgEngineCreated   = "engine created"
	LogMsgParseStart      = "parsing template"
	LogMsgParseEnd        = "template parsed"
	LogMsgParseFailed     = "template parse failed"
	LogMsgResolveStart    = "resolving template"
	LogMsgResolveEnd      = "template resolved"
	LogMsgResolveFailed   = "template resolution failed"
	LogMsgMetaResolved    = "meta-constant resolved"
	LogMsgDraftStart      = "drafting volatile content"
	LogMsgDraftEnd        = "draft complete"
	LogMsgUnknownOption   = "option referenced by template is not declared"
	LogMsgTranslatorLoad  = "meta translation catalogue loaded"
	LogMsgTranslatorError = "meta translation lookup failed"
)

// Log field names
const (
	LogFieldElements   = "element_count"
	LogFieldLocale     = "locale"
	LogFieldIdentifier = "identifier"
	LogFieldIgnoreDyn  = "ignore_dynamic"
	LogFieldOutputLen  = "output_length"
	LogFieldKeys       = "key_count"
	LogFieldOptions    = "option_count"
	LogFieldFile       = "file"
)

// Content document field names
const (
	FieldConstants = "constants"
	FieldOptions   = "options"
	FieldKeys      = "keys"
	FieldChoices   = "choices"
)

// Draft document comments
const (
	DraftCommentKeysHeader    = "# <key>: <content>"
	DraftCommentChoicesHeader = "# <option>: <choice>"
	DraftCommentDefaultFmt    = "# default: %q"
	DraftCommentNoDefault     = "# no default"
	DraftCommentUndeclared    = "# not declared in content state"
	DraftCommentChoicesIntro  = "# available choices:"
	DraftCommentChoiceFmt     = "# %s: %s%s# -> %q"
	DraftPreviewMaxLen        = 31
	DraftPreviewSuffix        = "..."
	DraftPreviewPadding       = 4
	DraftYAMLIndent           = 2
)
