package main

// Command names
const (
	CmdNameCompile  = "compile"
	CmdNameDraft    = "draft"
	CmdNameValidate = "validate"
	CmdNameState    = "state"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// State subcommand names
const (
	StateCmdList   = "list"
	StateCmdShow   = "show"
	StateCmdSave   = "save"
	StateCmdDelete = "delete"
)

// Flag names - long form
const (
	FlagTemplate     = "template"
	FlagContentState = "content-state"
	FlagContent      = "content"
	FlagDraft        = "draft"
	FlagIgnoreDyn    = "ignore-dyn"
	FlagOutput       = "output"
	FlagStore        = "store"
	FlagStoreDSN     = "store-dsn"
	FlagState        = "state"
	FlagFile         = "file"
	FlagFormat       = "format"
	FlagVerbose      = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort     = "t"
	FlagContentStateShort = "C"
	FlagContentShort      = "c"
	FlagDraftShort        = "d"
	FlagIgnoreDynShort    = "i"
	FlagOutputShort       = "o"
	FlagStateShort        = "s"
	FlagFileShort         = "f"
	FlagFormatShort       = "F"
	FlagVerboseShort      = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Environment variables
const (
	EnvContentStateFile = "TEMPLATE_CONTENT_STATE_FILE"
	EnvEditor           = "EDITOR"
	EnvStore            = "TXTT_STORE"
	EnvStoreDSN         = "TXTT_STORE_DSN"
	EnvHome             = "HOME"
)

// Configuration defaults
const (
	DefaultEditor           = "nano"
	DefaultContentStateFile = ".template_content_state.yaml"
	DefaultStoreDir         = ".txtt/states"
	DraftFileName           = "content.yaml"
	DraftDirPattern         = "txttc-*"
)

// Exit codes
const (
	ExitCodeSuccess       = 0
	ExitCodeError         = 1
	ExitCodeUsageError    = 2
	ExitCodeTemplateError = 3
	ExitCodeInputError    = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgUnknownStateCommand = "unknown state command"
	ErrMsgInvalidFlags        = "invalid arguments"
	ErrMsgMissingTemplate     = "template file required"
	ErrMsgMissingStateName    = "content state name required"
	ErrMsgMissingStateFile    = "content state file required"
	ErrMsgConflictingState    = "--content-state and --state are mutually exclusive"
	ErrMsgStdinTwice          = "template and content cannot both be read from stdin"
	ErrMsgReadTemplateFailed  = "failed to read template"
	ErrMsgParseTemplateFailed = "template parsing failed"
	ErrMsgResolveFailed       = "template resolution failed"
	ErrMsgLoadStateFailed     = "failed to load content state"
	ErrMsgLoadContentFailed   = "failed to load content"
	ErrMsgStorageFailed       = "content state storage failed"
	ErrMsgDraftFailed         = "failed to write draft"
	ErrMsgEditorFailed        = "editor failed"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgEncodeJSONFailed    = "failed to encode JSON output"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgEngineFailed        = "failed to create engine"
	ErrMsgNoHome              = "cannot determine home directory"
)

// Help text templates
const (
	HelpMainUsage = `txttc - txtt template compiler

Usage:
    txttc <command> [options]

Commands:
    compile     Fill out a template and print the result
    draft       Print the content draft for a template
    validate    Parse a template and report what it needs
    state       Manage stored content states
    version     Show version information
    help        Show help for a command

Environment:
    TEMPLATE_CONTENT_STATE_FILE   Content state file (default: ~/.template_content_state.yaml)
    EDITOR                        Editor for drafts (default: nano)
    TXTT_STORE, TXTT_STORE_DSN    Content state storage (default: filesystem, ~/.txtt/states)

A .env file in the working directory is loaded when present.

Use "txttc help <command>" for more information about a command.`

	HelpCompileUsage = `Fill out a template and print the result

Usage:
    txttc compile [options]

Options:
    -t, --template <file>        Template file (use "-" for stdin)
    -C, --content-state <file>   Content state file
    -s, --state <name>           Stored content state to use instead of a file
        --store <driver>         Storage driver: memory, filesystem, postgres
        --store-dsn <dsn>        Storage connection string
    -c, --content <file>         Volatile content file; without it a draft is
                                 opened in $EDITOR
    -d, --draft <file>           Also write the draft to this file
    -i, --ignore-dyn             Treat meta-constants as ordinary constants
    -o, --output <file>          Output file (default: stdout)
    -v, --verbose                Debug logging on stderr

Examples:
    txttc compile -t letter.txtt -c content.yaml
    txttc compile -t letter.txtt -C work.yaml
    txttc compile -t letter.txtt --state work -c content.yaml -o letter.txt`

	HelpDraftUsage = `Print the content draft for a template

Usage:
    txttc draft [options]

Options:
    -t, --template <file>        Template file (use "-" for stdin)
    -C, --content-state <file>   Content state file
    -s, --state <name>           Stored content state to use instead of a file
        --store <driver>         Storage driver
        --store-dsn <dsn>        Storage connection string
    -i, --ignore-dyn             Treat meta-constants as ordinary constants
    -o, --output <file>          Output file (default: stdout)

Examples:
    txttc draft -t letter.txtt > content.yaml`

	HelpValidateUsage = `Parse a template and report what it needs

Usage:
    txttc validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    txttc validate -t letter.txtt
    cat letter.txtt | txttc validate -t - -F json`

	HelpStateUsage = `Manage stored content states

Usage:
    txttc state list
    txttc state show <name>
    txttc state save <name> -f <file>
    txttc state delete <name>

Options:
        --store <driver>    Storage driver: memory, filesystem, postgres
        --store-dsn <dsn>   Storage connection string
    -f, --file <file>       Content state file to save (use "-" for stdin)
    -v, --verbose           Debug logging to stderr`

	HelpVersionUsage = `Show version information

Usage:
    txttc version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    txttc help [command]`
)

// Output templates
const (
	VersionTextTemplate    = "txttc version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown         = "unknown"
	ValidationTextSuccess  = "Template is valid"
	ValidationTextLocale   = "Locale: %s"
	ValidationTextListFmt  = "%s: %s"
	ValidationTextNone     = "-"
	ValidationLabelKeys    = "Keys"
	ValidationLabelOptions = "Options"
	ValidationLabelConsts  = "Constants"
	ValidationLabelMeta    = "Meta-constants"
	StateTextSaved         = "saved content state %q"
	StateTextDeleted       = "deleted content state %q"
	ListSeparator          = ", "
)

// CLI metadata
const (
	CLIName          = "txttc"
	VersionsFileName = "versions.yaml"
	DotEnvFileName   = ".env"
)

// Log messages
const (
	LogMsgLoadStateFile = "loading content state file"
	LogMsgNoStateFile   = "default content state file missing, using empty state"
	LogMsgOpenEditor    = "opening draft in editor"
	LogMsgDraftRead     = "draft read back"
	LogMsgOpenStore     = "opened content state store"
)

// Log field names
const (
	LogFieldEditor = "editor"
	LogFieldDriver = "driver"
	LogFieldRoot   = "root"
)

// File permission constants
const (
	FilePermissions = 0o644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
)
