package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/itsatony/go-txtt"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliError carries the message and exit code a command fails with.
type cliError struct {
	msg  string
	code int
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

func newCLIError(msg string, code int, err error) *cliError {
	return &cliError{msg: msg, code: code, err: err}
}

// report prints err to stderr and returns its exit code.
func report(stderr io.Writer, err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		if ce.err == nil {
			fmt.Fprintln(stderr, ce.msg)
		} else {
			fmt.Fprintf(stderr, FmtErrorWithCause, ce.msg, ce.err)
		}
		return ce.code
	}
	fmt.Fprintln(stderr, err)
	return ExitCodeError
}

// storeFlags select a content state storage backend.
type storeFlags struct {
	driver  string
	dsn     string
	verbose bool
}

func (f *storeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.driver, FlagStore, "", "content state storage driver")
	fs.StringVar(&f.dsn, FlagStoreDSN, "", "content state storage connection string")
	fs.BoolVarP(&f.verbose, FlagVerbose, FlagVerboseShort, false, "debug logging")
}

// open falls back to TXTT_STORE and TXTT_STORE_DSN, then to a filesystem
// store under the home directory.
func (f *storeFlags) open(logger *zap.Logger) (txtt.ContentStateStorage, error) {
	driver := firstNonEmpty(f.driver, os.Getenv(EnvStore), txtt.StorageDriverNameFilesystem)
	dsn := firstNonEmpty(f.dsn, os.Getenv(EnvStoreDSN))
	if dsn == "" && driver == txtt.StorageDriverNameFilesystem {
		home, err := homeDir()
		if err != nil {
			return nil, err
		}
		dsn = filepath.Join(home, DefaultStoreDir)
	}

	storage, err := txtt.OpenStorage(driver, dsn)
	if err != nil {
		return nil, newCLIError(ErrMsgStorageFailed, ExitCodeInputError, err)
	}

	fields := []zap.Field{zap.String(LogFieldDriver, driver)}
	if fsStorage, ok := storage.(*txtt.FilesystemStorage); ok {
		fields = append(fields, zap.String(LogFieldRoot, fsStorage.Root()))
	}
	logger.Debug(LogMsgOpenStore, fields...)
	return storage, nil
}

// sourceFlags are shared by the commands that read a template together
// with a content state.
type sourceFlags struct {
	storeFlags
	templatePath     string
	contentStatePath string
	stateName        string
	ignoreDyn        bool
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	f.storeFlags.register(fs)
	fs.StringVarP(&f.templatePath, FlagTemplate, FlagTemplateShort, "", "template file")
	fs.StringVarP(&f.contentStatePath, FlagContentState, FlagContentStateShort, "", "content state file")
	fs.StringVarP(&f.stateName, FlagState, FlagStateShort, "", "stored content state name")
	fs.BoolVarP(&f.ignoreDyn, FlagIgnoreDyn, FlagIgnoreDynShort, false, "treat meta-constants as constants")
}

func (f *sourceFlags) validate() error {
	if f.templatePath == "" {
		return errors.New(ErrMsgMissingTemplate)
	}
	if f.contentStatePath != "" && f.stateName != "" {
		return errors.New(ErrMsgConflictingState)
	}
	return nil
}

// newLogger writes human-readable debug logs to stderr when verbose is set.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

func newEngine(f *sourceFlags, logger *zap.Logger) (*txtt.Engine, error) {
	engine, err := txtt.New(
		txtt.WithLogger(logger),
		txtt.WithIgnoreDynamic(f.ignoreDyn),
	)
	if err != nil {
		return nil, newCLIError(ErrMsgEngineFailed, ExitCodeError, err)
	}
	return engine, nil
}

func loadTemplate(engine *txtt.Engine, path string, stdin io.Reader) (*txtt.Template, error) {
	source, err := readInput(path, stdin)
	if err != nil {
		return nil, newCLIError(ErrMsgReadTemplateFailed, ExitCodeInputError, err)
	}
	tmpl, err := engine.Parse(string(source))
	if err != nil {
		return nil, newCLIError(ErrMsgParseTemplateFailed, ExitCodeTemplateError, err)
	}
	return tmpl, nil
}

// loadContentState picks the content state in this order: --content-state,
// --state from storage, $TEMPLATE_CONTENT_STATE_FILE, then the default file
// in the home directory. Only the default file may be missing, in which case
// the state is empty.
func loadContentState(ctx context.Context, f *sourceFlags, logger *zap.Logger) (*txtt.ContentState, error) {
	switch {
	case f.contentStatePath != "":
		return loadStateFile(f.contentStatePath, logger)
	case f.stateName != "":
		return loadStoredState(ctx, f, logger)
	}

	if path := os.Getenv(EnvContentStateFile); path != "" {
		return loadStateFile(path, logger)
	}

	home, err := homeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, DefaultContentStateFile)
	state, err := loadStateFile(path, logger)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug(LogMsgNoStateFile, zap.String(txtt.LogFieldFile, path))
		return txtt.NewContentState(), nil
	}
	return state, err
}

func loadStateFile(path string, logger *zap.Logger) (*txtt.ContentState, error) {
	logger.Debug(LogMsgLoadStateFile, zap.String(txtt.LogFieldFile, path))
	state, err := txtt.LoadContentStateFile(path)
	if err != nil {
		return nil, newCLIError(ErrMsgLoadStateFailed, ExitCodeInputError, err)
	}
	return state, nil
}

func loadStoredState(ctx context.Context, f *sourceFlags, logger *zap.Logger) (*txtt.ContentState, error) {
	storage, err := f.open(logger)
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	stored, err := storage.Get(ctx, f.stateName)
	if err != nil {
		return nil, newCLIError(ErrMsgLoadStateFailed, ExitCodeInputError, err)
	}
	return stored.State, nil
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", newCLIError(ErrMsgNoHome, ExitCodeError, err)
	}
	return home, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseFlags parses args and reports whether help was requested.
func parseFlags(fs *pflag.FlagSet, args []string) (bool, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
