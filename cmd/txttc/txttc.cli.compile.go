package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/itsatony/go-txtt"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// compileConfig holds parsed compile command configuration
type compileConfig struct {
	sourceFlags
	contentPath string
	draftPath   string
	outputPath  string
}

func runCompile(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, help, err := parseCompileFlags(args)
	if help {
		fmt.Fprintln(stdout, HelpCompileUsage)
		return ExitCodeSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	result, err := compile(context.Background(), cfg, stdin, stderr, logger)
	if err != nil {
		return report(stderr, err)
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseCompileFlags(args []string) (*compileConfig, bool, error) {
	fs := pflag.NewFlagSet(CmdNameCompile, pflag.ContinueOnError)

	cfg := &compileConfig{}
	cfg.sourceFlags.register(fs)
	fs.StringVarP(&cfg.contentPath, FlagContent, FlagContentShort, "", "volatile content file")
	fs.StringVarP(&cfg.draftPath, FlagDraft, FlagDraftShort, "", "write the draft to this file")
	fs.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")

	help, err := parseFlags(fs, args)
	if help || err != nil {
		return nil, help, err
	}
	if err := cfg.sourceFlags.validate(); err != nil {
		return nil, false, err
	}
	if cfg.contentPath == InputSourceStdin && cfg.templatePath == InputSourceStdin {
		return nil, false, errors.New(ErrMsgStdinTwice)
	}
	return cfg, false, nil
}

// compile parses the template, gathers content and resolves. Without a
// content file the draft is opened in the editor unless nothing is needed.
func compile(ctx context.Context, cfg *compileConfig, stdin io.Reader, stderr io.Writer, logger *zap.Logger) (string, error) {
	engine, err := newEngine(&cfg.sourceFlags, logger)
	if err != nil {
		return "", err
	}
	tmpl, err := loadTemplate(engine, cfg.templatePath, stdin)
	if err != nil {
		return "", err
	}
	state, err := loadContentState(ctx, &cfg.sourceFlags, logger)
	if err != nil {
		return "", err
	}

	content, err := loadContent(cfg, tmpl, state, stdin, stderr, logger)
	if err != nil {
		return "", err
	}

	result, err := tmpl.Resolve(state, content)
	if err != nil {
		return "", newCLIError(ErrMsgResolveFailed, ExitCodeTemplateError, err)
	}
	return result, nil
}

func loadContent(cfg *compileConfig, tmpl *txtt.Template, state *txtt.ContentState, stdin io.Reader, stderr io.Writer, logger *zap.Logger) (*txtt.VolatileContent, error) {
	if cfg.contentPath != "" {
		data, err := readInput(cfg.contentPath, stdin)
		if err != nil {
			return nil, newCLIError(ErrMsgLoadContentFailed, ExitCodeInputError, err)
		}
		content, err := txtt.ParseVolatileContent(data)
		if err != nil {
			return nil, newCLIError(ErrMsgLoadContentFailed, ExitCodeInputError, err)
		}
		return content, nil
	}

	draft := tmpl.Draft(state)
	data, err := draft.YAML()
	if err != nil {
		return nil, newCLIError(ErrMsgDraftFailed, ExitCodeError, err)
	}
	if cfg.draftPath != "" {
		if err := writeOutput(cfg.draftPath, data, stderr); err != nil {
			return nil, newCLIError(ErrMsgDraftFailed, ExitCodeError, err)
		}
	}
	if draft.Empty() {
		return txtt.NewVolatileContent(), nil
	}
	return editDraft(data, stdin, stderr, logger)
}
