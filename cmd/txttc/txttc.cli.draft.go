package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// draftConfig holds parsed draft command configuration
type draftConfig struct {
	sourceFlags
	outputPath string
}

func runDraft(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(CmdNameDraft, pflag.ContinueOnError)
	cfg := &draftConfig{}
	cfg.sourceFlags.register(fs)
	fs.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, "output file")

	help, err := parseFlags(fs, args)
	if help {
		fmt.Fprintln(stdout, HelpDraftUsage)
		return ExitCodeSuccess
	}
	if err == nil {
		err = cfg.sourceFlags.validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	engine, err := newEngine(&cfg.sourceFlags, logger)
	if err != nil {
		return report(stderr, err)
	}
	tmpl, err := loadTemplate(engine, cfg.templatePath, stdin)
	if err != nil {
		return report(stderr, err)
	}
	state, err := loadContentState(context.Background(), &cfg.sourceFlags, logger)
	if err != nil {
		return report(stderr, err)
	}

	data, err := tmpl.Draft(state).YAML()
	if err != nil {
		return report(stderr, newCLIError(ErrMsgDraftFailed, ExitCodeError, err))
	}
	if err := writeOutput(cfg.outputPath, data, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}
