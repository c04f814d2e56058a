package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-txtt"
	"github.com/spf13/pflag"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	templatePath string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid        bool     `json:"valid"`
	Locale       string   `json:"locale,omitempty"`
	LocaleHeader bool     `json:"locale_header"`
	Keys         []string `json:"keys"`
	Options      []string `json:"options"`
	Constants    []string `json:"constants"`
	Meta         []string `json:"meta"`
	Error        string   `json:"error,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, help, err := parseValidateFlags(args)
	if help {
		fmt.Fprintln(stdout, HelpValidateUsage)
		return ExitCodeSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadTemplateFailed, err)
		return ExitCodeInputError
	}

	engine, err := txtt.New()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	tmpl, parseErr := engine.Parse(string(source))

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(tmpl, parseErr, stdout, stderr)
	}
	if parseErr != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseTemplateFailed, parseErr)
		return ExitCodeTemplateError
	}
	return outputValidationText(tmpl, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, bool, error) {
	fs := pflag.NewFlagSet(CmdNameValidate, pflag.ContinueOnError)

	cfg := &validateConfig{}
	fs.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", "template file")
	fs.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format")

	help, err := parseFlags(fs, args)
	if help || err != nil {
		return nil, help, err
	}
	if cfg.templatePath == "" {
		return nil, false, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, false, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, false, nil
}

func outputValidationText(tmpl *txtt.Template, stdout io.Writer) int {
	req := tmpl.Requirements()

	fmt.Fprintln(stdout, ValidationTextSuccess)
	fmt.Fprintf(stdout, ValidationTextLocale+FmtNewline, tmpl.LocaleString())
	for _, line := range []struct {
		label string
		ids   []string
	}{
		{ValidationLabelKeys, req.Keys},
		{ValidationLabelOptions, req.Options},
		{ValidationLabelConsts, req.Constants},
		{ValidationLabelMeta, req.Meta},
	} {
		list := ValidationTextNone
		if len(line.ids) > 0 {
			list = strings.Join(line.ids, ListSeparator)
		}
		fmt.Fprintf(stdout, ValidationTextListFmt+FmtNewline, line.label, list)
	}
	return ExitCodeSuccess
}

func outputValidationJSON(tmpl *txtt.Template, parseErr error, stdout, stderr io.Writer) int {
	output := validationOutput{
		Keys:      []string{},
		Options:   []string{},
		Constants: []string{},
		Meta:      []string{},
	}
	code := ExitCodeSuccess

	if parseErr != nil {
		output.Error = parseErr.Error()
		code = ExitCodeTemplateError
	} else {
		req := tmpl.Requirements()
		output.Valid = true
		output.Locale = tmpl.LocaleString()
		output.LocaleHeader = tmpl.HasLocaleHeader()
		output.Keys = nonNil(req.Keys)
		output.Options = nonNil(req.Options)
		output.Constants = nonNil(req.Constants)
		output.Meta = nonNil(req.Meta)
	}

	if exit := writeJSON(output, stdout, stderr); exit != ExitCodeSuccess {
		return exit
	}
	return code
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
