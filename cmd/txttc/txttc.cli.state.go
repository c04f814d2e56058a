package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/itsatony/go-txtt"
	"github.com/spf13/pflag"
)

// stateConfig holds parsed state command configuration
type stateConfig struct {
	storeFlags
	action   string
	name     string
	filePath string
}

func runState(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, help, err := parseStateFlags(args)
	if help {
		fmt.Fprintln(stdout, HelpStateUsage)
		return ExitCodeSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		fmt.Fprintln(stderr, HelpStateUsage)
		return ExitCodeUsageError
	}

	storage, err := cfg.open(newLogger(cfg.verbose, stderr))
	if err != nil {
		return report(stderr, err)
	}
	defer storage.Close()

	ctx := context.Background()
	switch cfg.action {
	case StateCmdList:
		err = listStates(ctx, storage, stdout)
	case StateCmdShow:
		err = showState(ctx, storage, cfg.name, stdout)
	case StateCmdSave:
		err = saveState(ctx, storage, cfg, stdin, stdout)
	case StateCmdDelete:
		err = deleteState(ctx, storage, cfg.name, stdout)
	}
	if err != nil {
		return report(stderr, err)
	}
	return ExitCodeSuccess
}

func parseStateFlags(args []string) (*stateConfig, bool, error) {
	fs := pflag.NewFlagSet(CmdNameState, pflag.ContinueOnError)

	cfg := &stateConfig{}
	cfg.storeFlags.register(fs)
	fs.StringVarP(&cfg.filePath, FlagFile, FlagFileShort, "", "content state file")

	help, err := parseFlags(fs, args)
	if help || err != nil {
		return nil, help, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, false, errors.New(ErrMsgUnknownStateCommand)
	}
	cfg.action = rest[0]
	if len(rest) > 1 {
		cfg.name = rest[1]
	}

	switch cfg.action {
	case StateCmdList:
	case StateCmdShow, StateCmdDelete:
		if cfg.name == "" {
			return nil, false, errors.New(ErrMsgMissingStateName)
		}
	case StateCmdSave:
		if cfg.name == "" {
			return nil, false, errors.New(ErrMsgMissingStateName)
		}
		if cfg.filePath == "" {
			return nil, false, errors.New(ErrMsgMissingStateFile)
		}
	default:
		return nil, false, fmt.Errorf("%s: %s", ErrMsgUnknownStateCommand, cfg.action)
	}
	return cfg, false, nil
}

func listStates(ctx context.Context, storage txtt.ContentStateStorage, stdout io.Writer) error {
	names, err := storage.List(ctx)
	if err != nil {
		return newCLIError(ErrMsgStorageFailed, ExitCodeError, err)
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

func showState(ctx context.Context, storage txtt.ContentStateStorage, name string, stdout io.Writer) error {
	stored, err := storage.Get(ctx, name)
	if err != nil {
		return storageError(err)
	}
	data, err := stored.State.YAML()
	if err != nil {
		return newCLIError(ErrMsgStorageFailed, ExitCodeError, err)
	}
	_, err = stdout.Write(data)
	return err
}

func saveState(ctx context.Context, storage txtt.ContentStateStorage, cfg *stateConfig, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(cfg.filePath, stdin)
	if err != nil {
		return newCLIError(ErrMsgLoadStateFailed, ExitCodeInputError, err)
	}
	state, err := txtt.ParseContentState(data)
	if err != nil {
		return newCLIError(ErrMsgLoadStateFailed, ExitCodeInputError, err)
	}

	stored := &txtt.StoredContentState{Name: cfg.name, State: state}
	if err := storage.Save(ctx, stored); err != nil {
		return storageError(err)
	}
	fmt.Fprintf(stdout, StateTextSaved+FmtNewline, cfg.name)
	return nil
}

func deleteState(ctx context.Context, storage txtt.ContentStateStorage, name string, stdout io.Writer) error {
	if err := storage.Delete(ctx, name); err != nil {
		return storageError(err)
	}
	fmt.Fprintf(stdout, StateTextDeleted+FmtNewline, name)
	return nil
}

// storageError maps missing states and bad names to input errors.
func storageError(err error) error {
	var se *txtt.StorageError
	if errors.Is(err, txtt.ErrContentStateNotFound) || (errors.As(err, &se) && se.Message == txtt.ErrMsgInvalidStateName) {
		return newCLIError(ErrMsgStorageFailed, ExitCodeInputError, err)
	}
	return newCLIError(ErrMsgStorageFailed, ExitCodeError, err)
}
