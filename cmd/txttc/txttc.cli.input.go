package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput || path == "" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// writeJSON writes v as indented JSON followed by a newline. Encoding and
// write failures are reported on stderr and turn into ExitCodeError.
func writeJSON(v any, stdout, stderr io.Writer) int {
	jsonBytes, err := json.MarshalIndent(v, "", JSONIndent)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEncodeJSONFailed, err)
		return ExitCodeError
	}
	if _, err := fmt.Fprintln(stdout, string(jsonBytes)); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}
