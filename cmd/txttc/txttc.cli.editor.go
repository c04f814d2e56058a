package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/itsatony/go-txtt"
	"go.uber.org/zap"
)

// editorCommand splits $EDITOR so values like "code --wait" work.
func editorCommand() []string {
	fields := strings.Fields(os.Getenv(EnvEditor))
	if len(fields) == 0 {
		return []string{DefaultEditor}
	}
	return fields
}

// editDraft writes the draft to a temporary content.yaml, waits for the
// editor to exit and reads the file back. The editor draws on stderr so
// stdout stays reserved for the compiled text.
func editDraft(draft []byte, stdin io.Reader, stderr io.Writer, logger *zap.Logger) (*txtt.VolatileContent, error) {
	dir, err := os.MkdirTemp("", DraftDirPattern)
	if err != nil {
		return nil, newCLIError(ErrMsgDraftFailed, ExitCodeError, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, DraftFileName)
	if err := os.WriteFile(path, draft, FilePermissions); err != nil {
		return nil, newCLIError(ErrMsgDraftFailed, ExitCodeError, err)
	}

	editor := editorCommand()
	logger.Debug(LogMsgOpenEditor,
		zap.Strings(LogFieldEditor, editor),
		zap.String(txtt.LogFieldFile, path),
	)

	cmd := exec.Command(editor[0], append(editor[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stderr
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return nil, newCLIError(ErrMsgEditorFailed, ExitCodeError, err)
	}

	content, err := txtt.LoadVolatileContentFile(path)
	if err != nil {
		return nil, newCLIError(ErrMsgLoadContentFailed, ExitCodeInputError, err)
	}
	logger.Debug(LogMsgDraftRead,
		zap.Int(txtt.LogFieldKeys, len(content.Keys)),
		zap.Int(txtt.LogFieldOptions, len(content.Choices)),
	)
	return content, nil
}
