package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/go-txtt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplate = "Dear {name:friend}, ${greeting}! $signature"
	testState    = `constants:
  signature: Paul
options:
  greeting:
    formal: how do you do
    casual: what's up
`
	testContent = `keys:
  name: Jessica
choices:
  greeting: casual
`
	testExpectedOutput = "Dear Jessica, what's up! Paul"
	testInvalidContent = "Dear {name"
)

// isolateEnv points HOME at a temp dir and clears the variables the CLI reads.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvContentStateFile, "")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvStoreDSN, "")
	t.Setenv(EnvEditor, "")
	return home
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

// setupTestData creates the template, state and content files
func setupTestData(t *testing.T) (tmpl, state, content string) {
	t.Helper()
	dir := t.TempDir()
	return writeTestFile(t, dir, "letter.txtt", testTemplate),
		writeTestFile(t, dir, "state.yaml", testState),
		writeTestFile(t, dir, "content.yaml", testContent)
}

func runCLI(stdin string, args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

// ==================== run() dispatch tests ====================

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI("")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameCompile)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI("", "frobnicate")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stdout, ErrMsgUnknownCommand)
}

func TestRun_HelpCommands(t *testing.T) {
	tests := []struct {
		cmd      string
		expected string
	}{
		{CmdNameCompile, HelpCompileUsage},
		{CmdNameDraft, HelpDraftUsage},
		{CmdNameValidate, HelpValidateUsage},
		{CmdNameState, HelpStateUsage},
		{CmdNameVersion, HelpVersionUsage},
		{CmdNameHelp, HelpHelpUsage},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			code, stdout, _ := runCLI("", CmdNameHelp, tt.cmd)
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Equal(t, tt.expected+"\n", stdout)

			if tt.cmd == CmdNameHelp {
				return
			}
			code, stdout, _ = runCLI("", tt.cmd, "--help")
			assert.Equal(t, ExitCodeSuccess, code)
			assert.Equal(t, tt.expected+"\n", stdout)
		})
	}
}

// ==================== version ====================

func TestVersion_Formats(t *testing.T) {
	code, stdout, _ := runCLI("", CmdNameVersion)
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName+" version")

	code, stdout, _ = runCLI("", CmdNameVersion, "-F", OutputFormatJSON)
	require.Equal(t, ExitCodeSuccess, code)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.GoVersion)

	code, _, stderr := runCLI("", CmdNameVersion, "--format", "xml")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		stdout   io.Writer
		expected int
		message  string
	}{
		{"encodes", map[string]string{"a": "b"}, &bytes.Buffer{}, ExitCodeSuccess, ""},
		{"unencodable value", map[string]any{"c": make(chan int)}, &bytes.Buffer{}, ExitCodeError, ErrMsgEncodeJSONFailed},
		{"write failure", getVersionInfo(), failingWriter{}, ExitCodeError, ErrMsgWriteOutputFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := writeJSON(tt.value, tt.stdout, &stderr)

			assert.Equal(t, tt.expected, code)
			buf, isBuffer := tt.stdout.(*bytes.Buffer)
			if tt.message == "" {
				assert.Empty(t, stderr.String())
				require.True(t, isBuffer)
				assert.JSONEq(t, `{"a":"b"}`, buf.String())
				return
			}
			assert.Contains(t, stderr.String(), tt.message)
			if isBuffer {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputVersionJSON_WriteFailure(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, ExitCodeError, outputVersionJSON(getVersionInfo(), failingWriter{}, &stderr))
	assert.Contains(t, stderr.String(), ErrMsgWriteOutputFailed)
}

// ==================== compile ====================

func TestCompile_WithFiles(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-C", state, "-c", content)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestCompile_TemplateFromStdin(t *testing.T) {
	isolateEnv(t)
	_, state, content := setupTestData(t)

	code, stdout, stderr := runCLI(testTemplate, CmdNameCompile,
		"--template", InputSourceStdin, "--content-state", state, "--content", content)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestCompile_OutputFile(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)
	out := filepath.Join(t.TempDir(), "letter.txt")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-C", state, "-c", content, "-o", out)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(data))
}

func TestCompile_StateFromEnvironment(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)
	t.Setenv(EnvContentStateFile, state)

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-c", content)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestCompile_StateFromHomeDefault(t *testing.T) {
	home := isolateEnv(t)
	tmpl, _, content := setupTestData(t)
	writeTestFile(t, home, DefaultContentStateFile, testState)

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-c", content)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
}

func TestCompile_MissingHomeDefaultIsEmptyState(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "t.txtt", "Hi {name}")
	content := writeTestFile(t, dir, "c.yaml", "keys:\n  name: Ann\n")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-c", content)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "Hi Ann", stdout)
}

func TestCompile_IgnoreDynamic(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "t.txtt", "$Year")
	state := writeTestFile(t, dir, "s.yaml", "constants:\n  Year: MMXXIV\n")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-C", state, "-i")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "MMXXIV", stdout)
}

func TestCompile_Errors(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)
	dir := t.TempDir()
	invalid := writeTestFile(t, dir, "invalid.txtt", testInvalidContent)
	missingKey := writeTestFile(t, dir, "missing.txtt", "Hi {surname}")
	badContent := writeTestFile(t, dir, "bad.yaml", "keys: [")
	missing := filepath.Join(dir, "nope.yaml")

	tests := []struct {
		name     string
		args     []string
		expected int
		message  string
	}{
		{"no template", []string{"-C", state}, ExitCodeUsageError, ErrMsgMissingTemplate},
		{"unknown flag", []string{"-t", tmpl, "--bogus"}, ExitCodeUsageError, ErrMsgInvalidFlags},
		{"conflicting state", []string{"-t", tmpl, "-C", state, "--state", "work"}, ExitCodeUsageError, ErrMsgConflictingState},
		{"stdin twice", []string{"-t", "-", "-c", "-"}, ExitCodeUsageError, ErrMsgStdinTwice},
		{"missing template file", []string{"-t", missing}, ExitCodeInputError, ErrMsgReadTemplateFailed},
		{"parse error", []string{"-t", invalid, "-C", state, "-c", content}, ExitCodeTemplateError, ErrMsgParseTemplateFailed},
		{"missing state file", []string{"-t", tmpl, "-C", missing, "-c", content}, ExitCodeInputError, ErrMsgLoadStateFailed},
		{"bad content", []string{"-t", tmpl, "-C", state, "-c", badContent}, ExitCodeInputError, ErrMsgLoadContentFailed},
		{"missing key", []string{"-t", missingKey, "-C", state, "-c", content}, ExitCodeTemplateError, ErrMsgResolveFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI("", append([]string{CmdNameCompile}, tt.args...)...)
			assert.Equal(t, tt.expected, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

func TestCompile_ErrorsNameTheElement(t *testing.T) {
	isolateEnv(t)
	_, state, content := setupTestData(t)

	tests := []struct {
		name     string
		template string
		contains []string
	}{
		{"missing key", "Hi {surname}", []string{`key "surname"`, "line 1, column 4", txtt.ErrMsgMissingKey}},
		{"unknown constant", "Hi $nobody", []string{`constant "nobody"`, "line 1, column 4", txtt.ErrMsgUnknownConstant}},
		{"unterminated", "Hi {name", []string{"line 1, column", txtt.ErrMsgUnterminatedElement}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.template, CmdNameCompile, "-t", "-", "-C", state, "-c", content)

			assert.Equal(t, ExitCodeTemplateError, code)
			for _, want := range tt.contains {
				assert.Contains(t, stderr, want)
			}
			assert.Equal(t, 1, strings.Count(stderr, tt.contains[len(tt.contains)-1]))
		})
	}
}

func TestCompile_ExplicitMissingEnvStateFails(t *testing.T) {
	isolateEnv(t)
	tmpl, _, content := setupTestData(t)
	t.Setenv(EnvContentStateFile, filepath.Join(t.TempDir(), "gone.yaml"))

	code, _, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-c", content)

	assert.Equal(t, ExitCodeInputError, code)
	assert.Contains(t, stderr, ErrMsgLoadStateFailed)
}

func TestCompile_Verbose(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-C", state, "-c", content, "-v")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)
	assert.Contains(t, stderr, txtt.LogMsgResolveEnd)
}

// ==================== compile: editor flow ====================

func TestCompile_EditorUntouchedDraftUsesDefaults(t *testing.T) {
	requireCommand(t, "true")
	isolateEnv(t)
	t.Setenv(EnvEditor, "true")
	tmpl := writeTestFile(t, t.TempDir(), "t.txtt", "Dear {name:friend}")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "Dear friend", stdout)
}

func TestCompile_EditorFillsDraft(t *testing.T) {
	requireCommand(t, "sed")
	isolateEnv(t)
	t.Setenv(EnvEditor, "sed -i s/~/Jessica/")
	dir := t.TempDir()
	tmpl := writeTestFile(t, dir, "t.txtt", "Dear {name:friend}")
	draftPath := filepath.Join(dir, "draft.yaml")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl, "-d", draftPath)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "Dear Jessica", stdout)

	draft, err := os.ReadFile(draftPath)
	require.NoError(t, err)
	assert.Contains(t, string(draft), "name: ~")
}

func TestCompile_EditorFailure(t *testing.T) {
	requireCommand(t, "false")
	isolateEnv(t)
	t.Setenv(EnvEditor, "false")
	tmpl := writeTestFile(t, t.TempDir(), "t.txtt", "Dear {name}")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl)

	assert.Equal(t, ExitCodeError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, ErrMsgEditorFailed)
}

func TestCompile_EmptyDraftSkipsEditor(t *testing.T) {
	isolateEnv(t)
	t.Setenv(EnvEditor, "/nonexistent/editor")
	tmpl := writeTestFile(t, t.TempDir(), "t.txtt", "plain text only")

	code, stdout, stderr := runCLI("", CmdNameCompile, "-t", tmpl)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "plain text only", stdout)
}

func TestEditorCommand(t *testing.T) {
	t.Setenv(EnvEditor, "")
	assert.Equal(t, []string{DefaultEditor}, editorCommand())

	t.Setenv(EnvEditor, "code --wait")
	assert.Equal(t, []string{"code", "--wait"}, editorCommand())
}

// ==================== draft ====================

func TestDraft_PrintsYAML(t *testing.T) {
	isolateEnv(t)
	tmpl, state, _ := setupTestData(t)

	code, stdout, stderr := runCLI("", CmdNameDraft, "-t", tmpl, "-C", state)

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "name: ~")
	assert.Contains(t, stdout, "greeting: ~")
	assert.Contains(t, stdout, "casual")

	content, err := txtt.ParseVolatileContent([]byte(stdout))
	require.NoError(t, err)
	assert.Empty(t, content.Keys)
	assert.Empty(t, content.Choices)
}

func TestDraft_Errors(t *testing.T) {
	isolateEnv(t)

	code, _, stderr := runCLI("", CmdNameDraft)
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgMissingTemplate)

	code, _, stderr = runCLI(testInvalidContent, CmdNameDraft, "-t", "-")
	assert.Equal(t, ExitCodeTemplateError, code)
	assert.Contains(t, stderr, ErrMsgParseTemplateFailed)
}

// ==================== validate ====================

func TestValidate_Text(t *testing.T) {
	source := "locale: de-DE\n{name} ${tone:$sig} $MonthName {name}"

	code, stdout, stderr := runCLI(source, CmdNameValidate, "-t", "-")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, ValidationTextSuccess)
	assert.Contains(t, stdout, "Locale: de-DE")
	assert.Contains(t, stdout, "Keys: name\n")
	assert.Contains(t, stdout, "Options: tone\n")
	assert.Contains(t, stdout, "Constants: sig\n")
	assert.Contains(t, stdout, "Meta-constants: MonthName\n")
}

func TestValidate_JSON(t *testing.T) {
	code, stdout, _ := runCLI("Hi {name}", CmdNameValidate, "-t", "-", "-F", OutputFormatJSON)

	require.Equal(t, ExitCodeSuccess, code)
	var out validationOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Valid)
	assert.False(t, out.LocaleHeader)
	assert.Equal(t, "en-US", out.Locale)
	assert.Equal(t, []string{"name"}, out.Keys)
	assert.Empty(t, out.Options)
}

func TestValidate_Invalid(t *testing.T) {
	code, _, stderr := runCLI(testInvalidContent, CmdNameValidate, "-t", "-")
	assert.Equal(t, ExitCodeTemplateError, code)
	assert.Contains(t, stderr, ErrMsgParseTemplateFailed)

	code, stdout, _ := runCLI(testInvalidContent, CmdNameValidate, "-t", "-", "-F", OutputFormatJSON)
	assert.Equal(t, ExitCodeTemplateError, code)
	var out validationOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Error)
}

func TestValidate_BadFlags(t *testing.T) {
	code, _, _ := runCLI("", CmdNameValidate)
	assert.Equal(t, ExitCodeUsageError, code)

	code, _, _ = runCLI("", CmdNameValidate, "-t", "-", "-F", "xml")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== state ====================

func TestState_Lifecycle(t *testing.T) {
	isolateEnv(t)
	tmpl, state, content := setupTestData(t)
	store := []string{"--store", txtt.StorageDriverNameFilesystem, "--store-dsn", t.TempDir()}

	code, stdout, stderr := runCLI("", append([]string{CmdNameState, StateCmdSave, "work", "-f", state}, store...)...)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "work")

	code, stdout, _ = runCLI(testState, append([]string{CmdNameState, StateCmdSave, "private", "-f", "-"}, store...)...)
	require.Equal(t, ExitCodeSuccess, code)

	code, stdout, _ = runCLI("", append([]string{CmdNameState, StateCmdList}, store...)...)
	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "private\nwork\n", stdout)

	code, stdout, _ = runCLI("", append([]string{CmdNameState, StateCmdShow, "work"}, store...)...)
	require.Equal(t, ExitCodeSuccess, code)
	shown, err := txtt.ParseContentState([]byte(stdout))
	require.NoError(t, err)
	sig, _ := shown.Constant("signature")
	assert.Equal(t, "Paul", sig)

	code, stdout, stderr = runCLI("", append([]string{CmdNameCompile, "-t", tmpl, "-c", content, "--state", "work"}, store...)...)
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, testExpectedOutput, stdout)

	code, _, _ = runCLI("", append([]string{CmdNameState, StateCmdDelete, "work"}, store...)...)
	require.Equal(t, ExitCodeSuccess, code)

	code, _, stderr = runCLI("", append([]string{CmdNameState, StateCmdShow, "work"}, store...)...)
	assert.Equal(t, ExitCodeInputError, code)
	assert.Contains(t, stderr, txtt.ErrMsgStateNotFound)
}

func TestState_DefaultStoreFromEnvironment(t *testing.T) {
	isolateEnv(t)
	_, state, _ := setupTestData(t)
	dir := t.TempDir()
	t.Setenv(EnvStoreDSN, dir)

	code, _, stderr := runCLI("", CmdNameState, StateCmdSave, "work", "-f", state)
	require.Equal(t, ExitCodeSuccess, code, stderr)

	_, err := os.Stat(filepath.Join(dir, "work"+txtt.FilesystemStateSuffix))
	assert.NoError(t, err)
}

func TestState_DefaultStoreUnderHome(t *testing.T) {
	home := isolateEnv(t)
	_, state, _ := setupTestData(t)

	code, _, stderr := runCLI("", CmdNameState, StateCmdSave, "work", "-f", state)
	require.Equal(t, ExitCodeSuccess, code, stderr)

	_, err := os.Stat(filepath.Join(home, DefaultStoreDir, "work"+txtt.FilesystemStateSuffix))
	assert.NoError(t, err)
}

func TestState_VerboseLogsStoreRoot(t *testing.T) {
	home := isolateEnv(t)

	code, stdout, stderr := runCLI("", CmdNameState, StateCmdList, "-v")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, LogMsgOpenStore)
	assert.Contains(t, stderr, filepath.Join(home, DefaultStoreDir))
}

func TestState_Errors(t *testing.T) {
	isolateEnv(t)
	dsn := t.TempDir()
	bad := writeTestFile(t, t.TempDir(), "bad.yaml", "constants:\n  \"not valid\": x\n")

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"no action", nil, ExitCodeUsageError},
		{"unknown action", []string{"rename"}, ExitCodeUsageError},
		{"show without name", []string{StateCmdShow}, ExitCodeUsageError},
		{"save without file", []string{StateCmdSave, "work"}, ExitCodeUsageError},
		{"unknown driver", []string{StateCmdList, "--store", "carrier-pigeon"}, ExitCodeInputError},
		{"invalid name", []string{StateCmdShow, "../etc"}, ExitCodeInputError},
		{"invalid state file", []string{StateCmdSave, "work", "-f", bad}, ExitCodeInputError},
		{"delete missing", []string{StateCmdDelete, "ghost"}, ExitCodeInputError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{CmdNameState}, tt.args...)
			args = append(args, "--store-dsn", dsn)
			code, _, _ := runCLI("", args...)
			assert.Equal(t, tt.expected, code)
		})
	}
}
