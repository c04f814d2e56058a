package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo holds version information
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, help, err := parseVersionFlags(args)
	if help {
		fmt.Fprintln(stdout, HelpVersionUsage)
		return ExitCodeSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	vInfo := getVersionInfo()

	if cfg.format == OutputFormatJSON {
		return outputVersionJSON(vInfo, stdout, stderr)
	}
	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		vInfo.Version, vInfo.Commit, vInfo.Branch, vInfo.BuildTime, vInfo.GoVersion)
	return ExitCodeSuccess
}

func outputVersionJSON(v *versionInfo, stdout, stderr io.Writer) int {
	return writeJSON(v, stdout, stderr)
}

func parseVersionFlags(args []string) (*versionConfig, bool, error) {
	fs := pflag.NewFlagSet(CmdNameVersion, pflag.ContinueOnError)

	cfg := &versionConfig{}
	fs.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "output format")

	help, err := parseFlags(fs, args)
	if help || err != nil {
		return nil, help, err
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, false, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, false, nil
}

// getVersionInfo prefers a versions.yaml near the working directory and
// falls back to the module version recorded in the binary.
func getVersionInfo() *versionInfo {
	vInfo := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		vInfo.Version = bi.Main.Version
	}

	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		data, err := os.ReadFile(filepath.Join(dir, VersionsFileName))
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			vInfo.Version = vy.Project.Version
		}
		vInfo.Commit = firstNonEmpty(vy.Git.Commit, VersionUnknown)
		vInfo.Branch = firstNonEmpty(vy.Git.Branch, VersionUnknown)
		vInfo.BuildTime = firstNonEmpty(vy.Build.Time, VersionUnknown)
		vInfo.GoVersion = firstNonEmpty(vy.Build.GoVersion, vInfo.GoVersion)
		break
	}

	return vInfo
}
