package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Program name, used for logging groups, config paths and usage output.
	Name = "bzbuild"

	// Placeholder for a variable the pipeline did not set.
	defaultUndefined = "(undefined)"

	// Version string reported by builds made outside the release pipeline.
	defaultLocalBuild = "(local)"

	// Branch whose name is omitted from version strings.
	mainBranch = "main"
)

// Set via -ldflags "-X github.com/bezos-os/bzbuild/internal.<name>=<value>".
var (
	version   = "" // Release version (e.g., "0.4.0")
	stage     = "" // Git branch the binary was built from
	gitCommit = "" // Short commit hash

	rawQuiet   = "false" // Default for --quiet
	rawDebug   = "false" // Default for --debug
	rawVerbose = "false" // Default for --verbose
)

// Returns the release version with any leading "v" removed, or
// "(undefined)".
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return defaultUndefined
	}
	return strings.TrimPrefix(v, "v")
}

// Returns the branch the binary was built from, or "(undefined)".
func Stage() string {
	s := strings.TrimSpace(stage)
	if s == "" {
		return defaultUndefined
	}
	return strings.ToLower(s)
}

// Returns the commit hash, or "(undefined)".
func GitCommit() string {
	if c := strings.TrimSpace(gitCommit); c != "" {
		return c
	}
	return defaultUndefined
}

// Reports whether any of the release variables is missing.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
}

// Returns "<version>[+<branch>] <commit> [<os>/<arch>]", or "(local)" for
// builds outside the release pipeline.
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}

	branch := ""
	if s := Stage(); s != mainBranch {
		branch = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s/%s]", Version(), branch, GitCommit(), runtime.GOOS, runtime.GOARCH)
}
