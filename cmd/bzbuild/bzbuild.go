package main

import (
	"log/slog"
	"os"

	"github.com/bezos-os/bzbuild/internal"
	"github.com/bezos-os/bzbuild/internal/cli"
	"github.com/pterm/pterm"
)

// Builds the bezos kernel targets named on the command line.
//
// Logging starts at the level baked in at link time and is reconfigured
// once flags are parsed. Any failed target, or a rejected command line,
// exits with status 1.
func main() {
	slog.SetDefault(slog.New(pterm.NewSlogHandler(
		pterm.DefaultLogger.WithLevel(initialLevel()).WithWriter(os.Stderr),
	)))

	wd, _ := os.Getwd()
	slog.Debug("bzbuild starting", "version", internal.VersionString(), "dir", wd, "args", os.Args[1:])

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Log level from build-time linker flags, before -q/-v/-d are known.
func initialLevel() pterm.LogLevel {
	switch {
	case internal.IsDebug():
		return pterm.LogLevelDebug
	case internal.IsQuiet():
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelInfo
	}
}
