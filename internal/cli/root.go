package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/bezos-os/bzbuild/internal"
	"github.com/bezos-os/bzbuild/internal/build"
	"github.com/bezos-os/bzbuild/internal/project"
	"github.com/bezos-os/bzbuild/internal/toolchain"
	"github.com/pterm/pterm"
)

// Represents the root command for bzbuild.
type RootCmd struct {
	Quiet    bool             `short:"q" help:"Suppress informational output."`
	Verbose  bool             `short:"v" help:"Enable verbose output."`
	Debug    bool             `short:"d" help:"Enable debug output."`
	Config   string           `short:"C" help:"Project file to load." placeholder:"PATH" type:"path"`
	BuildDir string           `short:"o" help:"Root of the build tree." placeholder:"DIR"`
	Timeout  *time.Duration   `short:"t" help:"Per-tool timeout, 0 disables it." placeholder:"DURATION"`
	Version  kong.VersionFlag `help:"Show version information."`
	Tokens   []string         `arg:"" optional:"" help:"Targets to build, \"release\" or \"help\"." placeholder:"TOKEN"`
}

// Parses arguments, configures logging, and runs the requested targets.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var root RootCmd
	kongCtx := kong.Parse(&root,
		kong.Name(internal.Name),
		kong.Description("Builds the bezos kernel for legacy BIOS and UEFI.\n\nRun with no targets, or with \"help\", to list the available targets."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	root.configureLogger()

	return kongCtx.Run()
}

// Executes the build.
func (c *RootCmd) Run(ctx context.Context) error {
	proj, err := project.Resolve(c.Config)
	if err != nil {
		return err
	}
	c.apply(&proj)

	slog.Debug("project resolved",
		"path", proj.Path,
		"build-dir", proj.BuildDir,
		"timeout", proj.Timeout,
	)

	// Tool output is always captured; verbose runs also stream it.
	host := toolchain.HostExecutor{}
	if internal.IsVerbose() {
		host.Stdout = os.Stderr
		host.Stderr = os.Stderr
	}

	report, err := build.Run(ctx, build.Options{
		Project:  proj,
		Tokens:   c.Tokens,
		Executor: host,
		Client:   &http.Client{},
		Stdout:   os.Stdout,
	})
	if report != nil && !c.quiet() {
		printSummary(os.Stdout, report)
	}
	return err
}

// Overrides project settings with flags given on the command line.
func (c *RootCmd) apply(p *project.Project) {
	if c.BuildDir != "" {
		p.BuildDir = c.BuildDir
	}
	if c.Timeout != nil {
		p.Timeout = *c.Timeout
	}
}

func (c *RootCmd) quiet() bool {
	return c.Quiet || internal.IsQuiet()
}

// Configures the global logger based on CLI flags.
func (c *RootCmd) configureLogger() {
	debug := c.Debug || internal.IsDebug()
	quiet := c.quiet()
	verbose := c.Verbose || internal.IsVerbose()

	internal.SetDebug(debug)
	internal.SetQuiet(quiet)
	internal.SetVerbose(verbose)

	slog.SetDefault(slog.New(pterm.NewSlogHandler(newLogger(debug, quiet, verbose, isatty(os.Stderr)))))
}

// Creates the pterm logger behind the slog handler.
//
// Non-interactive output is written as JSON. Verbose output adds timestamps.
func newLogger(debug, quiet, verbose, tty bool) *pterm.Logger {
	level := pterm.LogLevelInfo
	if debug {
		level = pterm.LogLevelDebug
	} else if quiet {
		level = pterm.LogLevelWarn
	}

	logger := pterm.DefaultLogger.
		WithLevel(level).
		WithWriter(os.Stderr).
		WithTime(verbose || !tty)

	if !tty {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
