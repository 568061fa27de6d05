package toolchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Step of a target pipeline that runs an external tool.
type Stage string

const (
	StageAssemble Stage = "assemble"
	StageCompile  Stage = "compile"
	StageLink     Stage = "link"
	StageStrip    Stage = "strip"
	StageFormat   Stage = "format"
	StageMkdir    Stage = "mkdir"
	StageCopy     Stage = "copy"
)

// Record of one tool invocation.
type Outcome struct {
	Stage    Stage
	Tool     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error // Nil if the tool ran and exited with status zero.
}

// Describes a stage whose tool could not run or did not succeed.
type StageError struct {
	Stage    Stage
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error // One of ErrToolFailed, ErrToolLaunch, ErrToolTimeout, or a context error.
}

func (e *StageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s stage: %s", e.Stage, e.Tool)
	for _, arg := range e.Args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	fmt.Fprintf(&b, ": %v", e.Err)

	if errors.Is(e.Err, ErrToolFailed) {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
		if msg := strings.TrimSpace(e.Stderr); msg != "" {
			b.WriteString(": ")
			b.WriteString(firstLine(msg))
		}
	}

	return b.String()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Runs build stages through an [Executor].
//
// A Driver is used by a single goroutine. It keeps every [Outcome] in
// invocation order.
type Driver struct {
	cfg      Config
	exec     Executor
	outcomes []Outcome
}

// Creates a driver. The configuration is copied.
func NewDriver(cfg Config, exec Executor) *Driver {
	return &Driver{cfg: cfg.clone(), exec: exec}
}

// Returns a copy of the driver's configuration.
func (d *Driver) Config() Config {
	return d.cfg.clone()
}

// Returns the outcomes recorded so far.
func (d *Driver) Outcomes() []Outcome {
	return slices.Clone(d.outcomes)
}

// Assembles the boot stub into an ELF64 object.
func (d *Driver) Assemble(ctx context.Context, src, out string) error {
	return d.invoke(ctx, StageAssemble, d.cfg.Tools.Assembler, "-felf64", src, "-o", out)
}

// Compiles the unity file for env.
func (d *Driver) Compile(ctx context.Context, env Environment, src, out string) error {
	flags, err := Flags(env, d.cfg)
	if err != nil {
		return err
	}

	args := append(flags, "-c", src, "-o", out)
	return d.invoke(ctx, StageCompile, d.cfg.Tools.Compiler, args...)
}

// Links objects into a static ELF image laid out by the linker script.
func (d *Driver) LinkELF(ctx context.Context, script string, objects []string, out string) error {
	args := []string{"-nostdlib", "-static", "-T", script, "-o", out}
	args = append(args, objects...)
	return d.invoke(ctx, StageLink, d.cfg.Tools.Linker, args...)
}

// Links objects into a UEFI application with efi_main as its entry point.
func (d *Driver) LinkEFI(ctx context.Context, objects []string, out string) error {
	args := []string{"-subsystem:efi_application", "-nodefaultlib", "-dll", "-entry:efi_main"}
	args = append(args, objects...)
	args = append(args, "-out:"+out)
	return d.invoke(ctx, StageLink, d.cfg.Tools.EFILinker, args...)
}

// Writes the loadable sections of an ELF image as a raw binary. Sections
// named .ignore and .comment are dropped.
func (d *Driver) Objcopy(ctx context.Context, in, out string) error {
	return d.invoke(ctx, StageStrip, d.cfg.Tools.Objcopy, "-R", ".ignore", "-R", ".comment", "-O", "binary", in, out)
}

// Formats an existing image file as a FAT floppy of the given size.
func (d *Driver) Mformat(ctx context.Context, image string, kilobytes int) error {
	return d.invoke(ctx, StageFormat, d.cfg.Tools.Mformat, "-i", image, "-f", strconv.Itoa(kilobytes), "::")
}

// Creates a directory inside a FAT image. dir is absolute within the image.
func (d *Driver) Mmd(ctx context.Context, image, dir string) error {
	return d.invoke(ctx, StageMkdir, d.cfg.Tools.Mmd, "-i", image, "::"+dir)
}

// Copies a host file into a FAT image. dest is absolute within the image.
func (d *Driver) Mcopy(ctx context.Context, image, src, dest string) error {
	return d.invoke(ctx, StageCopy, d.cfg.Tools.Mcopy, "-i", image, src, "::"+dest)
}

// Runs one tool, records its outcome, and converts anything other than a
// clean exit into a [*StageError].
func (d *Driver) invoke(ctx context.Context, stage Stage, tool string, args ...string) error {
	runCtx := ctx
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	slog.Debug("exec", "stage", stage, "tool", tool, "args", args)

	start := time.Now()
	res, err := d.exec.Run(runCtx, Command{Name: tool, Args: args, Env: d.cfg.Env})

	outcome := Outcome{
		Stage:    stage,
		Tool:     tool,
		Args:     args,
		Duration: time.Since(start),
	}
	if res != nil {
		outcome.ExitCode = res.ExitCode
		outcome.Stdout = res.Stdout
		outcome.Stderr = res.Stderr
	}
	outcome.Err = classify(runCtx, ctx, res, err)
	d.outcomes = append(d.outcomes, outcome)

	if outcome.Err == nil {
		slog.Debug("stage finished", "stage", stage, "tool", tool, "duration", outcome.Duration)
		return nil
	}

	return &StageError{
		Stage:    stage,
		Tool:     tool,
		Args:     args,
		ExitCode: outcome.ExitCode,
		Stderr:   outcome.Stderr,
		Err:      outcome.Err,
	}
}

// Decides what a finished invocation means. Cancellation of the parent
// context wins over the stage timeout, which wins over the process result.
func classify(runCtx, parent context.Context, res *ExecResult, err error) error {
	if cause := parent.Err(); cause != nil {
		return cause
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return ErrToolTimeout
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrToolLaunch, err)
	}
	if res == nil {
		return ErrToolLaunch
	}
	if res.ExitCode != 0 {
		return ErrToolFailed
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
