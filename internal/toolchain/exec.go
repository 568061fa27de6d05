package toolchain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"
)

// How long to wait for a killed tool's output pipes to close. Grandchildren
// that inherited them would otherwise hold Run open.
const waitDelay = 5 * time.Second

// A single external program invocation.
type Command struct {
	Name string   // Program name, resolved from PATH.
	Args []string // Arguments, not including the program name.
	Env  []string // KEY=VALUE pairs overlaid on the process environment.
}

// Output of a finished process.
type ExecResult struct {
	ExitCode int    // Exit code of the process, -1 if it was killed by a signal.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Runs external programs.
//
// A returned error means the program could not be started or waited for. A
// non-zero exit code is not treated as an error; the caller decides.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*ExecResult, error)
}

// Runs programs as child processes of bzbuild.
//
// Output is captured in the result. When Stdout or Stderr are set, the
// streams are also copied there while the process runs.
type HostExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Starts the program and blocks until it exits or ctx is done, in which case
// the process is killed.
func (h HostExecutor) Run(ctx context.Context, cmd Command) (*ExecResult, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.WaitDelay = waitDelay
	if len(cmd.Env) > 0 {
		c.Env = mergeEnv(os.Environ(), cmd.Env)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = tee(&stdout, h.Stdout)
	c.Stderr = tee(&stderr, h.Stderr)

	err := c.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}

	code := 0
	if exitErr != nil {
		code = exitErr.ExitCode()
	}

	return &ExecResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Merges override env vars on top of a base env slice. The result is sorted
// so that the child environment does not depend on map order.
func mergeEnv(base, overrides []string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for _, entry := range append(slices.Clone(base), overrides...) {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}

	result := make([]string, 0, len(merged))
	for k, v := range merged {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}
