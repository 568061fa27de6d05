// Package toolchaintest provides a recording [toolchain.Executor] for tests.
package toolchaintest

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/bezos-os/bzbuild/internal/toolchain"
)

// Content written by simulated compilers and linkers.
var (
	ObjectMagic = []byte("\x7fELF\x02\x01\x01")
	PEMagic     = []byte("MZ")
	FlatPayload = []byte{0xfa, 0x31, 0xc0, 0x8e, 0xd8, 0xeb, 0xfe}
)

// Records every command it receives.
//
// With Simulate set, the tools bzbuild drives are imitated well enough for
// pipeline tests: inputs must exist, and outputs named by -o, -out: or the
// objcopy destination are written. Fail and LaunchErr make a tool exit
// non-zero or fail to start.
type Executor struct {
	Simulate  bool
	Fail      map[string]int   // Tool name to exit code.
	LaunchErr map[string]error // Tool name to start error.

	mu       sync.Mutex
	commands []toolchain.Command
}

func (e *Executor) Run(ctx context.Context, cmd toolchain.Command) (*toolchain.ExecResult, error) {
	e.mu.Lock()
	e.commands = append(e.commands, toolchain.Command{
		Name: cmd.Name,
		Args: slices.Clone(cmd.Args),
		Env:  slices.Clone(cmd.Env),
	})
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := e.LaunchErr[cmd.Name]; ok {
		return nil, err
	}
	if code, ok := e.Fail[cmd.Name]; ok {
		return &toolchain.ExecResult{ExitCode: code, Stderr: cmd.Name + ": simulated failure\n"}, nil
	}
	if e.Simulate {
		if err := simulate(cmd.Args); err != nil {
			return &toolchain.ExecResult{ExitCode: 1, Stderr: err.Error() + "\n"}, nil
		}
	}

	return &toolchain.ExecResult{}, nil
}

// Returns the recorded commands in order.
func (e *Executor) Commands() []toolchain.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.commands)
}

// Returns the program names of the recorded commands in order.
func (e *Executor) Names() []string {
	cmds := e.Commands()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func simulate(args []string) error {
	switch {
	case len(args) > 0 && args[0] == "-i":
		return simulateMtools(args)
	case slices.Contains(args, "binary"):
		return simulateObjcopy(args)
	}

	var out string
	var inputs []string
	pe := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-o" || arg == "-T":
			if i+1 < len(args) && arg == "-o" {
				out = args[i+1]
			}
			i++
		case strings.HasPrefix(arg, "-out:"):
			out = strings.TrimPrefix(arg, "-out:")
			pe = true
		case strings.HasPrefix(arg, "-"):
		default:
			inputs = append(inputs, arg)
		}
	}

	if err := requireFiles(inputs...); err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("no output file given")
	}

	content := ObjectMagic
	if pe {
		content = PEMagic
	}
	return os.WriteFile(out, content, 0644)
}

func simulateObjcopy(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing input or output")
	}
	in, out := args[len(args)-2], args[len(args)-1]
	if err := requireFiles(in); err != nil {
		return err
	}
	return os.WriteFile(out, FlatPayload, 0644)
}

func simulateMtools(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing image")
	}
	files := []string{args[1]}
	for i := 2; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-f":
			i++
		case strings.HasPrefix(arg, "-"), strings.HasPrefix(arg, "::"):
		default:
			files = append(files, arg)
		}
	}
	return requireFiles(files...)
}

func requireFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%s: no such file", p)
		}
	}
	return nil
}
