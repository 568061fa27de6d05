// Package toolchain composes compiler flags and drives the external
// assembler, compiler, linker and image tools.
//
// Every tool runs as a separate process through an [Executor]. The
// [HostExecutor] resolves tools by name from PATH and blocks until the
// process exits or the per-stage timeout in [Config] expires. A [Driver]
// wraps an executor with one method per build stage. Each stage records an
// [Outcome] and turns a launch failure, timeout or non-zero exit status into
// a [*StageError] naming the stage, the tool and its arguments, so that the
// caller can stop the pipeline before a later stage consumes a stale or
// missing artifact.
//
// Compiler flags are composed by [Flags] from three ordered parts: the
// common freestanding kernel flags, the flags of the target [Environment],
// and the release flags when [Config.Release] is set. The BIOS and UEFI
// environment flags never overlap.
//
// Example usage:
//
//	drv := toolchain.NewDriver(toolchain.Config{
//	    Tools:       toolchain.DefaultTools(),
//	    IncludeDirs: []string{".", "src"},
//	    Timeout:     10 * time.Minute,
//	}, toolchain.HostExecutor{})
//
//	if err := drv.Compile(ctx, toolchain.BIOS, "build/bios/unity.cpp", "build/bios/unity.o"); err != nil {
//	    return err
//	}
package toolchain
