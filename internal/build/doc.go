// Package build maps target names to build pipelines and runs them.
//
// A [Catalog] lists the targets in declaration order. The command line
// tokens form a set: "help" (or no tokens) lists the catalog, "release"
// turns on optimization for every target of the invocation, and every other
// token must name a catalog entry. Requested targets always run in catalog
// order, whatever order they were requested in.
//
// Each target has a [Kind] selecting one of three pipelines:
//
//	firmware  download a prebuilt UEFI firmware image, then end the invocation
//	bios      unity.cpp -> unity.o + boot.o -> bezos.elf -> bezos.bin
//	uefi      unity.cpp -> unity.o -> BOOTX64.EFI -> uefi.img (FAT12)
//
// The first failing stage stops its target and the whole invocation; later
// targets do not run. The returned error names the target, stage, tool and
// arguments.
//
// Example usage:
//
//	report, err := build.Run(ctx, build.Options{
//	    Project:  proj,
//	    Tokens:   []string{"release", "uefi", "bios"},
//	    Executor: toolchain.HostExecutor{},
//	    Stdout:   os.Stdout,
//	})
//	if err != nil {
//	    return err
//	}
package build
