package toolchain

import (
	"fmt"
	"slices"
	"time"
)

// Default time a single tool invocation may run before it is killed.
const DefaultTimeout = 10 * time.Minute

// Boot environment a kernel image is built for.
type Environment int

const (
	BIOS Environment = iota + 1 // Legacy BIOS, flat binary loaded by the boot stub.
	UEFI                        // UEFI firmware application on a FAT12 image.
)

func (e Environment) String() string {
	switch e {
	case BIOS:
		return "bios"
	case UEFI:
		return "uefi"
	default:
		return fmt.Sprintf("environment(%d)", int(e))
	}
}

// Names of the external programs, resolved from PATH at invocation time.
type Tools struct {
	Assembler string // Assembles the BIOS boot stub.
	Compiler  string // C++ cross compiler for the unity file.
	Linker    string // ELF linker for the BIOS image.
	EFILinker string // PE/COFF linker for the UEFI application.
	Objcopy   string // Converts the ELF image to a flat binary.
	Mformat   string // Formats the FAT12 image.
	Mmd       string // Creates directories inside the FAT12 image.
	Mcopy     string // Copies files into the FAT12 image.
}

// Returns the tool names used when no configuration overrides them.
func DefaultTools() Tools {
	return Tools{
		Assembler: "nasm",
		Compiler:  "clang++",
		Linker:    "ld.lld",
		EFILinker: "lld-link",
		Objcopy:   "objcopy",
		Mformat:   "mformat",
		Mmd:       "mmd",
		Mcopy:     "mcopy",
	}
}

// Overlays the non-empty names of o onto t.
func (t Tools) Merge(o Tools) Tools {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	return Tools{
		Assembler: pick(t.Assembler, o.Assembler),
		Compiler:  pick(t.Compiler, o.Compiler),
		Linker:    pick(t.Linker, o.Linker),
		EFILinker: pick(t.EFILinker, o.EFILinker),
		Objcopy:   pick(t.Objcopy, o.Objcopy),
		Mformat:   pick(t.Mformat, o.Mformat),
		Mmd:       pick(t.Mmd, o.Mmd),
		Mcopy:     pick(t.Mcopy, o.Mcopy),
	}
}

// Build configuration for one invocation.
//
// A Config is built once, before the first target runs, and passed by value
// to every stage. Nothing in this package modifies it after construction.
type Config struct {
	Tools       Tools         // External program names.
	IncludeDirs []string      // Passed to the compiler as -I<dir>, in order.
	Env         []string      // Extra KEY=VALUE pairs for every tool process.
	Release     bool          // Append optimization flags.
	Timeout     time.Duration // Per-invocation limit. Zero disables it.
}

// Returns a deep copy so that callers cannot reach the original slices.
func (c Config) clone() Config {
	c.IncludeDirs = slices.Clone(c.IncludeDirs)
	c.Env = slices.Clone(c.Env)
	return c
}
