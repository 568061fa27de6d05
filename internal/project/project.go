package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/bezos-os/bzbuild/internal/paths"
	"github.com/bezos-os/bzbuild/internal/toolchain"
	"github.com/pelletier/go-toml"
)

// Firmware image fetched by the ovmf target unless configured otherwise.
const DefaultFirmwareURL = "https://retrage.github.io/edk2-nightly/bin/RELEASEX64_OVMF.fd"

// Resolved build description.
type Project struct {
	Path         string          // File the project was loaded from, empty for defaults.
	BuildDir     string          // Root of the build tree.
	Timeout      time.Duration   // Per-tool timeout. Zero disables it.
	IncludeDirs  []string        // Compiler include directories, in order.
	Env          []string        // Extra KEY=VALUE pairs for tool processes, sorted.
	Tools        toolchain.Tools // External program names.
	BootStub     string          // BIOS boot stub assembly source.
	LinkerScript string          // BIOS kernel memory layout.
	BIOSSources  []string        // Ordered kernel sources for the BIOS image.
	UEFISources  []string        // Ordered sources for the UEFI application.
	FirmwareURL  string          // Location of the prebuilt firmware image.
}

// Returns the built-in build description.
func Default() Project {
	return Project{
		BuildDir:     paths.DefaultBuildDir,
		Timeout:      toolchain.DefaultTimeout,
		IncludeDirs:  []string{".", "src", "src/kernel"},
		Tools:        toolchain.DefaultTools(),
		BootStub:     "src/boot/bios/boot.asm",
		LinkerScript: "src/link.ld",
		BIOSSources: []string{
			"src/kernel/kmain.cpp",
			"src/kernel/mm/mm.cpp",
		},
		UEFISources: []string{
			"src/kernel/kmain.cpp",
			"src/kernel/mm/mm.cpp",
			"src/boot/uefi/uefi.cpp",
		},
		FirmwareURL: DefaultFirmwareURL,
	}
}

// On-disk layout of bzbuild.toml.
type tomlFile struct {
	BuildDir    string            `toml:"build-dir"`
	Timeout     string            `toml:"timeout"`
	IncludeDirs []string          `toml:"include-dirs"`
	Env         map[string]string `toml:"env"`
	Tools       tomlTools         `toml:"tools"`
	BIOS        tomlBIOS          `toml:"bios"`
	UEFI        tomlUEFI          `toml:"uefi"`
	Firmware    tomlFirmware      `toml:"firmware"`
}

type tomlTools struct {
	Assembler string `toml:"assembler"`
	Compiler  string `toml:"compiler"`
	Linker    string `toml:"linker"`
	EFILinker string `toml:"efi-linker"`
	Objcopy   string `toml:"objcopy"`
	Mformat   string `toml:"mformat"`
	Mmd       string `toml:"mmd"`
	Mcopy     string `toml:"mcopy"`
}

type tomlBIOS struct {
	BootStub     string   `toml:"boot-stub"`
	LinkerScript string   `toml:"linker-script"`
	Sources      []string `toml:"sources"`
}

type tomlUEFI struct {
	Sources []string `toml:"sources"`
}

type tomlFirmware struct {
	URL string `toml:"url"`
}

// Parses a bzbuild.toml document and overlays it on the defaults.
//
// Unknown keys are rejected. Lists replace the default list when the key is
// present, so an explicit empty list means no sources.
func Parse(data []byte) (Project, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var f tomlFile
	if err := toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&f); err != nil {
		return Project{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	p := Default()

	if f.BuildDir != "" {
		p.BuildDir = f.BuildDir
	}

	if tree.Has("timeout") {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil || d < 0 {
			return Project{}, fmt.Errorf("%w: timeout %q", ErrConfig, f.Timeout)
		}
		p.Timeout = d
	}

	if tree.Has("include-dirs") {
		p.IncludeDirs = slices.Clone(f.IncludeDirs)
	}

	p.Env = environ(f.Env)

	p.Tools = p.Tools.Merge(toolchain.Tools{
		Assembler: f.Tools.Assembler,
		Compiler:  f.Tools.Compiler,
		Linker:    f.Tools.Linker,
		EFILinker: f.Tools.EFILinker,
		Objcopy:   f.Tools.Objcopy,
		Mformat:   f.Tools.Mformat,
		Mmd:       f.Tools.Mmd,
		Mcopy:     f.Tools.Mcopy,
	})

	if f.BIOS.BootStub != "" {
		p.BootStub = f.BIOS.BootStub
	}
	if f.BIOS.LinkerScript != "" {
		p.LinkerScript = f.BIOS.LinkerScript
	}
	if tree.Has("bios.sources") {
		p.BIOSSources = slices.Clone(f.BIOS.Sources)
	}
	if tree.Has("uefi.sources") {
		p.UEFISources = slices.Clone(f.UEFI.Sources)
	}

	if f.Firmware.URL != "" {
		p.FirmwareURL = f.Firmware.URL
	}

	return p, nil
}

// Reads and parses the file at path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	p, err := Parse(data)
	if err != nil {
		return Project{}, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path

	return p, nil
}

// Loads the project description.
//
// An explicit path must exist. Otherwise bzbuild.toml in the working
// directory is used, then the user configuration file, and finally the
// built-in defaults.
func Resolve(explicit string) (Project, error) {
	if explicit != "" {
		return Load(explicit)
	}

	for _, candidate := range []string{paths.ProjectFile, paths.UserConfig()} {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Project{}, fmt.Errorf("%w: %w", ErrConfig, err)
		}

		slog.Debug("using project file", "path", candidate)
		return Load(candidate)
	}

	slog.Debug("no project file found, using defaults")
	return Default(), nil
}

func environ(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
