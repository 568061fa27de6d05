package toolchain

import "slices"

// Freestanding kernel flags shared by every environment. Red zone and stack
// protector are disabled for both BIOS and UEFI, so they live here rather
// than in the environment sets.
var commonFlags = []string{
	"-ffreestanding",
	"-fno-exceptions",
	"-fno-rtti",
	"-fno-stack-protector",
	"-mno-red-zone",
	"-std=c++17",
	"-Wall",
	"-Wextra",
	"-Werror",
}

// Kernel-mode code for the higher half, loaded by the BIOS boot stub.
var biosFlags = []string{
	"--target=x86_64-unknown-none-elf",
	"-m64",
	"-mcmodel=kernel",
	"-fno-pic",
	"-fno-pie",
	"-mno-sse",
	"-mno-sse2",
	"-mno-mmx",
	"-fno-builtin",
	"-fno-common",
	"-fno-threadsafe-statics",
}

// Objects in the PE/COFF convention UEFI firmware loads, with 16-bit
// wchar_t to match CHAR16.
var uefiFlags = []string{
	"--target=x86_64-pc-win32-coff",
	"-fshort-wchar",
}

var releaseFlags = []string{
	"-O3",
}

// Returns a copy of the flags specific to env.
func EnvironmentFlags(env Environment) ([]string, error) {
	switch env {
	case BIOS:
		return slices.Clone(biosFlags), nil
	case UEFI:
		return slices.Clone(uefiFlags), nil
	default:
		return nil, ErrUnknownEnvironment
	}
}

// Composes the compiler flags for env under cfg.
//
// The result is the common flags, one -I per include directory, the
// environment flags, and finally the release flags if cfg.Release is set.
// Release mode only ever appends.
func Flags(env Environment, cfg Config) ([]string, error) {
	envFlags, err := EnvironmentFlags(env)
	if err != nil {
		return nil, err
	}

	n := len(commonFlags) + len(cfg.IncludeDirs) + len(envFlags) + len(releaseFlags)
	flags := make([]string, 0, n)

	flags = append(flags, commonFlags...)
	for _, dir := range cfg.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	flags = append(flags, envFlags...)

	if cfg.Release {
		flags = append(flags, releaseFlags...)
	}

	return flags, nil
}
