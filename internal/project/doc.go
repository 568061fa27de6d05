// Package project loads the bzbuild.toml build description.
//
// Every key is optional; anything left out keeps the built-in default from
// [Default]. A complete file looks like this:
//
//	build-dir    = "build"
//	timeout      = "10m"
//	include-dirs = [".", "src", "src/kernel"]
//
//	[env]
//	SOURCE_DATE_EPOCH = "0"
//
//	[tools]
//	assembler  = "nasm"
//	compiler   = "clang++"
//	linker     = "ld.lld"
//	efi-linker = "lld-link"
//	objcopy    = "objcopy"
//	mformat    = "mformat"
//	mmd        = "mmd"
//	mcopy      = "mcopy"
//
//	[bios]
//	boot-stub     = "src/boot/bios/boot.asm"
//	linker-script = "src/link.ld"
//	sources       = ["src/kernel/kmain.cpp", "src/kernel/mm/mm.cpp"]
//
//	[uefi]
//	sources = ["src/kernel/kmain.cpp", "src/kernel/mm/mm.cpp", "src/boot/uefi/uefi.cpp"]
//
//	[firmware]
//	url = "https://retrage.github.io/edk2-nightly/bin/RELEASEX64_OVMF.fd"
//
// The file is looked up in the working directory first, then in the user
// configuration directory (see paths.UserConfig).
package project
