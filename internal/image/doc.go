// Package image turns linked kernel images into bootable artifacts.
//
// [FlatBinary] strips a BIOS kernel ELF down to the raw bytes the boot stub
// loads. [FATImage] builds a 1.44 MB FAT12 floppy image holding the UEFI
// application at the path firmware searches by default. [Fetch] downloads a
// prebuilt firmware image for running the UEFI build under an emulator.
//
// The external programs are reached through the small interfaces in this
// package; *toolchain.Driver implements all of them.
package image
