package image

import (
	"context"
	"fmt"
	"os"
	"path"
)

const (

	// Size of the UEFI boot image, a 3.5" high-density floppy.
	FloppySize = 1474560

	// Directory UEFI firmware searches for a removable-media boot loader.
	BootDir = "/EFI/BOOT"

	// Default boot loader name for x86-64 firmware.
	BootFile = "BOOTX64.EFI"
)

// Formats and populates FAT images.
type FATWriter interface {
	Mformat(ctx context.Context, image string, kilobytes int) error
	Mmd(ctx context.Context, image, dir string) error
	Mcopy(ctx context.Context, image, src, dest string) error
}

// Builds a FAT12 floppy image at out containing app as
// /EFI/BOOT/BOOTX64.EFI. Any existing file at out is replaced.
func FATImage(ctx context.Context, tools FATWriter, app, out string) error {
	if _, err := os.Stat(app); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	if err := blank(out, FloppySize); err != nil {
		return err
	}

	if err := tools.Mformat(ctx, out, FloppySize/1024); err != nil {
		return err
	}

	for _, dir := range parents(BootDir) {
		if err := tools.Mmd(ctx, out, dir); err != nil {
			return err
		}
	}

	if err := tools.Mcopy(ctx, out, app, path.Join(BootDir, BootFile)); err != nil {
		return err
	}

	info, err := os.Stat(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if info.Size() != FloppySize {
		return fmt.Errorf("%w: %s is %d bytes, want %d", ErrInvalidImage, out, info.Size(), FloppySize)
	}

	return nil
}

// Creates a zero-filled file of the given size.
func blank(name string, size int64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Returns every directory on the way to dir, outermost first.
// parents("/EFI/BOOT") is ["/EFI", "/EFI/BOOT"].
func parents(dir string) []string {
	dir = path.Clean("/" + dir)
	if dir == "/" {
		return nil
	}
	return append(parents(path.Dir(dir)), dir)
}
