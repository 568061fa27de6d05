package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// Converts an ELF image to a flat binary.
type Stripper interface {
	Objcopy(ctx context.Context, in, out string) error
}

// Leading bytes of container formats that must not appear in a flat binary.
var containerMagics = [][]byte{
	[]byte("\x7fELF"),
	[]byte("MZ"),
}

// Writes the loadable sections of elf to out as a raw binary and checks the
// result is non-empty and carries no container header.
func FlatBinary(ctx context.Context, tools Stripper, elf, out string) error {
	if err := tools.Objcopy(ctx, elf, out); err != nil {
		return err
	}
	return checkFlat(out)
}

func checkFlat(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	defer f.Close()

	head := make([]byte, 4)
	n, err := io.ReadFull(f, head)
	if n == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidImage, path)
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	for _, magic := range containerMagics {
		if bytes.HasPrefix(head[:n], magic) {
			return fmt.Errorf("%w: %s starts with a %q header", ErrInvalidImage, path, magic)
		}
	}

	return nil
}
