// Package unity merges a target's sources into a single translation unit.
//
// The generated file holds one #include directive per source, in the order
// given, and is the only file handed to the compiler for that target. The
// same ordered list always produces the same bytes.
package unity

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bezos-os/bzbuild/internal/paths"
)

// Name of the generated file inside the target's build directory.
const FileName = "unity.cpp"

var ErrInvalidSource = errors.New("invalid source path")

// Writes the include directives for sources to w.
//
// Paths are written with forward slashes. A path that is empty or contains a
// quote, backslash or line break cannot be expressed in a quoted include and
// is rejected before anything is written.
func Generate(w io.Writer, sources []string) error {
	for _, src := range sources {
		if err := validate(src); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	for _, src := range sources {
		fmt.Fprintf(bw, "#include \"%s\"\n", filepath.ToSlash(src))
	}
	return bw.Flush()
}

// Generates dir/unity.cpp from sources and returns its path. An existing
// file is overwritten.
func WriteFile(dir string, sources []string) (string, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, sources); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), paths.DefaultFileMode); err != nil {
		return "", err
	}

	return path, nil
}

func validate(src string) error {
	if src == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidSource)
	}
	if strings.ContainsAny(src, "\"\\\n\r") {
		return fmt.Errorf("%w: %q", ErrInvalidSource, src)
	}
	return nil
}
