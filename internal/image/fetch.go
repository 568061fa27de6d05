package image

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bezos-os/bzbuild/internal/paths"
	"github.com/ulikunitz/xz"
)

// Name of the downloaded firmware image inside the target directory.
const FirmwareFile = "OVMF.fd"

// Downloads the firmware image at url into dir/OVMF.fd and returns its path.
//
// URLs ending in .xz are decompressed on the fly. The file is written under
// a temporary name and renamed once complete, so a failed download never
// leaves a truncated image behind.
func Fetch(ctx context.Context, client *http.Client, url, dir string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	slog.Info("downloading firmware", "url", url)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(req.URL.Path, ".xz") {
		zr, err := xz.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrFetch, err)
		}
		body = zr
	}

	dest := filepath.Join(dir, FirmwareFile)
	n, err := writeAtomic(dest, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	slog.Info("firmware downloaded", "path", dest, "bytes", n)
	return dest, nil
}

func writeAtomic(dest string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Chmod(paths.DefaultFileMode); err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}

	return n, os.Rename(tmp.Name(), dest)
}
