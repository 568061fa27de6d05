package image

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bezos-os/bzbuild/internal/paths"
	"github.com/ulikunitz/xz"
)

var firmware = bytes.Repeat([]byte("OVMF"), 4096)

func firmwareServer(t *testing.T) *httptest.Server {
	t.Helper()

	var compressed bytes.Buffer
	zw, err := xz.NewWriter(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write(firmware); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/OVMF.fd", func(w http.ResponseWriter, r *http.Request) {
		w.Write(firmware)
	})
	mux.HandleFunc("/OVMF.fd.xz", func(w http.ResponseWriter, r *http.Request) {
		w.Write(compressed.Bytes())
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := firmwareServer(t)

	for _, name := range []string{"/OVMF.fd", "/OVMF.fd.xz"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			path, err := Fetch(context.Background(), srv.Client(), srv.URL+name, dir)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if path != filepath.Join(dir, FirmwareFile) {
				t.Fatalf("path = %q, want %q", path, filepath.Join(dir, FirmwareFile))
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, firmware) {
				t.Fatalf("downloaded %d bytes, want %d", len(data), len(firmware))
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != paths.DefaultFileMode {
				t.Fatalf("mode = %v, want %v", info.Mode().Perm(), paths.DefaultFileMode)
			}
		})
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := firmwareServer(t)
	dir := t.TempDir()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.fd", dir)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("failed download left %d files behind", len(entries))
	}
}

func TestFetchCorruptArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xz at all"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/OVMF.fd.xz", dir); !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FirmwareFile)); !os.IsNotExist(err) {
		t.Fatalf("firmware file exists after corrupt download")
	}
}
