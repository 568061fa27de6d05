package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/bezos-os/bzbuild/internal/toolchain"
)

func TestParseEmpty(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	def := Default()
	if p.BuildDir != def.BuildDir || p.Timeout != def.Timeout || p.Tools != def.Tools {
		t.Fatalf("Parse(nil) = %+v, want defaults", p)
	}
	if !slices.Equal(p.BIOSSources, def.BIOSSources) || !slices.Equal(p.UEFISources, def.UEFISources) {
		t.Fatalf("sources = %v / %v, want defaults", p.BIOSSources, p.UEFISources)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
build-dir    = "out"
timeout      = "90s"
include-dirs = ["include"]

[env]
SOURCE_DATE_EPOCH = "0"
LC_ALL = "C"

[tools]
compiler = "clang++-18"
mcopy    = "/opt/mtools/bin/mcopy"

[bios]
boot-stub     = "boot/stage1.asm"
linker-script = "kernel.ld"
sources       = ["a.cpp", "b.cpp", "c.cpp"]

[uefi]
sources = []

[firmware]
url = "https://example.com/OVMF.fd.xz"
`)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.BuildDir != "out" {
		t.Errorf("BuildDir = %q, want out", p.BuildDir)
	}
	if p.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", p.Timeout)
	}
	if !slices.Equal(p.IncludeDirs, []string{"include"}) {
		t.Errorf("IncludeDirs = %v", p.IncludeDirs)
	}
	if !slices.Equal(p.Env, []string{"LC_ALL=C", "SOURCE_DATE_EPOCH=0"}) {
		t.Errorf("Env = %v", p.Env)
	}
	if p.Tools.Compiler != "clang++-18" || p.Tools.Mcopy != "/opt/mtools/bin/mcopy" {
		t.Errorf("Tools = %+v", p.Tools)
	}
	if p.Tools.Assembler != toolchain.DefaultTools().Assembler {
		t.Errorf("Assembler = %q, want default", p.Tools.Assembler)
	}
	if p.BootStub != "boot/stage1.asm" || p.LinkerScript != "kernel.ld" {
		t.Errorf("BootStub, LinkerScript = %q, %q", p.BootStub, p.LinkerScript)
	}
	if !slices.Equal(p.BIOSSources, []string{"a.cpp", "b.cpp", "c.cpp"}) {
		t.Errorf("BIOSSources = %v", p.BIOSSources)
	}
	if len(p.UEFISources) != 0 {
		t.Errorf("UEFISources = %v, want empty", p.UEFISources)
	}
	if p.FirmwareURL != "https://example.com/OVMF.fd.xz" {
		t.Errorf("FirmwareURL = %q", p.FirmwareURL)
	}
}

func TestParseTimeoutDisabled(t *testing.T) {
	p, err := Parse([]byte(`timeout = "0s"`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Timeout != 0 {
		t.Fatalf("Timeout = %v, want 0", p.Timeout)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "syntax", data: `build-dir = `},
		{name: "unknown key", data: `bulid-dir = "typo"`},
		{name: "unknown table key", data: "[tools]\ncc = \"gcc\""},
		{name: "bad timeout", data: `timeout = "soon"`},
		{name: "negative timeout", data: `timeout = "-1m"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bzbuild.toml")
	if err := os.WriteFile(path, []byte(`build-dir = "elsewhere"`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Path != path || p.BuildDir != "elsewhere" {
		t.Fatalf("Load = %+v", p)
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestDefaultIsFresh(t *testing.T) {
	a := Default()
	a.BIOSSources[0] = "mutated.cpp"
	if Default().BIOSSources[0] == "mutated.cpp" {
		t.Fatal("Default shares slices between calls")
	}
}
