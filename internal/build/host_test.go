package build_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bezos-os/bzbuild/internal/build"
	"github.com/bezos-os/bzbuild/internal/project"
	"github.com/bezos-os/bzbuild/internal/toolchain"
)

func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

// Writes a minimal freestanding kernel: a boot stub calling kmain, two
// kernel sources, and a higher-half linker script.
func hostProject(t *testing.T) project.Project {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"boot.asm": strings.Join([]string{
			"bits 64",
			"section .text",
			"global _start",
			"extern kmain",
			"_start:",
			"    call kmain",
			".halt:",
			"    hlt",
			"    jmp .halt",
			"",
		}, "\n"),
		"kmain.cpp": "extern \"C\" int mm_pages();\n\nextern \"C\" void kmain() {\n    volatile int pages = mm_pages();\n    (void)pages;\n}\n",
		"mm.cpp":    "extern \"C\" int mm_pages() {\n    return 512;\n}\n",
		"link.ld": strings.Join([]string{
			"ENTRY(_start)",
			"SECTIONS {",
			"    . = 0xffffffff80100000;",
			"    .text : { *(.text*) }",
			"    .rodata : { *(.rodata*) }",
			"    .data : { *(.data*) }",
			"    .bss : { *(.bss*) *(COMMON) }",
			"}",
			"",
		}, "\n"),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	p := project.Default()
	p.BuildDir = filepath.Join(root, "build")
	p.IncludeDirs = []string{root}
	p.BootStub = filepath.Join(root, "boot.asm")
	p.LinkerScript = filepath.Join(root, "link.ld")
	p.BIOSSources = []string{filepath.Join(root, "kmain.cpp"), filepath.Join(root, "mm.cpp")}
	return p
}

func TestRunBIOSHostTools(t *testing.T) {
	p := hostProject(t)
	requireTools(t, p.Tools.Assembler, p.Tools.Compiler, p.Tools.Linker, p.Tools.Objcopy)

	for _, tokens := range [][]string{{"bios"}, {"bios", "release"}} {
		report, err := build.Run(context.Background(), build.Options{
			Project:  p,
			Tokens:   tokens,
			Executor: toolchain.HostExecutor{},
		})
		if err != nil {
			t.Fatalf("Run(%v): %v", tokens, err)
		}

		dir := filepath.Join(p.BuildDir, "bios")

		elf, err := os.ReadFile(filepath.Join(dir, "bezos.elf"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(elf, []byte("\x7fELF")) {
			t.Fatalf("Run(%v): bezos.elf is not an ELF file", tokens)
		}

		bin, err := os.ReadFile(filepath.Join(dir, "bezos.bin"))
		if err != nil {
			t.Fatal(err)
		}
		if len(bin) == 0 || bytes.HasPrefix(bin, []byte("\x7fELF")) {
			t.Fatalf("Run(%v): bezos.bin is %d bytes with header %x", tokens, len(bin), bin[:min(len(bin), 4)])
		}

		if res := report.Results[0]; res.Artifact != filepath.Join(dir, "bezos.bin") || len(res.Outcomes) != 4 {
			t.Errorf("Run(%v): result = %+v", tokens, res)
		}
	}
}
