package build

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bezos-os/bzbuild/internal/image"
	"github.com/bezos-os/bzbuild/internal/toolchain"
	"github.com/bezos-os/bzbuild/internal/unity"
)

// Fixed artifact names inside a target directory.
const (
	bootObject    = "boot.o"
	unityObject   = "unity.o"
	kernelELF     = "bezos.elf"
	kernelBinary  = "bezos.bin"
	uefiImageFile = "uefi.img"
)

// Common contract of the three pipelines.
//
// A pipeline builds one target inside dir and returns the path of its final
// artifact. halt asks the dispatcher to end the invocation after this target.
type pipeline interface {
	run(ctx context.Context, drv *toolchain.Driver, t Target, dir string) (artifact string, halt bool, err error)
}

// Returns the pipeline for a target kind.
func (r *runner) pipelineFor(k Kind) pipeline {
	switch k {
	case KindFirmware:
		return firmwarePipeline{url: r.project.FirmwareURL, client: r.client, timeout: r.project.Timeout}
	case KindBIOS:
		return biosPipeline{bootStub: r.project.BootStub, linkerScript: r.project.LinkerScript}
	case KindUEFI:
		return uefiPipeline{}
	default:
		return nil
	}
}

// Assembles the boot stub, compiles the kernel, links it at the addresses
// of the linker script and strips it to a flat binary.
type biosPipeline struct {
	bootStub     string
	linkerScript string
}

func (p biosPipeline) run(ctx context.Context, drv *toolchain.Driver, t Target, dir string) (string, bool, error) {
	src, err := unity.WriteFile(dir, t.Sources)
	if err != nil {
		return "", false, err
	}

	boot := filepath.Join(dir, bootObject)
	if err := drv.Assemble(ctx, p.bootStub, boot); err != nil {
		return "", false, err
	}

	obj := filepath.Join(dir, unityObject)
	if err := drv.Compile(ctx, toolchain.BIOS, src, obj); err != nil {
		return "", false, err
	}

	elf := filepath.Join(dir, kernelELF)
	if err := drv.LinkELF(ctx, p.linkerScript, []string{boot, obj}, elf); err != nil {
		return "", false, err
	}

	bin := filepath.Join(dir, kernelBinary)
	if err := image.FlatBinary(ctx, drv, elf, bin); err != nil {
		return "", false, err
	}

	return bin, false, nil
}

// Compiles the kernel as a UEFI application and puts it on a FAT12 image
// at the removable-media boot path.
type uefiPipeline struct{}

func (uefiPipeline) run(ctx context.Context, drv *toolchain.Driver, t Target, dir string) (string, bool, error) {
	src, err := unity.WriteFile(dir, t.Sources)
	if err != nil {
		return "", false, err
	}

	obj := filepath.Join(dir, unityObject)
	if err := drv.Compile(ctx, toolchain.UEFI, src, obj); err != nil {
		return "", false, err
	}

	app := filepath.Join(dir, image.BootFile)
	if err := drv.LinkEFI(ctx, []string{obj}, app); err != nil {
		return "", false, err
	}

	img := filepath.Join(dir, uefiImageFile)
	if err := image.FATImage(ctx, drv, app, img); err != nil {
		return "", false, err
	}

	return img, false, nil
}

// Downloads the firmware image and ends the invocation. The download is
// bounded by the same timeout as a tool invocation.
type firmwarePipeline struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func (p firmwarePipeline) run(ctx context.Context, drv *toolchain.Driver, t Target, dir string) (string, bool, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	path, err := image.Fetch(ctx, p.client, p.url, dir)
	if err != nil {
		return "", false, err
	}

	slog.Info("firmware target ends the invocation", "target", t.Name)
	return path, true, nil
}
