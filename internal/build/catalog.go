package build

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bezos-os/bzbuild/internal/project"
)

// Selects the pipeline a target runs.
type Kind int

const (
	KindFirmware Kind = iota + 1 // Download firmware and end the invocation.
	KindBIOS                     // Flat binary for the BIOS boot stub.
	KindUEFI                     // UEFI application on a FAT12 image.
)

func (k Kind) String() string {
	switch k {
	case KindFirmware:
		return "firmware"
	case KindBIOS:
		return "bios"
	case KindUEFI:
		return "uefi"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// A named entry of the catalog.
type Target struct {
	Name        string   // Command line token and build subdirectory.
	Kind        Kind     // Pipeline to run.
	Sources     []string // Ordered sources merged into the unity file. May be empty.
	Description string   // Shown by help.
}

// Ordered, immutable set of targets.
type Catalog struct {
	targets []Target
}

// Creates a catalog from targets in declaration order.
//
// Names must be unique, non-empty, usable as a directory name, and must not
// collide with the help and release tokens.
func NewCatalog(targets ...Target) (*Catalog, error) {
	seen := make(map[string]bool, len(targets))
	c := &Catalog{targets: make([]Target, 0, len(targets))}

	for _, t := range targets {
		switch {
		case t.Name == "" || strings.ContainsAny(t.Name, `/\`) || t.Name == "." || t.Name == "..":
			return nil, fmt.Errorf("%w: invalid target name %q", ErrCatalog, t.Name)
		case t.Name == HelpToken || t.Name == ReleaseToken:
			return nil, fmt.Errorf("%w: target name %q is reserved", ErrCatalog, t.Name)
		case seen[t.Name]:
			return nil, fmt.Errorf("%w: duplicate target %q", ErrCatalog, t.Name)
		case t.Kind < KindFirmware || t.Kind > KindUEFI:
			return nil, fmt.Errorf("%w: target %q has %v", ErrCatalog, t.Name, t.Kind)
		}

		seen[t.Name] = true
		t.Sources = slices.Clone(t.Sources)
		c.targets = append(c.targets, t)
	}

	return c, nil
}

// Returns the standard catalog: ovmf, bios, uefi.
func DefaultCatalog(p project.Project) (*Catalog, error) {
	return NewCatalog(
		Target{
			Name:        "ovmf",
			Kind:        KindFirmware,
			Description: "download ovmf firmware for qemu",
		},
		Target{
			Name:        "bios",
			Kind:        KindBIOS,
			Sources:     p.BIOSSources,
			Description: "build bezos targeting legacy bios",
		},
		Target{
			Name:        "uefi",
			Kind:        KindUEFI,
			Sources:     p.UEFISources,
			Description: "build bezos targeting uefi",
		},
	)
}

// Returns the targets in declaration order.
func (c *Catalog) Targets() []Target {
	out := make([]Target, len(c.targets))
	for i, t := range c.targets {
		t.Sources = slices.Clone(t.Sources)
		out[i] = t
	}
	return out
}

// Returns the target with the given name.
func (c *Catalog) Lookup(name string) (Target, bool) {
	for _, t := range c.targets {
		if t.Name == name {
			t.Sources = slices.Clone(t.Sources)
			return t, true
		}
	}
	return Target{}, false
}

// Returns the target names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.targets))
	for i, t := range c.targets {
		names[i] = t.Name
	}
	return names
}

// Writes every target's name and description.
func (c *Catalog) Describe(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "possible targets:"); err != nil {
		return err
	}
	for _, t := range c.targets {
		if _, err := fmt.Fprintf(w, "    - %s: %s\n", t.Name, t.Description); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "modifiers:\n    - %s: build with optimizations\n", ReleaseToken)
	return err
}
