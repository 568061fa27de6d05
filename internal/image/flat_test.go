package image

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Writes fixed content to the objcopy destination.
type fakeStripper struct {
	content []byte
	err     error
}

func (f fakeStripper) Objcopy(ctx context.Context, in, out string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(out, f.content, 0644)
}

func TestFlatBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{name: "raw code", content: []byte{0xfa, 0x31, 0xc0, 0xeb, 0xfe}},
		{name: "single byte", content: []byte{0xf4}},
		{name: "empty", content: nil, wantErr: true},
		{name: "elf header", content: []byte("\x7fELF\x02\x01"), wantErr: true},
		{name: "pe header", content: []byte("MZ\x90\x00"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "bezos.bin")
			err := FlatBinary(context.Background(), fakeStripper{content: tt.content}, "bezos.elf", out)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) {
					t.Fatalf("err = %v, want ErrInvalidImage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FlatBinary: %v", err)
			}
		})
	}
}

func TestFlatBinaryToolError(t *testing.T) {
	boom := errors.New("objcopy failed")
	err := FlatBinary(context.Background(), fakeStripper{err: boom}, "a.elf", filepath.Join(t.TempDir(), "a.bin"))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
