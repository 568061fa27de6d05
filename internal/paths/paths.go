package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for the configuration subdirectory.
	appName = "bzbuild"

	// Default root of the build tree, relative to the working directory.
	DefaultBuildDir = "build"

	// Project configuration file looked up in the working directory.
	ProjectFile = "bzbuild.toml"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the per-user configuration file. The file may not exist.
func UserConfig() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Returns the directory that holds a target's artifacts.
func TargetDir(root, target string) string {
	return filepath.Join(root, target)
}

// Creates the build root and the target's subdirectory if they are missing
// and returns the target directory.
//
// Existing directories are left untouched. A non-directory in the way is an
// error.
func EnsureTarget(root, target string) (string, error) {
	if target == "" || target != filepath.Base(target) {
		return "", fmt.Errorf("%w: invalid target name %q", ErrBuildDir, target)
	}

	if err := ensureDir(root); err != nil {
		return "", err
	}

	dir := TargetDir(root, target)
	if err := ensureDir(dir); err != nil {
		return "", err
	}

	return dir, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildDir, err)
	}
	return nil
}
