package toolchain

import "errors"

var (
	ErrToolFailed         = errors.New("tool exited with non-zero status")
	ErrToolLaunch         = errors.New("tool could not be started")
	ErrToolTimeout        = errors.New("tool timed out")
	ErrUnknownEnvironment = errors.New("unknown target environment")
)
