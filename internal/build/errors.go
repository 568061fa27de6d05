package build

import "errors"

var (
	ErrBuild         = errors.New("build failed")
	ErrUnknownTarget = errors.New("unknown target")
	ErrCatalog       = errors.New("invalid catalog")
)
