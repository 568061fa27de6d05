package paths

import "errors"

var ErrBuildDir = errors.New("build directory unavailable")
