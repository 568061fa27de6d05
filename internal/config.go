package internal

import (
	"strconv"
	"sync/atomic"
)

// Output modes. Seeded from ldflags, overridden by command line flags.
var (
	quietMode   atomic.Bool
	debugMode   atomic.Bool
	verboseMode atomic.Bool
)

func init() {
	for raw, mode := range map[*string]*atomic.Bool{
		&rawQuiet:   &quietMode,
		&rawDebug:   &debugMode,
		&rawVerbose: &verboseMode,
	} {
		if v, err := strconv.ParseBool(*raw); err == nil {
			mode.Store(v)
		}
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) { quietMode.Store(enabled) }

// Returns true if quiet mode is enabled.
func IsQuiet() bool { return quietMode.Load() }

// Enables or disables debug mode.
func SetDebug(enabled bool) { debugMode.Store(enabled) }

// Returns true if debug mode is enabled.
func IsDebug() bool { return debugMode.Load() }

// Enables or disables verbose logging.
func SetVerbose(enabled bool) { verboseMode.Store(enabled) }

// Returns true if verbose logging is enabled.
func IsVerbose() bool { return verboseMode.Load() }
