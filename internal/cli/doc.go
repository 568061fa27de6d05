// Parses flags and configures logging for bzbuild.
//
// The command line is a set of flags followed by a set of tokens:
//
//	bzbuild [flags] [help | release | <target>...]
//
// Flags:
//
//	-q, --quiet       Suppress informational output.
//	-v, --verbose     Enable verbose output.
//	-d, --debug       Enable debug output.
//	-C, --config      Project file to load instead of the default search.
//	-o, --build-dir   Root of the build tree.
//	-t, --timeout     Per-tool timeout; 0 disables it.
//	    --version     Show version information.
//
// Flags override the project file, which overrides built-in defaults. Log
// level flags override build-time defaults set via linker flags. After
// parsing, the global logger is reconfigured to reflect the final level and
// verbosity before any target runs.
package cli
