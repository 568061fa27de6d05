// Resolves the on-disk locations bzbuild reads and writes.
//
// The build tree is a root directory with one subdirectory per target. Both
// are created on demand by [EnsureTarget] and never cleaned, so artifacts
// from earlier runs stay in place until a later run overwrites them. Nothing
// guards the tree against two concurrent invocations.
//
// The user configuration file follows XDG conventions on Linux and
// platform-native conventions on macOS and Windows:
//
//	Linux:   $XDG_CONFIG_HOME/bzbuild/config.toml
//	macOS:   ~/Library/Application Support/bzbuild/config.toml
package paths
