// Package paths provides centralized path handling for confguard.
//
// It implements the XDG Base Directory specification for confguard's own
// files and holds the pure path helpers the guard engine relies on:
//
//   - XDG locations (data, config, state) with environment overrides
//   - The on-disk naming conventions (project config, backup dir, back-link)
//   - Home expansion and absolutization of user supplied paths
//   - Target validation (relative, clean, inside the project)
//   - Relative symlink target computation
//
// # Environment Variables
//
//   - CONFGUARD_BASE_DIR: storage base directory (default: $XDG_DATA_HOME/confguard)
//   - XDG_DATA_HOME, XDG_CONFIG_HOME, XDG_STATE_HOME: standard XDG overrides
//
// # Layout
//
//	$XDG_DATA_HOME/confguard/guarded/<sentinel>/...        guarded content
//	$XDG_DATA_HOME/confguard/guarded/<sentinel>/.<sentinel>.confguard -> project
//	$XDG_CONFIG_HOME/confguard/config.toml                 user settings
//	$XDG_STATE_HOME/confguard/confguard.log                log file
package paths
