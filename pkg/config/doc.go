// Package config loads confguard settings and reads and writes project
// configuration files.
//
// Settings are layered with koanf, lowest priority first:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. base_dir default of $XDG_DATA_HOME/confguard
//  3. the user file at $XDG_CONFIG_HOME/confguard/config.toml
//  4. CONFGUARD_* environment variables (CONFGUARD_BASE_DIR, CONFGUARD_RELATIVE)
//  5. command line overrides
//
// A project is configured by a confguard.toml file in its root. The [config]
// section belongs to the user. Everything below the internal marker line is
// owned by confguard and rewritten on every save:
//
//	[config]
//	targets = [".envrc", ".run"]
//
//	#----------------------- confguard internal: DO NOT EDIT FROM HERE -----------------------
//	[_internal_]
//	sentinel = "myproj-1a2b3c4d"
//	relative = true
//	files = [".envrc", ".run"]
package config
