package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/confguard/pkg/errors"
)

// Environment variable names
const (
	// EnvBaseDir overrides the storage base directory
	EnvBaseDir = "CONFGUARD_BASE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files.
// These names are on-disk artifacts shared by every guarded project and must
// stay stable to remain compatible with projects guarded by earlier runs.
const (
	// AppDirName is the directory name for confguard-specific files
	AppDirName = "confguard"

	// GuardedDirName is the subdirectory of the base dir holding sentinel dirs
	GuardedDirName = "guarded"

	// ProjectConfigFile is the per-project configuration file
	ProjectConfigFile = "confguard.toml"

	// UserConfigFile is the user-level settings file inside the config dir
	UserConfigFile = "config.toml"

	// UserConfigYAMLFile is read when UserConfigFile does not exist
	UserConfigYAMLFile = "config.yaml"

	// BackupDirName is the transient backup directory created next to targets
	BackupDirName = "confguard.bkp"

	// BackLinkSuffix is the marker suffix of the back-link file name
	BackLinkSuffix = "confguard"

	// LogFileName is the name of the log file
	LogFileName = "confguard.log"
)

// DataHome returns the XDG data home, honoring a runtime XDG_DATA_HOME
func DataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return xdg.DataHome
}

// ConfigHome returns the XDG config home, honoring a runtime XDG_CONFIG_HOME
func ConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return xdg.ConfigHome
}

// StateHome returns the XDG state home, honoring a runtime XDG_STATE_HOME
func StateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return xdg.StateHome
}

// DefaultBaseDir returns the storage base directory used when neither the
// environment nor the user config names one.
func DefaultBaseDir() string {
	return filepath.Join(DataHome(), AppDirName)
}

// StorageRoot returns the directory holding all sentinel dirs for a base dir
func StorageRoot(baseDir string) string {
	return filepath.Join(baseDir, GuardedDirName)
}

// UserConfigPath returns the path of the user-level settings file
func UserConfigPath() string {
	return filepath.Join(ConfigHome(), AppDirName, UserConfigFile)
}

// UserConfigYAMLPath returns the path of the YAML form of the settings file
func UserConfigYAMLPath() string {
	return filepath.Join(ConfigHome(), AppDirName, UserConfigYAMLFile)
}

// LogFilePath returns the path to the log file
func LogFilePath() string {
	return filepath.Join(StateHome(), AppDirName, LogFileName)
}

// ProjectConfigPath returns the path of a project's confguard.toml
func ProjectConfigPath(sourceDir string) string {
	return filepath.Join(sourceDir, ProjectConfigFile)
}

// BackupDir returns the backup directory used while mutating dir
func BackupDir(dir string) string {
	return filepath.Join(dir, BackupDirName)
}

// BackLinkName returns the file name of the back-link for a sentinel
func BackLinkName(sentinel string) string {
	return "." + sentinel + "." + BackLinkSuffix
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ToAbsolute expands ~ and returns a clean absolute path
func ToAbsolute(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidPath, "path cannot be empty")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "failed to get absolute path for %s", path)
	}
	return abs, nil
}
