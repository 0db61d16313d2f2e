// Package internal holds the setup shared by the project commands.
package internal

import (
	"os"

	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/guard"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// Env bundles the collaborators every command works with
type Env struct {
	FS       types.FS
	Settings *config.Settings
	Store    *config.ProjectStore
}

// NewEnv fills in defaults for a nil filesystem (the OS) and nil settings
// (loaded from every layer without overrides).
func NewEnv(fsys types.FS, settings *config.Settings) (*Env, error) {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if settings == nil {
		loaded, err := config.LoadSettings(nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load settings")
		}
		settings = loaded
	}
	return &Env{
		FS:       fsys,
		Settings: settings,
		Store:    config.NewProjectStore(fsys, settings.Relative),
	}, nil
}

// Transaction returns a guard transaction against the configured storage
func (e *Env) Transaction() *guard.Transaction {
	return guard.New(e.FS, e.Store, e.Settings.Location())
}

// ResolveSourceDir turns dir into the absolute, symlink-free path of an
// existing directory. An empty dir means the working directory.
func (e *Env) ResolveSourceDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "failed to get working directory")
		}
		dir = wd
	}

	abs, err := paths.ToAbsolute(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "invalid project directory %q", dir)
	}

	info, err := e.FS.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrInvalidPath, "project directory does not exist: %s", abs).
				WithDetail("path", abs)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", abs)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrInvalidPath, "not a directory: %s", abs).WithDetail("path", abs)
	}

	// Links and the back-link are computed from the real location
	resolved, err := filesystem.EvalSymlinks(e.FS, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "failed to resolve %s", abs).WithDetail("path", abs)
	}
	return resolved, nil
}

// NewTransactionView converts a transaction result for rendering
func NewTransactionView(command, sourceDir string, result guard.Result) *display.TransactionView {
	view := &display.TransactionView{
		Command:    command,
		SourceDir:  result.State.SourceDir,
		Sentinel:   result.State.Sentinel,
		Phase:      string(result.Phase),
		Files:      result.State.StoredFiles,
		RolledBack: result.RolledBack,
		Warnings:   result.Warnings,
	}
	if view.SourceDir == "" {
		view.SourceDir = sourceDir
	}
	return view
}
