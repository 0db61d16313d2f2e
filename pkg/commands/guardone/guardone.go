package guardone

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// GuardOneOptions defines the options for the GuardOne command.
type GuardOneOptions struct {
	// SourceDir is the guarded project directory.
	// Empty means the working directory.
	SourceDir string
	// Path is the file or directory to guard. Relative paths are taken
	// from the working directory.
	Path string
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// GuardOne moves a single path of an already guarded project into its
// storage directory and links it back. The returned view is set even when
// err is not nil.
func GuardOne(opts GuardOneOptions) (*display.TransactionView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "GuardOne").Str("source", opts.SourceDir).Str("path", opts.Path).Msg("Executing command")

	env, err := internal.NewEnv(opts.FS, opts.Settings)
	if err != nil {
		return nil, err
	}
	sourceDir, err := env.ResolveSourceDir(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	target, err := projectTarget(env.FS, sourceDir, opts.Path)
	if err != nil {
		return nil, err
	}

	state, err := env.Store.Load(sourceDir)
	if err != nil {
		return nil, err
	}

	result, err := env.Transaction().GuardOne(state, target)
	view := internal.NewTransactionView("guard-one", sourceDir, result)
	view.Target = target
	if err != nil {
		return view, err
	}

	log.Info().Str("sentinel", result.State.Sentinel).Str("target", target).Msg("Guard one complete")
	return view, nil
}

// projectTarget returns path relative to sourceDir. The final element is not
// resolved, so a symlink inside the project is guarded as the link itself.
func projectTarget(fsys types.FS, sourceDir, path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	abs, err := paths.ToAbsolute(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "invalid path %q", path)
	}
	abs, err = filesystem.EvalParent(fsys, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "failed to resolve %s", path).WithDetail("path", path)
	}

	rel, err := filepath.Rel(sourceDir, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidPath, "%s is not inside %s", abs, sourceDir).
			WithDetail("path", abs).
			WithDetail("source", sourceDir)
	}
	return rel, nil
}
