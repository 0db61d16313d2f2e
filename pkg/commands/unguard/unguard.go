package unguard

import (
	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// UnguardOptions defines the options for the Unguard command.
type UnguardOptions struct {
	// SourceDir is the guarded project directory. Empty means the working
	// directory.
	SourceDir string
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Unguard moves the stored files of a project back into it. The returned
// view is set even when err is not nil.
func Unguard(opts UnguardOptions) (*display.TransactionView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Unguard").Str("source", opts.SourceDir).Msg("Executing command")

	env, err := internal.NewEnv(opts.FS, opts.Settings)
	if err != nil {
		return nil, err
	}
	sourceDir, err := env.ResolveSourceDir(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	state, err := env.Store.Load(sourceDir)
	if err != nil {
		return nil, err
	}

	result, err := env.Transaction().Unguard(state)
	view := internal.NewTransactionView("unguard", sourceDir, result)
	if err != nil {
		return view, err
	}

	// The unguarded state no longer lists files; report what came back
	view.Files = state.StoredFiles
	view.Sentinel = state.Sentinel

	log.Info().Str("sentinel", state.Sentinel).Int("files", len(state.StoredFiles)).Msg("Unguard complete")
	return view, nil
}
