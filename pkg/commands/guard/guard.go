package guard

import (
	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// GuardOptions defines the options for the Guard command.
type GuardOptions struct {
	// SourceDir is the project directory holding confguard.toml.
	// Empty means the working directory.
	SourceDir string
	// Absolute creates absolute symlinks instead of relative ones.
	Absolute bool
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Guard moves the configured targets of a project into storage and links
// them back. The returned view is set even when err is not nil.
func Guard(opts GuardOptions) (*display.TransactionView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Guard").Str("source", opts.SourceDir).Msg("Executing command")

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
	if opts.Absolute && !state.IsGuarded() {
		state.Relative = false
	}

	result, err := env.Transaction().Guard(state)
	view := internal.NewTransactionView("guard", sourceDir, result)
	if err != nil {
		return view, err
	}

	log.Info().Str("sentinel", result.State.Sentinel).Int("files", len(result.State.StoredFiles)).Msg("Guard complete")
	return view, nil
}
