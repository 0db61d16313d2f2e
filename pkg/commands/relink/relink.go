package relink

import (
	"fmt"

	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// RelinkOptions defines the options for the Relink command.
type RelinkOptions struct {
	// SourceDir is the guarded project directory. Empty means the working
	// directory.
	SourceDir string
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Relink recreates the missing forward links and back-link of a guarded
// project, for instance after a fresh checkout.
func Relink(opts RelinkOptions) (*display.MessageView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Relink").Str("source", opts.SourceDir).Msg("Executing command")

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
	if !state.IsGuarded() {
		return nil, errors.Newf(errors.ErrNotGuarded, "project is not guarded: %s", sourceDir)
	}

	location := env.Settings.Location()
	sentinelDir := location.SentinelDir(state.Sentinel)
	if info, err := env.FS.Stat(sentinelDir); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrFileNotFound, "storage directory of %s not found: %s", state.Sentinel, sentinelDir).
			WithDetail("path", sentinelDir)
	}

	manager := links.New(env.FS)
	created, err := manager.Relink(sourceDir, sentinelDir, state.StoredFiles, state.Relative)
	if err != nil {
		return nil, err
	}

	if err := manager.CreateBackLink(sentinelDir, sourceDir, state.Sentinel, state.Relative); err != nil {
		if !errors.IsErrorCode(err, errors.ErrSymlinkExists) {
			return nil, err
		}
	} else {
		created = append(created, location.BackLinkPath(state.Sentinel))
	}

	message := fmt.Sprintf("All links of %s are in place", sourceDir)
	if len(created) > 0 {
		message = fmt.Sprintf("Recreated %d link(s) for %s", len(created), sourceDir)
	}
	return &display.MessageView{Command: "relink", Message: message, Paths: created}, nil
}
