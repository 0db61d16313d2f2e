package initialize

import (
	"fmt"

	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// DefaultTargets are written when no target is given
var DefaultTargets = []string{".envrc"}

// InitOptions defines the options for the Init command.
type InitOptions struct {
	// SourceDir is the project directory. Empty means the working directory.
	SourceDir string
	// Targets are the relative paths to list in the new file.
	Targets []string
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Init writes a starter confguard.toml into a project.
func Init(opts InitOptions) (*display.MessageView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Init").Str("source", opts.SourceDir).Strs("targets", opts.Targets).Msg("Executing command")

	env, err := internal.NewEnv(opts.FS, opts.Settings)
	if err != nil {
		return nil, err
	}
	sourceDir, err := env.ResolveSourceDir(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	targets := opts.Targets
	if len(targets) == 0 {
		targets = DefaultTargets
	}

	path, err := env.Store.Init(sourceDir, targets)
	if err != nil {
		return nil, err
	}

	return &display.MessageView{
		Command: "init",
		Message: fmt.Sprintf("Created %s in %s", paths.ProjectConfigFile, sourceDir),
		Paths:   []string{path},
	}, nil
}
