package show

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// States of targets that were not moved into storage
const (
	StatePresent = "present"
	StateSymlink = "symlink"
	StateMissing = "missing"
)

// ShowOptions defines the options for the Show command.
type ShowOptions struct {
	// SourceDir is the project directory. Empty means the working directory.
	SourceDir string
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Show reports the guard state of a project and of each of its targets.
func Show(opts ShowOptions) (*display.ProjectView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Show").Str("source", opts.SourceDir).Msg("Executing command")

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

	view := &display.ProjectView{
		SourceDir: sourceDir,
		Guarded:   state.IsGuarded(),
		Sentinel:  state.Sentinel,
		Relative:  state.Relative,
		Targets:   []display.TargetView{},
	}

	stored := map[string]links.LinkStatus{}
	if state.IsGuarded() {
		view.StorageDir = env.Settings.Location().SentinelDir(state.Sentinel)
		for _, st := range links.New(env.FS).Status(sourceDir, view.StorageDir, state.StoredFiles) {
			stored[st.Target] = st
		}
	}

	for _, target := range state.Targets {
		if st, ok := stored[target]; ok {
			view.Targets = append(view.Targets, storedView(st))
			delete(stored, target)
			continue
		}
		view.Targets = append(view.Targets, display.TargetView{
			Path:  target,
			State: localState(env.FS, filepath.Join(sourceDir, target)),
		})
	}

	// Files dropped from [config] after guarding are still in storage
	for _, target := range state.StoredFiles {
		if st, ok := stored[target]; ok {
			view.Targets = append(view.Targets, storedView(st))
		}
	}

	return view, nil
}

func storedView(st links.LinkStatus) display.TargetView {
	return display.TargetView{
		Path:   st.Target,
		State:  string(st.State),
		Stored: true,
		Dest:   st.Dest,
	}
}

func localState(fsys types.FS, path string) string {
	info, err := fsys.Lstat(path)
	switch {
	case err != nil:
		return StateMissing
	case info.Mode()&fs.ModeSymlink != 0:
		return StateSymlink
	default:
		return StatePresent
	}
}
