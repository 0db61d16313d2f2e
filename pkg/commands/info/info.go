package info

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/confguard/internal/version"
	"github.com/arthur-debert/confguard/pkg/commands/internal"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// EnvVars are the environment variables that influence confguard
var EnvVars = []string{
	paths.EnvBaseDir,
	"XDG_CONFIG_HOME",
	"XDG_DATA_HOME",
	"XDG_STATE_HOME",
}

// InfoOptions defines the options for the Info command.
type InfoOptions struct {
	// Settings are loaded from every layer when nil.
	Settings *config.Settings
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Info describes the installation, its settings and the guarded projects
// found in the storage root.
func Info(opts InfoOptions) (*display.InfoView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Info").Msg("Executing command")

	env, err := internal.NewEnv(opts.FS, opts.Settings)
	if err != nil {
		return nil, err
	}

	view := &display.InfoView{
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.Date,
		BaseDir:     env.Settings.BaseDir,
		StorageRoot: env.Settings.StorageRoot(),
		Relative:    env.Settings.Relative,
		ConfigFile:  paths.UserConfigPath(),
		LogFile:     paths.LogFilePath(),
		Sources:     env.Settings.Sources,
		Environment: make([]display.EnvVar, 0, len(EnvVars)),
	}
	for _, name := range EnvVars {
		view.Environment = append(view.Environment, display.EnvVar{Name: name, Value: os.Getenv(name)})
	}

	projects, err := guardedProjects(env)
	if err != nil {
		return nil, err
	}
	view.Projects = projects
	return view, nil
}

// guardedProjects lists the sentinel directories of the storage root
func guardedProjects(env *internal.Env) ([]display.GuardedProjectView, error) {
	log := logging.GetLogger("core.commands")
	location := env.Settings.Location()

	entries, err := env.FS.ReadDir(location.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return []display.GuardedProjectView{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read storage root %s", location.Root)
	}

	projects := make([]display.GuardedProjectView, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sentinel := entry.Name()
		project := display.GuardedProjectView{Sentinel: sentinel}

		sourceDir, err := backLinkSource(env.FS, location, sentinel)
		if err != nil {
			log.Debug().Err(err).Str("sentinel", sentinel).Msg("No usable back-link")
			project.Orphaned = true
			projects = append(projects, project)
			continue
		}
		project.SourceDir = sourceDir

		state, err := env.Store.Load(sourceDir)
		if err != nil || state.Sentinel != sentinel {
			project.Orphaned = true
		}
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Sentinel < projects[j].Sentinel
	})
	return projects, nil
}

func backLinkSource(fsys types.FS, location types.StorageLocation, sentinel string) (string, error) {
	link := location.BackLinkPath(sentinel)
	text, err := fsys.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(text) {
		dir, err := filesystem.EvalSymlinks(fsys, filepath.Dir(link))
		if err != nil {
			return "", err
		}
		text = filepath.Join(dir, text)
	}
	return filepath.Clean(text), nil
}
