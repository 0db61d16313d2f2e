package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
)

// InternalMarker separates the user section of confguard.toml from the
// section confguard rewrites on every save.
const InternalMarker = "#----------------------- confguard internal: DO NOT EDIT FROM HERE -----------------------"

type projectFile struct {
	Config   configSection    `toml:"config"`
	Internal *internalSection `toml:"_internal_"`
}

type configSection struct {
	Targets  []string `toml:"targets"`
	Relative *bool    `toml:"relative,omitempty"`
}

type internalSection struct {
	Sentinel string   `toml:"sentinel"`
	Relative bool     `toml:"relative"`
	Files    []string `toml:"files"`
}

// ProjectStore reads and writes confguard.toml files through a types.FS
type ProjectStore struct {
	fs              types.FS
	defaultRelative bool
}

// NewProjectStore returns a store. defaultRelative is the link mode of
// projects that set none themselves.
func NewProjectStore(fsys types.FS, defaultRelative bool) *ProjectStore {
	return &ProjectStore{fs: fsys, defaultRelative: defaultRelative}
}

// Load reads the project configuration and guard state of sourceDir
func (s *ProjectStore) Load(sourceDir string) (types.ProjectState, error) {
	logger := logging.GetLogger("config.project")

	path := paths.ProjectConfigPath(sourceDir)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ProjectState{}, errors.Newf(errors.ErrConfigLoad, "no %s found in %s", paths.ProjectConfigFile, sourceDir).
				WithDetail("path", path)
		}
		return types.ProjectState{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path)
	}

	var doc projectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return types.ProjectState{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	if len(doc.Config.Targets) == 0 {
		return types.ProjectState{}, errors.Newf(errors.ErrConfigValid, "%s lists no targets", path).
			WithDetail("path", path)
	}
	if err := paths.ValidateTargets(doc.Config.Targets); err != nil {
		return types.ProjectState{}, err
	}

	state := types.ProjectState{
		SourceDir: sourceDir,
		Targets:   doc.Config.Targets,
		Relative:  s.defaultRelative,
	}
	if doc.Config.Relative != nil {
		state.Relative = *doc.Config.Relative
	}

	if doc.Internal != nil && doc.Internal.Sentinel != "" {
		if err := paths.ValidateSentinel(doc.Internal.Sentinel); err != nil {
			return types.ProjectState{}, errors.Wrapf(err, errors.ErrConfigValid, "invalid sentinel in %s", path).
				WithDetail("path", path)
		}
		if err := paths.ValidateTargets(doc.Internal.Files); err != nil {
			return types.ProjectState{}, errors.Wrapf(err, errors.ErrConfigValid, "invalid stored files in %s", path)
		}
		state.Sentinel = doc.Internal.Sentinel
		state.StoredFiles = doc.Internal.Files
		// Links must be handled in the form they were created with
		state.Relative = doc.Internal.Relative
	}

	logger.Debug().
		Str("path", path).
		Strs("targets", state.Targets).
		Str("sentinel", state.Sentinel).
		Msg("Project configuration loaded")
	return state, nil
}

// Save writes the guard state of a project. The user section is kept as
// written; the internal section is replaced, or dropped when the project is
// not guarded.
func (s *ProjectStore) Save(state types.ProjectState) error {
	logger := logging.GetLogger("config.project")

	path := paths.ProjectConfigPath(state.SourceDir)

	var userPart string
	data, err := s.fs.ReadFile(path)
	switch {
	case err == nil:
		userPart = splitUserPart(string(data))
	case os.IsNotExist(err):
		rendered, err := renderConfigSection(state.Targets)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigSave, "failed to render %s", path)
		}
		userPart = rendered
	default:
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to read %s", path)
	}

	var buf bytes.Buffer
	buf.WriteString(strings.TrimRight(userPart, "\n"))
	buf.WriteString("\n")

	if state.IsGuarded() {
		internal, err := toml.Marshal(struct {
			Internal internalSection `toml:"_internal_"`
		}{internalSection{
			Sentinel: state.Sentinel,
			Relative: state.Relative,
			Files:    nonNil(state.StoredFiles),
		}})
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigSave, "failed to encode internal state for %s", path)
		}
		buf.WriteString("\n")
		buf.WriteString(InternalMarker)
		buf.WriteString("\n")
		buf.Write(internal)
	}

	if err := s.writeAtomic(path, buf.Bytes()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", path)
	}

	logger.Debug().Str("path", path).Str("sentinel", state.Sentinel).Msg("Project state saved")
	return nil
}

// Init writes a starter confguard.toml listing targets. An existing file is
// never overwritten.
func (s *ProjectStore) Init(sourceDir string, targets []string) (string, error) {
	path := paths.ProjectConfigPath(sourceDir)
	if _, err := s.fs.Lstat(path); err == nil {
		return path, errors.Newf(errors.ErrConfigExists, "%s already exists", path).WithDetail("path", path)
	}
	if len(targets) == 0 {
		return path, errors.New(errors.ErrInvalidInput, "at least one target is required")
	}
	if err := paths.ValidateTargets(targets); err != nil {
		return path, err
	}

	section, err := renderConfigSection(targets)
	if err != nil {
		return path, errors.Wrapf(err, errors.ErrConfigSave, "failed to render %s", path)
	}

	content := "# confguard project configuration\n" +
		"# Targets are moved out of the project by `confguard guard` and replaced by symlinks.\n" +
		section +
		"# relative = true\n"

	if err := s.writeAtomic(path, []byte(content)); err != nil {
		return path, errors.Wrapf(err, errors.ErrConfigSave, "failed to write %s", path)
	}
	return path, nil
}

func (s *ProjectStore) writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := s.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}

// splitUserPart returns the content above the internal marker. A hand-made
// [_internal_] table without the marker is cut as well.
func splitUserPart(content string) string {
	if idx := strings.Index(content, InternalMarker); idx >= 0 {
		return content[:idx]
	}
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.TrimSpace(line) == "[_internal_]" {
			return content[:offset]
		}
		offset += len(line)
	}
	return content
}

func renderConfigSection(targets []string) (string, error) {
	out, err := toml.Marshal(struct {
		Config configSection `toml:"config"`
	}{configSection{Targets: nonNil(targets)}})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
