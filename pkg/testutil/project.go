package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/confguard/pkg/types"
)

// TestProject is a project directory plus a storage root, both under one
// temporary directory.
type TestProject struct {
	Root    string // Temporary root holding both trees
	Dir     string // Project source directory
	Storage string // Storage root for sentinel dirs
}

// SetupTestProject creates an empty project named name and an empty storage root
func SetupTestProject(t *testing.T, name string) *TestProject {
	t.Helper()

	tmpDir := RealTempDir(t)

	p := &TestProject{
		Root:    tmpDir,
		Dir:     filepath.Join(tmpDir, "projects", name),
		Storage: filepath.Join(tmpDir, "data", "confguard", "guarded"),
	}
	require.NoError(t, os.MkdirAll(p.Dir, 0755))
	require.NoError(t, os.MkdirAll(p.Storage, 0755))
	return p
}

// AddFile adds a file to the project, creating parent directories
func (p *TestProject) AddFile(t *testing.T, rel, content string) string {
	t.Helper()
	return CreateFile(t, p.Dir, rel, content)
}

// AddDir adds an empty directory to the project
func (p *TestProject) AddDir(t *testing.T, rel string) string {
	t.Helper()
	return CreateDir(t, p.Dir, rel)
}

// Path returns the absolute path of rel inside the project
func (p *TestProject) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// State returns an unguarded project state for the given targets
func (p *TestProject) State(targets ...string) types.ProjectState {
	return types.ProjectState{
		SourceDir: p.Dir,
		Targets:   targets,
		Relative:  true,
	}
}

// Location returns the storage location rooted at p.Storage
func (p *TestProject) Location() types.StorageLocation {
	return types.StorageLocation{Root: p.Storage}
}

// SetupEnvrcProject builds the reference layout used across engine tests:
// a .envrc file, a .run directory with two files, and xxx/xxx.txt.
func SetupEnvrcProject(t *testing.T) (*TestProject, types.ProjectState) {
	t.Helper()

	p := SetupTestProject(t, "myproj")
	p.AddFile(t, ".envrc", "export FOO=bar\n")
	p.AddFile(t, ".run/build.run.xml", "<configuration name=\"build\"/>\n")
	p.AddFile(t, ".run/test.run.xml", "<configuration name=\"test\"/>\n")
	p.AddFile(t, "xxx/xxx.txt", "xxx\n")
	p.AddFile(t, "README.md", "# myproj\n")

	return p, p.State(".envrc", ".run", "xxx/xxx.txt")
}

// BaseDir returns the settings base dir whose storage root is p.Storage
func (p *TestProject) BaseDir() string {
	return filepath.Dir(p.Storage)
}

// WriteConfig writes a confguard.toml listing targets in its [config] section
func (p *TestProject) WriteConfig(t *testing.T, targets ...string) string {
	t.Helper()

	quoted := make([]string, len(targets))
	for i, target := range targets {
		quoted[i] = strconv.Quote(target)
	}
	content := "[config]\ntargets = [" + strings.Join(quoted, ", ") + "]\n"
	return p.AddFile(t, "confguard.toml", content)
}
