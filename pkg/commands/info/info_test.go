// pkg/commands/info/info_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), environment variables
// PURPOSE: Test the installation report and guarded project discovery

package info

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/confguard/internal/version"
	"github.com/arthur-debert/confguard/pkg/commands/guard"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/testutil"
)

func TestInfo(t *testing.T) {
	p, _ := testutil.SetupEnvrcProject(t)
	p.WriteConfig(t, ".envrc")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(p.Root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(p.Root, "state"))
	t.Setenv(paths.EnvBaseDir, p.BaseDir())
	settings := &config.Settings{BaseDir: p.BaseDir(), Relative: true, Sources: []string{"defaults", "env"}}

	guarded, err := guard.Guard(guard.GuardOptions{SourceDir: p.Dir, Settings: settings})
	require.NoError(t, err)

	// A sentinel dir whose project is gone
	testutil.CreateFile(t, p.Storage, "zzz-0badf00d/.envrc", "x")
	testutil.CreateSymlink(t, filepath.Join(p.Root, "gone"), filepath.Join(p.Storage, "zzz-0badf00d", ".zzz-0badf00d.confguard"))
	// A sentinel dir without back-link
	testutil.CreateDir(t, p.Storage, "aaa-00000000")
	// Stray files in the storage root are not projects
	testutil.CreateFile(t, p.Storage, "notes.txt", "x")

	view, err := Info(InfoOptions{Settings: settings})
	require.NoError(t, err)

	assert.Equal(t, version.Version, view.Version)
	assert.Equal(t, p.BaseDir(), view.BaseDir)
	assert.Equal(t, p.Storage, view.StorageRoot)
	assert.True(t, view.Relative)
	assert.Equal(t, filepath.Join(p.Root, "config", "confguard", "config.toml"), view.ConfigFile)
	assert.Equal(t, filepath.Join(p.Root, "state", "confguard", "confguard.log"), view.LogFile)
	assert.Equal(t, []string{"defaults", "env"}, view.Sources)

	require.Len(t, view.Environment, len(EnvVars))
	assert.Equal(t, paths.EnvBaseDir, view.Environment[0].Name)
	assert.Equal(t, p.BaseDir(), view.Environment[0].Value)

	require.Len(t, view.Projects, 3)
	assert.Equal(t, "aaa-00000000", view.Projects[0].Sentinel)
	assert.True(t, view.Projects[0].Orphaned)
	assert.Empty(t, view.Projects[0].SourceDir)

	assert.Equal(t, guarded.Sentinel, view.Projects[1].Sentinel)
	assert.Equal(t, p.Dir, view.Projects[1].SourceDir)
	assert.False(t, view.Projects[1].Orphaned)

	assert.Equal(t, "zzz-0badf00d", view.Projects[2].Sentinel)
	assert.Equal(t, filepath.Join(p.Root, "gone"), view.Projects[2].SourceDir)
	assert.True(t, view.Projects[2].Orphaned)
}

func TestInfo_NoStorageYet(t *testing.T) {
	tmp := t.TempDir()
	settings := &config.Settings{BaseDir: filepath.Join(tmp, "never-created")}

	view, err := Info(InfoOptions{Settings: settings})
	require.NoError(t, err)
	assert.NotNil(t, view.Projects)
	assert.Empty(t, view.Projects)

	_, statErr := os.Stat(settings.BaseDir)
	assert.True(t, os.IsNotExist(statErr), "info must not create the base dir")
}
