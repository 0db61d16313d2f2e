// pkg/commands/show/show_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), project store
// PURPOSE: Test target state reporting for guarded and unguarded projects

package show

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/confguard/pkg/commands/guard"
	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/testutil"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

func targetStates(view *display.ProjectView) map[string]string {
	states := make(map[string]string, len(view.Targets))
	for _, target := range view.Targets {
		states[target.Path] = target.State
	}
	return states
}

func TestShow_Unguarded(t *testing.T) {
	p, _ := testutil.SetupEnvrcProject(t)
	testutil.CreateSymlink(t, p.Path("README.md"), p.Path("linked.md"))
	p.WriteConfig(t, ".envrc", "absent", "linked.md")
	settings := &config.Settings{BaseDir: p.BaseDir(), Relative: true}

	view, err := Show(ShowOptions{SourceDir: p.Dir, Settings: settings})
	require.NoError(t, err)

	assert.Equal(t, p.Dir, view.SourceDir)
	assert.False(t, view.Guarded)
	assert.Empty(t, view.Sentinel)
	assert.Empty(t, view.StorageDir)
	assert.True(t, view.Relative)
	assert.Equal(t, map[string]string{
		".envrc":    StatePresent,
		"absent":    StateMissing,
		"linked.md": StateSymlink,
	}, targetStates(view))
	for _, target := range view.Targets {
		assert.False(t, target.Stored)
		assert.Empty(t, target.Dest)
	}
}

func TestShow_Guarded(t *testing.T) {
	p, _ := testutil.SetupEnvrcProject(t)
	p.WriteConfig(t, ".envrc", ".run", "xxx/xxx.txt", "absent")
	settings := &config.Settings{BaseDir: p.BaseDir(), Relative: true}

	guarded, err := guard.Guard(guard.GuardOptions{SourceDir: p.Dir, Settings: settings})
	require.NoError(t, err)

	// Break one link the way a fresh checkout would
	require.NoError(t, os.Remove(p.Path(".run")))

	view, err := Show(ShowOptions{SourceDir: p.Dir, Settings: settings})
	require.NoError(t, err)

	sentinelDir := filepath.Join(p.Storage, guarded.Sentinel)
	assert.True(t, view.Guarded)
	assert.Equal(t, guarded.Sentinel, view.Sentinel)
	assert.Equal(t, sentinelDir, view.StorageDir)
	assert.Equal(t, map[string]string{
		".envrc":      string(links.StateLinked),
		".run":        string(links.StateMissing),
		"xxx/xxx.txt": string(links.StateLinked),
		"absent":      StateMissing,
	}, targetStates(view))

	require.Len(t, view.Targets, 4)
	assert.Equal(t, ".envrc", view.Targets[0].Path)
	assert.True(t, view.Targets[0].Stored)
	assert.Equal(t, filepath.Join(sentinelDir, ".envrc"), view.Targets[0].Dest)
	assert.False(t, view.Targets[3].Stored)
}

func TestShow_MissingConfig(t *testing.T) {
	p := testutil.SetupTestProject(t, "myproj")
	settings := &config.Settings{BaseDir: p.BaseDir(), Relative: true}

	_, err := Show(ShowOptions{SourceDir: p.Dir, Settings: settings})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
