// pkg/commands/internal/env_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test shared command setup

package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/confguard/pkg/config"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/guard"
	"github.com/arthur-debert/confguard/pkg/testutil"
	"github.com/arthur-debert/confguard/pkg/types"
)

func TestNewEnv_Defaults(t *testing.T) {
	tmp := testutil.RealTempDir(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("CONFGUARD_BASE_DIR", "")

	env, err := NewEnv(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, env.FS)
	assert.NotNil(t, env.Store)
	assert.Equal(t, filepath.Join(tmp, "data", "confguard"), env.Settings.BaseDir)
	assert.Equal(t, filepath.Join(tmp, "data", "confguard", "guarded"), env.Transaction().Location().Root)
}

func TestResolveSourceDir(t *testing.T) {
	p := testutil.SetupTestProject(t, "myproj")
	file := p.AddFile(t, "file.txt", "x")
	env, err := NewEnv(nil, &config.Settings{BaseDir: p.BaseDir()})
	require.NoError(t, err)

	got, err := env.ResolveSourceDir(p.Dir + "/sub/..")
	require.NoError(t, err)
	assert.Equal(t, p.Dir, got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	wd, err = filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	got, err = env.ResolveSourceDir("")
	require.NoError(t, err)
	assert.Equal(t, wd, got)

	// A project reached through a symlinked parent resolves to its real path
	testutil.CreateSymlink(t, filepath.Join(p.Root, "projects"), filepath.Join(p.Root, "alias", "deep"))
	got, err = env.ResolveSourceDir(filepath.Join(p.Root, "alias", "deep", "myproj"))
	require.NoError(t, err)
	assert.Equal(t, p.Dir, got)

	_, err = env.ResolveSourceDir(file)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))

	_, err = env.ResolveSourceDir(filepath.Join(p.Root, "missing"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))
}

func TestNewTransactionView(t *testing.T) {
	result := guard.Result{
		State: types.ProjectState{
			SourceDir:   "/work/proj",
			Sentinel:    "proj-01234567",
			StoredFiles: []string{".envrc"},
		},
		Phase:      guard.PhaseGuarded,
		Warnings:   []string{"target .run does not exist, not guarded"},
		RolledBack: false,
	}

	view := NewTransactionView("guard", "/ignored", result)
	assert.Equal(t, "guard", view.Command)
	assert.Equal(t, "/work/proj", view.SourceDir)
	assert.Equal(t, "proj-01234567", view.Sentinel)
	assert.Equal(t, "guarded", view.Phase)
	assert.Equal(t, []string{".envrc"}, view.Files)
	assert.Equal(t, result.Warnings, view.Warnings)

	empty := NewTransactionView("unguard", "/work/other", guard.Result{Phase: guard.PhaseUnguarded})
	assert.Equal(t, "/work/other", empty.SourceDir)
}
