// pkg/guard/transaction_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs), FaultyFS, mock project store
// PURPOSE: Test guard and unguard transactions including rollback

package guard

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/testutil"
	"github.com/arthur-debert/confguard/pkg/types"
)

const testSentinel = "myproj-deadbeef"

func fixedSentinel(string) string { return testSentinel }

func newTestTransaction(p *testutil.TestProject, fsys types.FS, store types.ProjectStore) *Transaction {
	return New(fsys, store, p.Location()).WithSentinelFunc(fixedSentinel)
}

func TestGuard_EnvrcProject(t *testing.T) {
	for _, relative := range []bool{true, false} {
		t.Run(fmt.Sprintf("relative=%v", relative), func(t *testing.T) {
			p, state := testutil.SetupEnvrcProject(t)
			state.Relative = relative
			store := testutil.NewMemoryProjectStore(state)
			tx := newTestTransaction(p, filesystem.NewOS(), store)

			result, err := tx.Guard(state)
			require.NoError(t, err)

			assert.Equal(t, PhaseGuarded, result.Phase)
			assert.False(t, result.RolledBack)
			assert.Empty(t, result.Warnings)
			assert.Equal(t, testSentinel, result.State.Sentinel)
			assert.Equal(t, []string{".envrc", ".run", "xxx/xxx.txt"}, result.State.StoredFiles)
			assert.Equal(t, result.State, store.Last())

			sentinelDir := filepath.Join(p.Storage, testSentinel)
			for _, target := range state.Targets {
				assert.True(t, testutil.SymlinkExists(t, p.Path(target)), target)
				resolved, err := filepath.EvalSymlinks(p.Path(target))
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(sentinelDir, target), resolved)
			}
			testutil.AssertFileContent(t, p.Path(".envrc"), "export FOO=bar\n")
			testutil.AssertFileContent(t, filepath.Join(sentinelDir, "xxx", "xxx.txt"), "xxx\n")
			assert.True(t, testutil.DirExists(t, p.Path("xxx")))
			assert.False(t, testutil.SymlinkExists(t, p.Path("README.md")))

			backLink := filepath.Join(sentinelDir, ".myproj-deadbeef.confguard")
			resolved, err := filepath.EvalSymlinks(backLink)
			require.NoError(t, err)
			assert.Equal(t, p.Dir, resolved)

			testutil.AssertNoFile(t, filepath.Join(p.Dir, "confguard.bkp"))
		})
	}
}

func TestGuard_ThroughSymlinkedParents(t *testing.T) {
	p, _ := testutil.SetupEnvrcProject(t)
	before := testutil.Snapshot(t, p.Dir)

	// Both the project and the storage root are reached through aliases
	testutil.CreateSymlink(t, filepath.Join(p.Root, "projects"), filepath.Join(p.Root, "alias", "deep"))
	testutil.CreateSymlink(t, filepath.Join(p.Root, "data"), filepath.Join(p.Root, "store-alias"))
	aliasDir := filepath.Join(p.Root, "alias", "deep", "myproj")
	location := types.StorageLocation{Root: filepath.Join(p.Root, "store-alias", "confguard", "guarded")}

	state := types.ProjectState{
		SourceDir: aliasDir,
		Targets:   []string{".envrc", ".run", "xxx/xxx.txt"},
		Relative:  true,
	}
	store := testutil.NewMemoryProjectStore(state)
	tx := New(filesystem.NewOS(), store, location).WithSentinelFunc(fixedSentinel)

	result, err := tx.Guard(state)
	require.NoError(t, err)

	sentinelDir := filepath.Join(p.Storage, testSentinel)
	for _, target := range state.Targets {
		_, err := os.Stat(filepath.Join(aliasDir, target))
		require.NoError(t, err, "link of %s must resolve", target)
		resolved, err := filepath.EvalSymlinks(p.Path(target))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(sentinelDir, target), resolved)
	}
	resolved, err := filepath.EvalSymlinks(filepath.Join(sentinelDir, ".myproj-deadbeef.confguard"))
	require.NoError(t, err)
	assert.Equal(t, p.Dir, resolved)

	_, err = tx.Unguard(result.State)
	require.NoError(t, err)
	assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
}

func TestGuardUnguard_RoundTrip(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	before := testutil.Snapshot(t, p.Dir)
	store := testutil.NewMemoryProjectStore(state)
	tx := New(filesystem.NewOS(), store, p.Location())

	for i := 0; i < 2; i++ {
		guarded, err := tx.Guard(state)
		require.NoError(t, err)
		require.True(t, guarded.State.IsGuarded())

		unguarded, err := tx.Unguard(guarded.State)
		require.NoError(t, err)
		assert.Equal(t, PhaseUnguarded, unguarded.Phase)
		assert.False(t, unguarded.State.IsGuarded())
		assert.Empty(t, unguarded.State.StoredFiles)

		assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
		testutil.AssertNoFile(t, filepath.Join(p.Storage, guarded.State.Sentinel))
		state = unguarded.State
	}
}

func TestGuard_AlreadyGuarded(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	before := testutil.Snapshot(t, p.Dir)
	state.Sentinel = "myproj-00000000"
	store := &testutil.MockProjectStore{}
	tx := newTestTransaction(p, filesystem.NewOS(), store)

	result, err := tx.Guard(state)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyGuarded))
	assert.Equal(t, "myproj-00000000", result.State.Sentinel)
	assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
	store.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUnguard_NotGuarded(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	tx := newTestTransaction(p, filesystem.NewOS(), &testutil.MockProjectStore{})

	_, err := tx.Unguard(state)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotGuarded))
}

func TestGuard_PartialTargets(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	state.Targets = append(state.Targets, "missing.env")
	store := testutil.NewMemoryProjectStore(state)

	result, err := newTestTransaction(p, filesystem.NewOS(), store).Guard(state)
	require.NoError(t, err)
	assert.Equal(t, []string{".envrc", ".run", "xxx/xxx.txt"}, result.State.StoredFiles)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "missing.env")
	testutil.AssertNoFile(t, p.Path("missing.env"))
}

func TestGuard_NoTargetExists(t *testing.T) {
	p := testutil.SetupTestProject(t, "empty")
	state := p.State("nope", "nada")

	_, err := newTestTransaction(p, filesystem.NewOS(), testutil.NewMemoryProjectStore()).Guard(state)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	testutil.AssertNoFile(t, filepath.Join(p.Storage, testSentinel))
}

func TestGuard_InvalidTargets(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	state.Targets = []string{"../escape"}

	_, err := newTestTransaction(p, filesystem.NewOS(), testutil.NewMemoryProjectStore()).Guard(state)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestGuard_NestedTargetsRejectedBeforeBackup(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	before := testutil.Snapshot(t, p.Dir)
	state.Targets = []string{".run/build.run.xml", ".run"}
	store := &testutil.MockProjectStore{}

	result, err := newTestTransaction(p, filesystem.NewOS(), store).Guard(state)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.False(t, result.RolledBack)
	assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
	testutil.AssertNoFile(t, p.Path("confguard.bkp"))
	store.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUnguard_RejectsSentinelOutsideStorage(t *testing.T) {
	for _, sentinel := range []string{"..", "a/b", "../myproj-deadbeef"} {
		p, state := testutil.SetupEnvrcProject(t)
		before := testutil.Snapshot(t, p.Root)
		state.Sentinel = sentinel
		state.StoredFiles = []string{".envrc"}
		store := &testutil.MockProjectStore{}

		_, err := newTestTransaction(p, filesystem.NewOS(), store).Unguard(state)
		require.Error(t, err, sentinel)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "%s: %v", sentinel, err)
		assert.Equal(t, before, testutil.Snapshot(t, p.Root), sentinel)
		store.AssertNotCalled(t, "Save", mock.Anything)
	}
}

func TestGuard_RejectsInvalidAllocatedSentinel(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	tx := New(filesystem.NewOS(), testutil.NewMemoryProjectStore(state), p.Location()).
		WithSentinelFunc(func(string) string { return "../escape" })

	_, err := tx.Guard(state)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	testutil.AssertNoFile(t, filepath.Join(p.Root, "data", "confguard", "escape"))
}

func TestGuard_ExistingBackupIsKept(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	p.AddFile(t, "confguard.bkp/precious", "keep me")
	store := testutil.NewMemoryProjectStore(state)

	result, err := newTestTransaction(p, filesystem.NewOS(), store).Guard(state)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupExists))
	assert.False(t, result.State.IsGuarded())
	assert.False(t, store.Last().IsGuarded())
	testutil.AssertFileContent(t, p.Path("confguard.bkp/precious"), "keep me")
	assert.False(t, testutil.SymlinkExists(t, p.Path(".envrc")))
}

func TestGuard_RollbackOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		fault     testutil.Fault
		errorCode errors.ErrorCode
	}{
		{
			name:      "backup copy fails",
			fault:     testutil.Fault{Op: testutil.OpWriteFile, Path: "confguard.bkp/.run/test.run.xml"},
			errorCode: errors.ErrBackupCreate,
		},
		{
			name:      "move fails midway",
			fault:     testutil.Fault{Op: testutil.OpRename, Path: testSentinel + "/.run"},
			errorCode: errors.ErrMove,
		},
		{
			name:      "forward link fails",
			fault:     testutil.Fault{Op: testutil.OpSymlink, Path: "myproj/xxx/xxx.txt"},
			errorCode: errors.ErrSymlinkCreate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, state := testutil.SetupEnvrcProject(t)
			before := testutil.Snapshot(t, p.Dir)
			store := testutil.NewMemoryProjectStore(state)
			ffs := testutil.NewFaultyFS(filesystem.NewOS()).Add(tt.fault)

			result, err := newTestTransaction(p, ffs, store).Guard(state)

			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.errorCode), "got %v", err)
			assert.False(t, errors.IsErrorCode(err, errors.ErrRollback))
			assert.Equal(t, PhaseUnguarded, result.Phase)
			assert.False(t, result.State.IsGuarded())
			assert.False(t, store.Last().IsGuarded())

			assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
			testutil.AssertNoFile(t, filepath.Join(p.Storage, testSentinel))
			testutil.AssertNoFile(t, p.Path("confguard.bkp"))
		})
	}
}

func TestGuard_RollbackOnPersistFailure(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	before := testutil.Snapshot(t, p.Dir)

	store := &testutil.MockProjectStore{}
	store.On("Save", mock.MatchedBy(func(s types.ProjectState) bool { return s.IsGuarded() })).
		Return(fmt.Errorf("disk full")).Once()
	store.On("Save", mock.MatchedBy(func(s types.ProjectState) bool { return !s.IsGuarded() })).
		Return(nil).Once()

	result, err := newTestTransaction(p, filesystem.NewOS(), store).Guard(state)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigSave))
	assert.True(t, result.RolledBack)
	assert.Equal(t, before, testutil.Snapshot(t, p.Dir))
	testutil.AssertNoFile(t, filepath.Join(p.Storage, testSentinel))
	store.AssertExpectations(t)
}

func TestGuard_RollbackFailureKeepsBackup(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	store := testutil.NewMemoryProjectStore(state)
	ffs := testutil.NewFaultyFS(filesystem.NewOS()).
		Fail(testutil.OpSymlink, "myproj/xxx/xxx.txt").
		// Moving .envrc back into the project fails
		Add(testutil.Fault{Op: testutil.OpRename, Path: "myproj/.envrc"})

	result, err := newTestTransaction(p, ffs, store).Guard(state)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRollback), "got %v", err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
	assert.True(t, result.RolledBack)
	assert.Equal(t, PhaseRollingBack, result.Phase)
	assert.False(t, store.Last().IsGuarded())

	// The backup survives and still restored the file the failed move left out
	assert.True(t, testutil.DirExists(t, p.Path("confguard.bkp")))
	testutil.AssertFileContent(t, p.Path(".envrc"), "export FOO=bar\n")
	assert.Contains(t, errors.GetErrorDetails(err)["steps"], "move targets back")
}

func TestUnguard_RollbackKeepsGuarded(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	store := testutil.NewMemoryProjectStore(state)
	tx := newTestTransaction(p, filesystem.NewOS(), store)

	guarded, err := tx.Guard(state)
	require.NoError(t, err)

	// The user replaced one link with a real file while guarded
	require.NoError(t, os.Remove(p.Path(".envrc")))
	p.AddFile(t, ".envrc", "local edit")

	result, err := tx.Unguard(guarded.State)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMove), "got %v", err)
	assert.True(t, result.RolledBack)
	assert.Equal(t, PhaseGuarded, result.Phase)
	assert.Equal(t, testSentinel, result.State.Sentinel)
	assert.Equal(t, testSentinel, store.Last().Sentinel)
	assert.NotEmpty(t, result.Warnings)

	sentinelDir := filepath.Join(p.Storage, testSentinel)
	testutil.AssertFileContent(t, p.Path(".envrc"), "local edit")
	testutil.AssertFileContent(t, filepath.Join(sentinelDir, ".envrc"), "export FOO=bar\n")
	assert.True(t, testutil.SymlinkExists(t, p.Path(".run")))
	assert.True(t, testutil.SymlinkExists(t, p.Path("xxx/xxx.txt")))
	assert.True(t, testutil.SymlinkExists(t, filepath.Join(sentinelDir, ".myproj-deadbeef.confguard")))
	testutil.AssertNoFile(t, filepath.Join(sentinelDir, "confguard.bkp"))
}

func TestUnguard_RollbackOnPersistFailure(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	memStore := testutil.NewMemoryProjectStore(state)
	guarded, err := newTestTransaction(p, filesystem.NewOS(), memStore).Guard(state)
	require.NoError(t, err)
	guardedSnapshot := testutil.Snapshot(t, p.Dir)

	store := &testutil.MockProjectStore{}
	store.On("Save", mock.MatchedBy(func(s types.ProjectState) bool { return !s.IsGuarded() })).
		Return(fmt.Errorf("read-only filesystem")).Once()
	store.On("Save", mock.MatchedBy(func(s types.ProjectState) bool { return s.IsGuarded() })).
		Return(nil).Once()

	result, err := newTestTransaction(p, filesystem.NewOS(), store).Unguard(guarded.State)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigSave))
	assert.True(t, result.RolledBack)
	assert.Equal(t, guarded.State, result.State)
	assert.Equal(t, guardedSnapshot, testutil.Snapshot(t, p.Dir))
	store.AssertExpectations(t)
}

func TestUnguard_MissingStorage(t *testing.T) {
	p, state := testutil.SetupEnvrcProject(t)
	state.Sentinel = "myproj-gone"
	state.StoredFiles = state.Targets

	_, err := newTestTransaction(p, filesystem.NewOS(), testutil.NewMemoryProjectStore()).Unguard(state)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestNewSentinel(t *testing.T) {
	a := NewSentinel("/home/me/my project")
	b := NewSentinel("/home/me/my project")

	assert.Regexp(t, `^my_project-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^project-[0-9a-f]{8}$`, NewSentinel("/"))
}
