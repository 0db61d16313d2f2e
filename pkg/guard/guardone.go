package guard

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
)

// GuardOne adds target to the stored files of an already guarded project:
// it is moved into the existing storage directory and linked back. On
// failure the project keeps its previous stored files.
func (t *Transaction) GuardOne(state types.ProjectState, target string) (Result, error) {
	logger := logging.ForProject("guard", state.SourceDir, state.Sentinel).With().Str("target", target).Logger()
	defer logging.LogOperationStart(logger, "guard_one")()

	result := Result{State: state.Clone(), Phase: PhaseGuarded}

	if !state.IsGuarded() {
		result.Phase = PhaseUnguarded
		return result, errors.Newf(errors.ErrNotGuarded, "project is not guarded: %s", state.SourceDir)
	}
	if err := t.checkProject(state); err != nil {
		return result, err
	}
	if err := paths.ValidateTarget(target); err != nil {
		return result, err
	}
	for _, stored := range state.StoredFiles {
		if stored == target {
			return result, errors.Newf(errors.ErrAlreadyGuarded, "%s is already guarded", target).
				WithDetail("target", target)
		}
	}
	if err := paths.ValidateTargets(append(append([]string{}, state.StoredFiles...), target)); err != nil {
		return result, err
	}

	src := filepath.Join(state.SourceDir, target)
	if _, err := t.fs.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return result, errors.Newf(errors.ErrFileNotFound, "%s does not exist in %s", target, state.SourceDir).
				WithDetail("target", target)
		}
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", src)
	}

	sentinelDir := t.location.SentinelDir(state.Sentinel)
	if info, err := t.fs.Stat(sentinelDir); err != nil || !info.IsDir() {
		return result, errors.Newf(errors.ErrFileNotFound, "storage directory of %s not found: %s", state.Sentinel, sentinelDir).
			WithDetail("path", sentinelDir)
	}
	if _, err := t.fs.Lstat(filepath.Join(sentinelDir, target)); err == nil {
		return result, errors.Newf(errors.ErrMove, "storage already holds %s", target).
			WithDetail("target", target).
			WithDetail("path", sentinelDir)
	}

	targets := []string{target}
	bkpDir := paths.BackupDir(state.SourceDir)

	result.Phase = PhaseBackingUp
	if err := t.backups.CreateBackup(state.SourceDir, bkpDir, targets); err != nil {
		if !errors.IsErrorCode(err, errors.ErrBackupExists) {
			if delErr := t.backups.DeleteBackup(bkpDir); delErr != nil {
				result.warn(logger, delErr, "failed to delete partial backup")
			}
		}
		result.Phase = PhaseGuarded
		return result, err
	}

	result.Phase = PhaseMoving
	moved, err := t.relocator.Move(state.SourceDir, sentinelDir, targets)
	if err == nil && len(moved) == 0 {
		err = errors.Newf(errors.ErrMove, "%s disappeared before it could be moved", target).
			WithDetail("target", target)
	}
	if err != nil {
		return t.rollbackGuardOne(logger, result, state, target, moved, err)
	}

	result.Phase = PhaseLinking
	if err := t.links.CreateForwardLinks(state.SourceDir, sentinelDir, moved, state.Relative); err != nil {
		return t.rollbackGuardOne(logger, result, state, target, moved, err)
	}

	updated := state.Clone()
	updated.StoredFiles = append(updated.StoredFiles, target)
	if err := t.store.Save(updated); err != nil {
		return t.rollbackGuardOne(logger, result, state, target, moved,
			errors.Wrap(err, errors.ErrConfigSave, "failed to persist guarded state"))
	}

	result.State = updated
	result.Phase = PhaseGuarded
	if err := t.backups.DeleteBackup(bkpDir); err != nil {
		return result, err
	}

	logger.Info().Msg("Target guarded")
	return result, nil
}

func (t *Transaction) rollbackGuardOne(logger zerolog.Logger, result Result, state types.ProjectState, target string, moved []string, cause error) (Result, error) {
	logger.Warn().Err(cause).Str("phase", string(result.Phase)).Msg("Guarding target failed, rolling back")
	failedAt := result.Phase
	result.Phase = PhaseRollingBack

	sentinelDir := t.location.SentinelDir(state.Sentinel)
	bkpDir := paths.BackupDir(state.SourceDir)
	rb := &rollback{logger: logger}

	rb.step("remove forward link", t.links.RemoveForwardLinks(state.SourceDir, moved))
	// The storage directory holds the other stored files, so only the
	// moved target goes back
	if len(moved) > 0 {
		_, err := t.relocator.Move(sentinelDir, state.SourceDir, moved)
		rb.step("move target back", err)
	}
	rb.step("restore backup", t.backups.RestoreBackup(state.SourceDir, bkpDir, []string{target}))

	result.State = state.Clone()
	rb.step("persist project state", t.store.Save(result.State))

	result.RolledBack = true
	if len(rb.failed) > 0 {
		return result, rb.err(failedAt, cause, bkpDir)
	}

	result.Phase = PhaseGuarded
	if err := t.backups.DeleteBackup(bkpDir); err != nil {
		result.warn(logger, err, "failed to delete backup after rollback")
	}
	logger.Info().Str("failed_at", string(failedAt)).Msg("Guarding target rolled back")
	return result, cause
}
