package guard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/confguard/pkg/backup"
	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/relocate"
	"github.com/arthur-debert/confguard/pkg/types"
)

// Phase is the step a transaction reached
type Phase string

const (
	PhaseUnguarded   Phase = "unguarded"
	PhaseBackingUp   Phase = "backing-up"
	PhaseMoving      Phase = "moving"
	PhaseLinking     Phase = "linking"
	PhaseGuarded     Phase = "guarded"
	PhaseUnlinking   Phase = "unlinking"
	PhaseMovingBack  Phase = "moving-back"
	PhaseRollingBack Phase = "rolling-back"
)

// Result describes the outcome of a transaction. State is the project state
// after the call, whether or not it succeeded.
type Result struct {
	State      types.ProjectState `json:"state" yaml:"state"`
	Phase      Phase              `json:"phase" yaml:"phase"`
	Warnings   []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	RolledBack bool               `json:"rolledBack" yaml:"rolledBack"`
}

func (r *Result) warn(logger zerolog.Logger, err error, msg string) {
	text := msg
	if err != nil {
		text = fmt.Sprintf("%s: %v", msg, err)
	}
	logger.Warn().Err(err).Msg(msg)
	r.Warnings = append(r.Warnings, text)
}

// Transaction guards and unguards projects against one storage location
type Transaction struct {
	fs          types.FS
	store       types.ProjectStore
	location    types.StorageLocation
	backups     *backup.Manager
	relocator   *relocate.Relocator
	links       *links.Manager
	newSentinel func(sourceDir string) string
}

// New returns a Transaction persisting through store
func New(fsys types.FS, store types.ProjectStore, location types.StorageLocation) *Transaction {
	return &Transaction{
		fs:          fsys,
		store:       store,
		location:    location,
		backups:     backup.New(fsys),
		relocator:   relocate.New(fsys),
		links:       links.New(fsys),
		newSentinel: NewSentinel,
	}
}

// WithSentinelFunc replaces sentinel allocation, mainly for tests
func (t *Transaction) WithSentinelFunc(fn func(sourceDir string) string) *Transaction {
	t.newSentinel = fn
	return t
}

// Location returns the storage location the transaction works against
func (t *Transaction) Location() types.StorageLocation {
	return t.location
}

// Guard moves the targets of an unguarded project into storage and replaces
// them with symlinks. On failure the project is restored and left unguarded.
func (t *Transaction) Guard(state types.ProjectState) (Result, error) {
	logger := logging.ForProject("guard", state.SourceDir, "")
	defer logging.LogOperationStart(logger, "guard")()

	result := Result{State: state.Clone(), Phase: PhaseUnguarded}

	if state.IsGuarded() {
		result.Phase = PhaseGuarded
		return result, errors.Newf(errors.ErrAlreadyGuarded, "project is already guarded: %s", state.SourceDir).
			WithDetail("sentinel", state.Sentinel)
	}
	if err := t.checkProject(state); err != nil {
		return result, err
	}
	if !t.anyTargetExists(state) {
		return result, errors.Newf(errors.ErrInvalidInput, "none of the %d configured targets exist in %s", len(state.Targets), state.SourceDir)
	}

	sentinel := t.newSentinel(state.SourceDir)
	if err := paths.ValidateSentinel(sentinel); err != nil {
		return result, err
	}
	sentinelDir := t.location.SentinelDir(sentinel)
	if _, err := t.fs.Lstat(sentinelDir); err == nil {
		return result, errors.Newf(errors.ErrInternal, "sentinel directory already exists: %s", sentinelDir)
	}
	logger = logging.ForProject("guard", state.SourceDir, sentinel)

	bkpDir := paths.BackupDir(state.SourceDir)

	result.Phase = PhaseBackingUp
	if err := t.backups.CreateBackup(state.SourceDir, bkpDir, state.Targets); err != nil {
		if !errors.IsErrorCode(err, errors.ErrBackupExists) {
			if delErr := t.backups.DeleteBackup(bkpDir); delErr != nil {
				result.warn(logger, delErr, "failed to delete partial backup")
			}
		}
		result.State = state.Unguarded()
		result.Phase = PhaseUnguarded
		if saveErr := t.store.Save(result.State); saveErr != nil {
			result.warn(logger, saveErr, "failed to persist project state")
		}
		return result, err
	}

	result.Phase = PhaseMoving
	stored, err := t.relocator.Move(state.SourceDir, sentinelDir, state.Targets)
	if err != nil {
		return t.rollbackGuard(logger, result, state, sentinel, stored, err)
	}

	result.Phase = PhaseLinking
	if err := t.links.CreateForwardLinks(state.SourceDir, sentinelDir, stored, state.Relative); err != nil {
		return t.rollbackGuard(logger, result, state, sentinel, stored, err)
	}
	if err := t.links.CreateBackLink(sentinelDir, state.SourceDir, sentinel, state.Relative); err != nil {
		result.warn(logger, err, "failed to create back-link")
	}

	guarded := state.Clone()
	guarded.Sentinel = sentinel
	guarded.StoredFiles = stored
	if err := t.store.Save(guarded); err != nil {
		return t.rollbackGuard(logger, result, state, sentinel, stored,
			errors.Wrap(err, errors.ErrConfigSave, "failed to persist guarded state"))
	}

	result.State = guarded
	result.Phase = PhaseGuarded
	for _, target := range skipped(state.Targets, stored) {
		result.warn(logger, nil, fmt.Sprintf("target %s does not exist, not guarded", target))
	}

	if err := t.backups.DeleteBackup(bkpDir); err != nil {
		return result, err
	}

	logger.Info().Int("stored", len(stored)).Msg("Project guarded")
	return result, nil
}

func (t *Transaction) rollbackGuard(logger zerolog.Logger, result Result, state types.ProjectState, sentinel string, stored []string, cause error) (Result, error) {
	logger.Warn().Err(cause).Str("phase", string(result.Phase)).Msg("Guard failed, rolling back")
	failedAt := result.Phase
	result.Phase = PhaseRollingBack

	sentinelDir := t.location.SentinelDir(sentinel)
	bkpDir := paths.BackupDir(state.SourceDir)
	rb := &rollback{logger: logger}

	rb.step("remove forward links", t.links.RemoveForwardLinks(state.SourceDir, stored))
	rb.step("remove back-link", t.links.RemoveBackLink(sentinelDir, sentinel))
	_, err := t.relocator.MoveBack(sentinelDir, state.SourceDir, stored)
	rb.step("move targets back", err)
	rb.step("restore backup", t.backups.RestoreBackup(state.SourceDir, bkpDir, state.Targets))
	rb.step("remove sentinel directory", t.relocator.RemoveIfEmpty(sentinelDir))

	result.State = state.Unguarded()
	rb.step("persist project state", t.store.Save(result.State))

	result.RolledBack = true
	if len(rb.failed) > 0 {
		return result, rb.err(failedAt, cause, bkpDir)
	}

	result.Phase = PhaseUnguarded
	if err := t.backups.DeleteBackup(bkpDir); err != nil {
		result.warn(logger, err, "failed to delete backup after rollback")
	}
	logger.Info().Str("failed_at", string(failedAt)).Msg("Guard rolled back")
	return result, cause
}

// Unguard moves the stored targets of a guarded project back into the
// project directory. On failure the project is left guarded.
func (t *Transaction) Unguard(state types.ProjectState) (Result, error) {
	logger := logging.ForProject("guard", state.SourceDir, state.Sentinel)
	defer logging.LogOperationStart(logger, "unguard")()

	result := Result{State: state.Clone(), Phase: PhaseGuarded}

	if !state.IsGuarded() {
		result.Phase = PhaseUnguarded
		return result, errors.Newf(errors.ErrNotGuarded, "project is not guarded: %s", state.SourceDir)
	}
	if err := t.checkProject(state); err != nil {
		return result, err
	}

	sentinelDir := t.location.SentinelDir(state.Sentinel)
	if info, err := t.fs.Stat(sentinelDir); err != nil || !info.IsDir() {
		return result, errors.Newf(errors.ErrFileNotFound, "storage directory of %s not found: %s", state.Sentinel, sentinelDir).
			WithDetail("path", sentinelDir)
	}
	bkpDir := paths.BackupDir(sentinelDir)

	result.Phase = PhaseBackingUp
	if err := t.backups.CreateBackup(sentinelDir, bkpDir, state.StoredFiles); err != nil {
		if !errors.IsErrorCode(err, errors.ErrBackupExists) {
			if delErr := t.backups.DeleteBackup(bkpDir); delErr != nil {
				result.warn(logger, delErr, "failed to delete partial backup")
			}
		}
		result.Phase = PhaseGuarded
		return result, err
	}

	result.Phase = PhaseUnlinking
	if err := t.links.RemoveForwardLinks(state.SourceDir, state.StoredFiles); err != nil {
		return t.rollbackUnguard(logger, result, state, nil, err)
	}
	if err := t.links.RemoveBackLink(sentinelDir, state.Sentinel); err != nil {
		result.warn(logger, err, "failed to remove back-link")
	}

	result.Phase = PhaseMovingBack
	movedBack, err := t.relocator.MoveBack(sentinelDir, state.SourceDir, state.StoredFiles)
	if err != nil {
		return t.rollbackUnguard(logger, result, state, movedBack, err)
	}

	unguarded := state.Unguarded()
	if err := t.store.Save(unguarded); err != nil {
		return t.rollbackUnguard(logger, result, state, movedBack,
			errors.Wrap(err, errors.ErrConfigSave, "failed to persist unguarded state"))
	}

	result.State = unguarded
	result.Phase = PhaseUnguarded

	if err := t.backups.DeleteBackup(bkpDir); err != nil {
		return result, err
	}
	if err := t.relocator.RemoveIfEmpty(sentinelDir); err != nil {
		result.warn(logger, err, "failed to remove storage directory")
	}

	logger.Info().Int("restored", len(movedBack)).Msg("Project unguarded")
	return result, nil
}

func (t *Transaction) rollbackUnguard(logger zerolog.Logger, result Result, state types.ProjectState, movedBack []string, cause error) (Result, error) {
	logger.Warn().Err(cause).Str("phase", string(result.Phase)).Msg("Unguard failed, rolling back")
	failedAt := result.Phase
	result.Phase = PhaseRollingBack

	sentinelDir := t.location.SentinelDir(state.Sentinel)
	bkpDir := paths.BackupDir(sentinelDir)
	rb := &rollback{logger: logger}

	if len(movedBack) > 0 {
		_, err := t.relocator.Move(state.SourceDir, sentinelDir, movedBack)
		rb.step("move targets into storage", err)
	}
	rb.step("restore backup", t.backups.RestoreBackup(sentinelDir, bkpDir, state.StoredFiles))

	// Paths the user occupied before the unguard attempt stay as they were
	if _, err := t.links.Relink(state.SourceDir, sentinelDir, state.StoredFiles, state.Relative); err != nil {
		if errors.IsErrorCode(err, errors.ErrSymlinkExists) {
			result.warn(logger, err, "some forward links could not be recreated")
		} else {
			rb.step("recreate forward links", err)
		}
	}
	if err := t.links.CreateBackLink(sentinelDir, state.SourceDir, state.Sentinel, state.Relative); err != nil &&
		!errors.IsErrorCode(err, errors.ErrSymlinkExists) {
		result.warn(logger, err, "failed to recreate back-link")
	}

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
	logger.Info().Str("failed_at", string(failedAt)).Msg("Unguard rolled back")
	return result, cause
}

func (t *Transaction) checkProject(state types.ProjectState) error {
	if err := paths.ValidatePath(state.SourceDir); err != nil {
		return err
	}
	info, err := t.fs.Stat(state.SourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrInvalidPath, "source directory does not exist: %s", state.SourceDir)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", state.SourceDir)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidPath, "source is not a directory: %s", state.SourceDir)
	}
	if state.IsGuarded() {
		if err := paths.ValidateSentinel(state.Sentinel); err != nil {
			return err
		}
	}
	return paths.ValidateTargets(state.Targets)
}

func (t *Transaction) anyTargetExists(state types.ProjectState) bool {
	for _, target := range state.Targets {
		if _, err := t.fs.Lstat(filepath.Join(state.SourceDir, target)); err == nil {
			return true
		}
	}
	return false
}

// skipped returns the targets that are not in stored, keeping order
func skipped(targets, stored []string) []string {
	moved := make(map[string]bool, len(stored))
	for _, s := range stored {
		moved[s] = true
	}
	var out []string
	for _, target := range targets {
		if !moved[target] {
			out = append(out, target)
		}
	}
	return out
}
