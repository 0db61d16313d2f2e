package backup

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/types"
)

// Manager creates, restores and deletes target backups
type Manager struct {
	fs types.FS
}

// New returns a Manager operating on fsys
func New(fsys types.FS) *Manager {
	return &Manager{fs: fsys}
}

// CreateBackup copies every existing target of fromDir into bkpDir.
// Targets that are missing or already symlinks are skipped. bkpDir must not
// exist beforehand.
func (m *Manager) CreateBackup(fromDir, bkpDir string, targets []string) error {
	logger := logging.GetLogger("backup")
	defer logging.LogOperationStart(logger, "create_backup")()

	if _, err := m.fs.Lstat(bkpDir); err == nil {
		return errors.Newf(errors.ErrBackupExists, "backup directory already exists: %s", bkpDir).
			WithDetail("path", bkpDir)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrBackupCreate, "failed to check backup directory %s", bkpDir)
	}

	if err := m.fs.MkdirAll(bkpDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackupCreate, "failed to create backup directory %s", bkpDir)
	}

	for _, target := range targets {
		src := filepath.Join(fromDir, target)

		info, err := m.fs.Lstat(src)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("target", target).Str("path", src).Msg("Target does not exist, not backed up")
				continue
			}
			return errors.Wrapf(err, errors.ErrBackupCreate, "failed to inspect %s", src).
				WithDetail("target", target)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			logger.Warn().Str("target", target).Str("path", src).Msg("Target is a symlink, not backed up")
			continue
		}

		dst := filepath.Join(bkpDir, target)
		if err := m.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrBackupCreate, "failed to create backup parent for %s", target).
				WithDetail("target", target)
		}
		if err := filesystem.CopyTree(m.fs, src, dst, false); err != nil {
			return errors.Wrapf(err, errors.ErrBackupCreate, "failed to back up %s", target).
				WithDetail("target", target)
		}

		logger.Debug().Str("target", target).Str("backup", dst).Msg("Target backed up")
	}

	logger.Info().Str("backup", bkpDir).Int("targets", len(targets)).Msg("Backup created")
	return nil
}

// RestoreBackup copies backed up targets from bkpDir back into toDir.
// A symlink occupying a destination is removed first. Files are only restored
// when the destination is missing and directories are merged, so content
// already present in toDir always wins.
func (m *Manager) RestoreBackup(toDir, bkpDir string, targets []string) error {
	logger := logging.GetLogger("backup")
	defer logging.LogOperationStart(logger, "restore_backup")()

	info, err := m.fs.Stat(bkpDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackupRestore, "backup directory not found: %s", bkpDir).
			WithDetail("path", bkpDir)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrBackupRestore, "backup path is not a directory: %s", bkpDir).
			WithDetail("path", bkpDir)
	}

	var failed []string
	var firstErr error

	for _, target := range targets {
		src := filepath.Join(bkpDir, target)
		if _, err := m.fs.Lstat(src); err != nil {
			logger.Debug().Str("target", target).Msg("Target not in backup, skipping restore")
			continue
		}

		dst := filepath.Join(toDir, target)
		if err := m.restoreOne(src, dst); err != nil {
			logger.Error().Err(err).Str("target", target).Msg("Failed to restore target")
			failed = append(failed, target)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.Debug().Str("target", target).Str("path", dst).Msg("Target restored")
	}

	if firstErr != nil {
		return errors.Wrapf(firstErr, errors.ErrBackupRestore, "failed to restore %d target(s)", len(failed)).
			WithDetail("targets", failed)
	}
	return nil
}

func (m *Manager) restoreOne(src, dst string) error {
	isLink, err := filesystem.IsSymlink(m.fs, dst)
	if err != nil {
		return err
	}
	if isLink {
		if err := m.fs.Remove(dst); err != nil {
			return err
		}
	}

	if err := m.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return filesystem.CopyTree(m.fs, src, dst, true)
}

// DeleteBackup removes a backup directory. A missing directory is not an error.
func (m *Manager) DeleteBackup(dir string) error {
	logger := logging.GetLogger("backup")

	if err := m.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrBackupNotDeleted, "failed to delete backup %s", dir).
			WithDetail("path", dir)
	}

	logger.Debug().Str("backup", dir).Msg("Backup deleted")
	return nil
}
