// Package relocate moves project targets between a source directory and a
// storage directory with plain renames.
package relocate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
)

// Relocator moves targets in and out of storage
type Relocator struct {
	fs        types.FS
	preserved map[string]bool
}

// New returns a Relocator. The backup directory name is always preserved
// when deciding whether a storage directory is empty.
func New(fsys types.FS) *Relocator {
	r := &Relocator{fs: fsys, preserved: make(map[string]bool)}
	r.Preserve(paths.BackupDirName)
	return r
}

// Preserve registers top-level names that MoveBack does not count as content
// and that keep the storage directory alive.
func (r *Relocator) Preserve(names ...string) {
	for _, name := range names {
		r.preserved[name] = true
	}
}

// Move renames every existing target from fromDir into toDir, creating parent
// directories as needed. Missing targets are skipped. The returned slice lists
// the targets that were moved, also when an error stops the loop.
func (r *Relocator) Move(fromDir, toDir string, targets []string) ([]string, error) {
	logger := logging.GetLogger("relocate")
	defer logging.LogOperationStart(logger, "move")()

	var moved []string

	if err := r.fs.MkdirAll(toDir, 0755); err != nil {
		return moved, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", toDir)
	}

	for _, target := range targets {
		src := filepath.Join(fromDir, target)
		if _, err := r.fs.Lstat(src); err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("target", target).Str("path", src).Msg("Target does not exist, not moved")
				continue
			}
			return moved, errors.Wrapf(err, errors.ErrMove, "failed to inspect %s", src).
				WithDetail("target", target)
		}

		dst := filepath.Join(toDir, target)
		if err := r.rename(src, dst); err != nil {
			return moved, errors.Wrapf(err, errors.ErrMove, "failed to move %s", target).
				WithDetail("target", target).
				WithDetail("from", src).
				WithDetail("to", dst)
		}

		logger.Debug().Str("target", target).Str("from", src).Str("to", dst).Msg("Target moved")
		moved = append(moved, target)
	}

	logger.Info().Str("to", toDir).Int("moved", len(moved)).Msg("Targets moved")
	return moved, nil
}

// MoveBack renames stored targets from fromDir back into toDir and then
// removes fromDir if nothing but empty directories is left in it. Preserved
// names are ignored by that check but keep fromDir in place. Remaining files
// make the call fail with ErrStorageNotEmpty after every target was moved.
func (r *Relocator) MoveBack(fromDir, toDir string, stored []string) ([]string, error) {
	logger := logging.GetLogger("relocate")
	defer logging.LogOperationStart(logger, "move_back")()

	var moved []string

	for _, target := range stored {
		src := filepath.Join(fromDir, target)
		if _, err := r.fs.Lstat(src); err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("target", target).Str("path", src).Msg("Stored target missing from storage")
				continue
			}
			return moved, errors.Wrapf(err, errors.ErrMove, "failed to inspect %s", src).
				WithDetail("target", target)
		}

		dst := filepath.Join(toDir, target)
		if err := r.rename(src, dst); err != nil {
			return moved, errors.Wrapf(err, errors.ErrMove, "failed to move %s back", target).
				WithDetail("target", target).
				WithDetail("from", src).
				WithDetail("to", dst)
		}

		logger.Debug().Str("target", target).Str("from", src).Str("to", dst).Msg("Target moved back")
		moved = append(moved, target)
	}

	remaining, hasPreserved, err := r.contents(fromDir, r.preserved)
	if err != nil {
		if os.IsNotExist(err) {
			return moved, nil
		}
		return moved, errors.Wrapf(err, errors.ErrMove, "failed to inspect %s", fromDir)
	}
	if len(remaining) > 0 {
		return moved, errors.Newf(errors.ErrStorageNotEmpty, "storage directory %s still holds %d file(s)", fromDir, len(remaining)).
			WithDetail("path", fromDir).
			WithDetail("remaining", remaining)
	}
	if hasPreserved {
		logger.Debug().Str("path", fromDir).Msg("Storage directory kept for preserved entries")
		return moved, nil
	}

	if err := r.fs.RemoveAll(fromDir); err != nil {
		return moved, errors.Wrapf(err, errors.ErrMove, "failed to remove storage directory %s", fromDir)
	}
	logger.Info().Str("path", fromDir).Int("moved", len(moved)).Msg("Targets moved back, storage removed")
	return moved, nil
}

// RemoveIfEmpty removes dir when it holds no files at all. Empty
// subdirectories do not count. A missing dir is not an error.
func (r *Relocator) RemoveIfEmpty(dir string) error {
	remaining, _, err := r.contents(dir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dir)
	}
	if len(remaining) > 0 {
		return errors.Newf(errors.ErrStorageNotEmpty, "directory %s is not empty", dir).
			WithDetail("path", dir).
			WithDetail("remaining", remaining)
	}
	if err := r.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", dir)
	}
	return nil
}

func (r *Relocator) rename(src, dst string) error {
	if _, err := r.fs.Lstat(dst); err == nil {
		return errors.Newf(errors.ErrMove, "destination already exists: %s", dst)
	}
	if err := r.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return r.fs.Rename(src, dst)
}

// contents lists every non-directory entry under dir, relative to dir.
// Top-level names in skip are left out and reported through hasSkipped.
func (r *Relocator) contents(dir string, skip map[string]bool) (files []string, hasSkipped bool, err error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, false, err
	}

	for _, entry := range entries {
		if skip[entry.Name()] {
			hasSkipped = true
			continue
		}
		if err := r.walk(dir, entry.Name(), entry.IsDir(), &files); err != nil {
			return nil, hasSkipped, err
		}
	}

	sort.Strings(files)
	return files, hasSkipped, nil
}

func (r *Relocator) walk(root, rel string, isDir bool, files *[]string) error {
	if !isDir {
		*files = append(*files, rel)
		return nil
	}
	entries, err := r.fs.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := r.walk(root, filepath.Join(rel, entry.Name()), entry.IsDir(), files); err != nil {
			return err
		}
	}
	return nil
}
