package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/confguard/pkg/types"
)

// Exists reports whether name exists without following a final symlink
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Lstat(name)
	return err == nil
}

// IsSymlink reports whether name is a symbolic link.
// A missing path is not an error and reports false.
func IsSymlink(fsys types.FS, name string) (bool, error) {
	info, err := fsys.Lstat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}

// CopyFile copies a regular file, preserving its permission bits and
// modification time.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	data, err := fsys.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	// WriteFile does not apply perm to files that already existed
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", dst, err)
	}

	if err := fsys.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", dst, err)
	}

	return nil
}

// CopyTree copies src to dst. src may be a file, a directory or a symlink;
// symlinks are recreated rather than followed.
//
// With keepExisting set, entries already present at dst are left untouched and
// directories are merged, so only missing paths are added.
func CopyTree(fsys types.FS, src, dst string, keepExisting bool) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if keepExisting && !info.IsDir() && Exists(fsys, dst) {
		return nil
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return copySymlink(fsys, src, dst)
	case info.IsDir():
		return copyDir(fsys, src, dst, info, keepExisting)
	case info.Mode().IsRegular():
		return CopyFile(fsys, src, dst)
	default:
		return fmt.Errorf("unsupported file type at %s: %s", src, info.Mode().Type())
	}
}

func copyDir(fsys types.FS, src, dst string, info fs.FileInfo, keepExisting bool) error {
	if err := fsys.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dst, err)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := CopyTree(fsys, srcPath, dstPath, keepExisting); err != nil {
			return err
		}
	}

	if err := fsys.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", dst, err)
	}

	return nil
}

func copySymlink(fsys types.FS, src, dst string) error {
	target, err := fsys.Readlink(src)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", src, err)
	}
	if err := fsys.Symlink(target, dst); err != nil {
		return fmt.Errorf("failed to create link %s: %w", dst, err)
	}
	return nil
}

// CopyDir merges the directory src into dst, keeping anything already at dst.
func CopyDir(fsys types.FS, src, dst string) error {
	return CopyTree(fsys, src, dst, true)
}
