package types

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface required for confguard operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Metadata operations
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime time.Time, mtime time.Time) error
}

// ProjectStore loads and persists the guard state of a project
type ProjectStore interface {
	// Load reads the project configuration and internal state of sourceDir
	Load(sourceDir string) (ProjectState, error)

	// Save persists the internal state of a project
	Save(state ProjectState) error
}
