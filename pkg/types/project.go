package types

import (
	"path/filepath"
)

// ProjectState is the guard state of one project directory.
// A zero Sentinel means the project is not guarded.
type ProjectState struct {
	// SourceDir is the absolute project root holding confguard.toml
	SourceDir string `json:"sourceDir" yaml:"sourceDir"`

	// Targets are the configured relative paths subject to relocation
	Targets []string `json:"targets" yaml:"targets"`

	// Sentinel names the storage subdirectory while guarded
	Sentinel string `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`

	// StoredFiles are the targets that were actually moved into storage
	StoredFiles []string `json:"storedFiles,omitempty" yaml:"storedFiles,omitempty"`

	// Relative selects relative symlinks instead of absolute ones
	Relative bool `json:"relative" yaml:"relative"`
}

// IsGuarded reports whether the project currently has a sentinel
func (p ProjectState) IsGuarded() bool {
	return p.Sentinel != ""
}

// Clone returns a copy that shares no slices with p
func (p ProjectState) Clone() ProjectState {
	c := p
	c.Targets = append([]string(nil), p.Targets...)
	c.StoredFiles = append([]string(nil), p.StoredFiles...)
	return c
}

// Unguarded returns a copy of p with the guard state cleared
func (p ProjectState) Unguarded() ProjectState {
	c := p.Clone()
	c.Sentinel = ""
	c.StoredFiles = nil
	return c
}

// StorageLocation is the process-wide directory holding guarded content
type StorageLocation struct {
	Root string
}

// SentinelDir returns the storage directory owned by a sentinel
func (s StorageLocation) SentinelDir(sentinel string) string {
	return filepath.Join(s.Root, sentinel)
}

// BackLinkPath returns the location of the back-link inside a sentinel dir
func (s StorageLocation) BackLinkPath(sentinel string) string {
	return filepath.Join(s.SentinelDir(sentinel), "."+sentinel+".confguard")
}
