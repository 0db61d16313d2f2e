// Package filesystem provides filesystem implementations for confguard.
//
// This package contains implementations of the types.FS interface (the
// operating system and an afero adapter) and the copy helpers used to take
// and restore backups through that interface.
package filesystem
