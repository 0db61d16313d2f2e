// Package types defines the core types and interfaces shared across confguard.
// This includes the FS interface every component mutates the disk through,
// the ProjectState value carried in and out of guard transactions, and the
// StorageLocation describing where guarded content lives.
package types
