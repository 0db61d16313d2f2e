// Package backup snapshots the targets of a project before a risky guard or
// unguard step, and restores or discards that snapshot afterwards.
//
// A backup lives in a confguard.bkp directory inside the directory being
// mutated. It is a plain copy: file modes and modification times are kept
// and nested symlinks are recreated as symlinks.
package backup
