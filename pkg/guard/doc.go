// Package guard runs the guard and unguard transactions of a project.
//
// Guarding backs up the configured targets, moves them into a fresh sentinel
// directory under the storage root, links them back into the project and
// records the sentinel in the project store. Unguarding reverses those steps.
//
// Either transaction that fails partway is rolled back by running the inverse
// steps in reverse order and restoring from the backup, so the project is left
// in the state it had before the call: unguarded after a failed guard and
// guarded after a failed unguard. Only a failure of the rollback itself leaves
// an intermediate state behind. It is reported as ErrRollback and the backup
// directory is kept for manual recovery.
package guard
