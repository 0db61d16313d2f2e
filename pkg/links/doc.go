// Package links manages the symlinks of a guarded project.
//
// Forward links replace each stored target inside the project directory and
// point into the sentinel directory. The back-link lives in the sentinel
// directory, is named .<sentinel>.confguard and points at the project, so a
// storage directory can always be traced to its owner.
//
// Links are absolute by default. In relative mode the link text is computed
// by paths.RelativePath so a project and its storage can be moved together.
package links
