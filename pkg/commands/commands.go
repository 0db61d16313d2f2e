// Package commands provides the high-level command implementations for
// confguard.
//
// Each command lives in its own subdirectory and returns a view from
// pkg/ui/display for the CLI to render:
//   - guard/       - Guard command
//   - guardone/    - GuardOne command
//   - unguard/     - Unguard command
//   - show/        - Show command
//   - info/        - Info command
//   - initialize/  - Init command
//   - relink/      - Relink command
//   - replacelink/ - ReplaceLink command
//   - internal/    - Shared settings, store and transaction setup
//
// This file re-exports the command functions so callers need one import.
package commands

import (
	"github.com/arthur-debert/confguard/pkg/commands/guard"
	"github.com/arthur-debert/confguard/pkg/commands/guardone"
	"github.com/arthur-debert/confguard/pkg/commands/info"
	"github.com/arthur-debert/confguard/pkg/commands/initialize"
	"github.com/arthur-debert/confguard/pkg/commands/relink"
	"github.com/arthur-debert/confguard/pkg/commands/replacelink"
	"github.com/arthur-debert/confguard/pkg/commands/show"
	"github.com/arthur-debert/confguard/pkg/commands/unguard"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// Guard moves the targets of a project into storage and links them back.
type GuardOptions = guard.GuardOptions

func Guard(opts GuardOptions) (*display.TransactionView, error) {
	return guard.Guard(opts)
}

// GuardOne adds a single path to the stored files of a guarded project.
type GuardOneOptions = guardone.GuardOneOptions

func GuardOne(opts GuardOneOptions) (*display.TransactionView, error) {
	return guardone.GuardOne(opts)
}

// Unguard moves the stored files of a project back into it.
type UnguardOptions = unguard.UnguardOptions

func Unguard(opts UnguardOptions) (*display.TransactionView, error) {
	return unguard.Unguard(opts)
}

// Show reports the guard state of a project.
type ShowOptions = show.ShowOptions

func Show(opts ShowOptions) (*display.ProjectView, error) {
	return show.Show(opts)
}

// Info describes the installation and the guarded projects.
type InfoOptions = info.InfoOptions

func Info(opts InfoOptions) (*display.InfoView, error) {
	return info.Info(opts)
}

// Init writes a starter confguard.toml.
type InitOptions = initialize.InitOptions

func Init(opts InitOptions) (*display.MessageView, error) {
	return initialize.Init(opts)
}

// Relink recreates the missing links of a guarded project.
type RelinkOptions = relink.RelinkOptions

func Relink(opts RelinkOptions) (*display.MessageView, error) {
	return relink.Relink(opts)
}

// ReplaceLink replaces a symlink with a copy of its target.
type ReplaceLinkOptions = replacelink.ReplaceLinkOptions

func ReplaceLink(opts ReplaceLinkOptions) (*display.MessageView, error) {
	return replacelink.ReplaceLink(opts)
}
