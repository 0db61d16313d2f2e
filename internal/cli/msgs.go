package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Keep local configuration files out of project directories"
	MsgGuardShort       = "Move a project's targets into storage and link them back"
	MsgGuardOneShort    = "Guard a single file within a guarded project"
	MsgUnguardShort     = "Move a project's stored files back into place"
	MsgShowShort        = "Show the guard state of a project"
	MsgInfoShort        = "Show settings and guarded projects"
	MsgInitShort        = "Create a starter confguard.toml"
	MsgRelinkShort      = "Recreate missing links of a guarded project"
	MsgReplaceLinkShort = "Replace a symlink with a copy of its target"
	MsgVersionShort     = "Print version information"
	MsgVersionLong      = "Print detailed version information including commit hash and build date"
	MsgCompletionShort  = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagBaseDir  = "Storage base directory (overrides CONFGUARD_BASE_DIR and config.toml)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagAbsolute = "Create absolute symlinks instead of relative ones"
	MsgFlagTarget   = "Target to list in confguard.toml (repeatable)"

	// Version output
	MsgVersionFormat = "confguard version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Errors
	MsgErrNoCommand = "no command specified"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/guard-long.txt
	msgGuardLongRaw string
	MsgGuardLong    = strings.TrimSpace(msgGuardLongRaw)

	//go:embed msgs/guard-example.txt
	msgGuardExampleRaw string
	MsgGuardExample    = strings.TrimRight(msgGuardExampleRaw, "\n")

	//go:embed msgs/guard-one-long.txt
	msgGuardOneLongRaw string
	MsgGuardOneLong    = strings.TrimSpace(msgGuardOneLongRaw)

	//go:embed msgs/guard-one-example.txt
	msgGuardOneExampleRaw string
	MsgGuardOneExample    = strings.TrimRight(msgGuardOneExampleRaw, "\n")

	//go:embed msgs/unguard-long.txt
	msgUnguardLongRaw string
	MsgUnguardLong    = strings.TrimSpace(msgUnguardLongRaw)

	//go:embed msgs/unguard-example.txt
	msgUnguardExampleRaw string
	MsgUnguardExample    = strings.TrimRight(msgUnguardExampleRaw, "\n")

	//go:embed msgs/show-long.txt
	msgShowLongRaw string
	MsgShowLong    = strings.TrimSpace(msgShowLongRaw)

	//go:embed msgs/show-example.txt
	msgShowExampleRaw string
	MsgShowExample    = strings.TrimRight(msgShowExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/relink-long.txt
	msgRelinkLongRaw string
	MsgRelinkLong    = strings.TrimSpace(msgRelinkLongRaw)

	//go:embed msgs/replace-link-long.txt
	msgReplaceLinkLongRaw string
	MsgReplaceLinkLong    = strings.TrimSpace(msgReplaceLinkLongRaw)

	//go:embed msgs/info-long.txt
	msgInfoLongRaw string
	MsgInfoLong    = strings.TrimSpace(msgInfoLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
