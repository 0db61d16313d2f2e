package replacelink

import (
	"fmt"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/links"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
	"github.com/arthur-debert/confguard/pkg/ui/display"
)

// ReplaceLinkOptions defines the options for the ReplaceLink command.
type ReplaceLinkOptions struct {
	// Link is the symlink to replace
	Link string
	// FS defaults to the OS filesystem.
	FS types.FS
}

// ReplaceLink replaces a symlink with a copy of what it points to.
func ReplaceLink(opts ReplaceLinkOptions) (*display.MessageView, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "ReplaceLink").Str("link", opts.Link).Msg("Executing command")

	if opts.Link == "" {
		return nil, errors.New(errors.ErrInvalidInput, "link path cannot be empty")
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	link, err := paths.ToAbsolute(opts.Link)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPath, "invalid link path %q", opts.Link)
	}
	if err := links.New(fsys).ReplaceLinkWithTarget(link); err != nil {
		return nil, err
	}

	return &display.MessageView{
		Command: "replace-link",
		Message: fmt.Sprintf("Replaced %s with a copy of its target", link),
		Paths:   []string{link},
	}, nil
}
