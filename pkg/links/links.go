package links

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/logging"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
)

// Manager creates and removes project symlinks
type Manager struct {
	fs types.FS
}

// New returns a Manager operating on fsys
func New(fsys types.FS) *Manager {
	return &Manager{fs: fsys}
}

// CreateForwardLinks links sourceDir/<t> to targetDir/<t> for every target.
// It stops at the first failure; a path already present at the link location
// is a failure.
func (m *Manager) CreateForwardLinks(sourceDir, targetDir string, targets []string, relative bool) error {
	logger := logging.GetLogger("links")
	defer logging.LogOperationStart(logger, "create_forward_links")()

	for _, target := range targets {
		link := filepath.Join(sourceDir, target)
		dest := filepath.Join(targetDir, target)

		if err := m.createLink(link, dest, relative); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", target).
				WithDetail("target", target).
				WithDetail("link", link).
				WithDetail("dest", dest)
		}
		logger.Debug().Str("link", link).Str("dest", dest).Bool("relative", relative).Msg("Forward link created")
	}

	logger.Info().Str("source", sourceDir).Int("links", len(targets)).Msg("Forward links created")
	return nil
}

// RemoveForwardLinks unlinks sourceDir/<t> for every target that is a
// symlink. Missing paths and regular files are left alone, so calling it
// twice is harmless.
func (m *Manager) RemoveForwardLinks(sourceDir string, targets []string) error {
	logger := logging.GetLogger("links")
	defer logging.LogOperationStart(logger, "remove_forward_links")()

	var failed []string
	var firstErr error

	for _, target := range targets {
		link := filepath.Join(sourceDir, target)

		info, err := m.fs.Lstat(link)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug().Str("link", link).Msg("Forward link already gone")
				continue
			}
			failed = append(failed, target)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			logger.Warn().Str("path", link).Msg("Not a symlink, leaving it in place")
			continue
		}

		if err := m.fs.Remove(link); err != nil {
			logger.Error().Err(err).Str("link", link).Msg("Failed to remove forward link")
			failed = append(failed, target)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Debug().Str("link", link).Msg("Forward link removed")
	}

	if firstErr != nil {
		return errors.Wrapf(firstErr, errors.ErrSymlinkRemove, "failed to remove %d forward link(s)", len(failed)).
			WithDetail("targets", failed)
	}
	return nil
}

// CreateBackLink creates targetDir/.<sentinel>.confguard pointing at sourceDir
func (m *Manager) CreateBackLink(targetDir, sourceDir, sentinel string, relative bool) error {
	logger := logging.GetLogger("links")

	link := filepath.Join(targetDir, paths.BackLinkName(sentinel))
	if _, err := m.fs.Lstat(link); err == nil {
		return errors.Newf(errors.ErrSymlinkExists, "back-link already exists: %s", link).
			WithDetail("link", link)
	}

	if err := m.createLink(link, sourceDir, relative); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create back-link %s", link).
			WithDetail("link", link)
	}

	logger.Debug().Str("link", link).Str("dest", sourceDir).Msg("Back-link created")
	return nil
}

// RemoveBackLink removes the back-link of sentinel from targetDir.
// A missing back-link is not an error.
func (m *Manager) RemoveBackLink(targetDir, sentinel string) error {
	logger := logging.GetLogger("links")

	link := filepath.Join(targetDir, paths.BackLinkName(sentinel))
	info, err := m.fs.Lstat(link)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to inspect back-link %s", link)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return errors.Newf(errors.ErrNotSymlink, "back-link path is not a symlink: %s", link).
			WithDetail("link", link)
	}

	if err := m.fs.Remove(link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to remove back-link %s", link)
	}

	logger.Debug().Str("link", link).Msg("Back-link removed")
	return nil
}

// ReplaceLinkWithTarget replaces the symlink at link with a copy of the file
// or directory it points to.
func (m *Manager) ReplaceLinkWithTarget(link string) error {
	logger := logging.GetLogger("links")

	isLink, err := filesystem.IsSymlink(m.fs, link)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", link)
	}
	if !isLink {
		return errors.Newf(errors.ErrNotSymlink, "not a symlink: %s", link).WithDetail("path", link)
	}

	dest, err := m.resolve(link)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", link)
	}
	if _, err := m.fs.Stat(dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "link target does not exist: %s", dest).
			WithDetail("link", link).
			WithDetail("dest", dest)
	}

	tmp := link + ".confguard.tmp"
	if err := m.fs.RemoveAll(tmp); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", tmp)
	}
	if err := filesystem.CopyTree(m.fs, dest, tmp, false); err != nil {
		_ = m.fs.RemoveAll(tmp)
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s", dest)
	}
	if err := m.fs.Remove(link); err != nil {
		_ = m.fs.RemoveAll(tmp)
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "failed to remove link %s", link)
	}
	if err := m.fs.Rename(tmp, link); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to move copy into place at %s", link).
			WithDetail("copy", tmp)
	}

	logger.Info().Str("link", link).Str("dest", dest).Msg("Link replaced with its target")
	return nil
}

// Relink recreates missing forward links for stored targets. Links that
// already point at storage are left alone; anything else occupying a link
// location is reported as an error after every other target was handled.
// The returned slice lists the links that were created.
func (m *Manager) Relink(sourceDir, targetDir string, stored []string, relative bool) ([]string, error) {
	logger := logging.GetLogger("links")
	defer logging.LogOperationStart(logger, "relink")()

	var created, occupied []string

	for _, status := range m.Status(sourceDir, targetDir, stored) {
		switch status.State {
		case StateLinked:
			continue
		case StateStorageMissing:
			logger.Warn().Str("target", status.Target).Msg("Stored target missing from storage, not linked")
			continue
		case StateMissing:
			link := filepath.Join(sourceDir, status.Target)
			dest := filepath.Join(targetDir, status.Target)
			if err := m.createLink(link, dest, relative); err != nil {
				return created, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", status.Target).
					WithDetail("target", status.Target)
			}
			logger.Info().Str("link", link).Str("dest", dest).Msg("Forward link recreated")
			created = append(created, status.Target)
		default:
			occupied = append(occupied, status.Target)
		}
	}

	if len(occupied) > 0 {
		return created, errors.Newf(errors.ErrSymlinkExists, "%d link location(s) occupied by something else", len(occupied)).
			WithDetail("targets", occupied)
	}
	return created, nil
}

// createLink links link to dest. Relative link text is computed between the
// symlink-free parents of both paths, since the kernel resolves it from the
// real directory holding the link.
func (m *Manager) createLink(link, dest string, relative bool) error {
	text := dest
	if relative {
		from, err := filesystem.EvalParent(m.fs, link)
		if err != nil {
			return err
		}
		to, err := filesystem.EvalParent(m.fs, dest)
		if err != nil {
			return err
		}
		rel, err := paths.RelativePath(from, to)
		if err != nil {
			return err
		}
		text = rel
	}

	if err := m.fs.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return err
	}
	return m.fs.Symlink(text, link)
}

// resolve returns the absolute destination of a symlink, with the symlinks
// of its parent directories resolved. The destination itself is not followed.
func (m *Manager) resolve(link string) (string, error) {
	text, err := m.fs.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(text) {
		dir, err := filesystem.EvalSymlinks(m.fs, filepath.Dir(link))
		if err != nil {
			return "", err
		}
		text = filepath.Join(dir, text)
	}
	return m.canonical(text), nil
}

// canonical resolves the parents of path, falling back to the cleaned path
func (m *Manager) canonical(path string) string {
	resolved, err := filesystem.EvalParent(m.fs, filepath.Clean(path))
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}
