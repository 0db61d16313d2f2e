package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/confguard/pkg/errors"
)

// RelativePath returns the path of target expressed relative to the directory
// containing source, suitable as the content of a symlink created at source.
//
// The result stays valid when the common ancestor of both paths is moved as a
// whole, but not across mount points that only one of them crosses.
func RelativePath(source, target string) (string, error) {
	if !filepath.IsAbs(source) || !filepath.IsAbs(target) {
		return "", errors.Newf(errors.ErrInvalidPath,
			"both source and target must be absolute paths: %q, %q", source, target)
	}

	sourceParts := splitSegments(filepath.Dir(filepath.Clean(source)))
	targetClean := filepath.Clean(target)
	targetParts := splitSegments(filepath.Dir(targetClean))

	common := 0
	for common < len(sourceParts) && common < len(targetParts) && sourceParts[common] == targetParts[common] {
		common++
	}

	parts := make([]string, 0, len(sourceParts)-common+len(targetParts)-common+1)
	for range sourceParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	parts = append(parts, filepath.Base(targetClean))

	return filepath.Join(parts...), nil
}

func splitSegments(dir string) []string {
	trimmed := strings.Trim(dir, string(filepath.Separator))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, string(filepath.Separator))
}
