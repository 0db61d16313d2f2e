package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/confguard/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It checks for empty paths, null bytes and excessive length.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Common filesystem limit
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateTarget ensures a configured target can be relocated safely.
// Targets must be relative, already clean, and must not escape the project
// directory or name the project directory itself.
func ValidateTarget(target string) error {
	if err := ValidatePath(target); err != nil {
		return err
	}

	if filepath.IsAbs(target) {
		return errors.Newf(errors.ErrConfigValid, "target must be relative: %s", target)
	}

	if filepath.Clean(target) != target {
		return errors.Newf(errors.ErrConfigValid, "target is not a clean path: %s", target)
	}

	if target == "." || target == ".." || strings.HasPrefix(target, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrConfigValid, "target escapes the project directory: %s", target)
	}

	if target == BackupDirName || target == ProjectConfigFile {
		return errors.Newf(errors.ErrConfigValid, "target is reserved by confguard: %s", target)
	}

	return nil
}

// ValidateTargets validates every target and rejects duplicates and targets
// nested inside another target, which would be moved twice.
func ValidateTargets(targets []string) error {
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		if err := ValidateTarget(target); err != nil {
			return err
		}
		if seen[target] {
			return errors.Newf(errors.ErrConfigValid, "duplicate target: %s", target)
		}
		seen[target] = true
	}

	for _, inner := range targets {
		for _, outer := range targets {
			if strings.HasPrefix(inner, outer+string(filepath.Separator)) {
				return errors.Newf(errors.ErrConfigValid, "target %s is inside target %s", inner, outer).
					WithDetail("target", inner).
					WithDetail("parent", outer)
			}
		}
	}
	return nil
}

// ValidateSentinel ensures a sentinel names exactly one directory below the
// storage root.
func ValidateSentinel(sentinel string) error {
	if err := ValidatePath(sentinel); err != nil {
		return err
	}
	if sentinel == "." || sentinel == ".." ||
		strings.ContainsAny(sentinel, `/\`) ||
		filepath.Base(sentinel) != sentinel {
		return errors.Newf(errors.ErrConfigValid, "invalid sentinel %q: must be a single path segment", sentinel).
			WithDetail("sentinel", sentinel)
	}
	return nil
}
