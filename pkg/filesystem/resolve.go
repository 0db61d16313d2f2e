package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/confguard/pkg/types"
)

const maxSymlinkHops = 255

// EvalSymlinks returns the absolute path with every symlink in its existing
// components resolved through fsys. Components that do not exist are kept
// as written, so the result is usable for paths about to be created.
func EvalSymlinks(fsys types.FS, path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path must be absolute: %s", path)
	}

	resolved := string(filepath.Separator)
	rest := segments(filepath.Clean(path))
	hops := 0

	for len(rest) > 0 {
		name := rest[0]
		rest = rest[1:]

		switch name {
		case ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, name)
		info, err := fsys.Lstat(next)
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.Join(append([]string{next}, rest...)...), nil
			}
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", fmt.Errorf("too many levels of symbolic links: %s", path)
		}
		text, err := fsys.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(text) {
			resolved = string(filepath.Separator)
		}
		rest = append(segments(text), rest...)
	}

	return resolved, nil
}

// EvalParent resolves the directory part of path and keeps its final
// element, so a symlink at path itself is not followed.
func EvalParent(fsys types.FS, path string) (string, error) {
	dir, err := EvalSymlinks(fsys, filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(path)), nil
}

func segments(path string) []string {
	var out []string
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
