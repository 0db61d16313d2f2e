package guard

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewSentinel returns a fresh sentinel for a project directory:
// the directory name followed by eight random hex characters.
func NewSentinel(sourceDir string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return sanitizeName(filepath.Base(sourceDir)) + "-" + id[:8]
}

func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "project"
	}
	return name
}
