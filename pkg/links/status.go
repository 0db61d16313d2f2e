package links

import (
	"io/fs"
	"path/filepath"
)

// LinkState describes the forward link of one stored target
type LinkState string

const (
	// StateLinked means the link exists and points at storage
	StateLinked LinkState = "linked"
	// StateMissing means nothing exists at the link location
	StateMissing LinkState = "missing"
	// StateWrongTarget means a symlink points somewhere other than storage
	StateWrongTarget LinkState = "wrong-target"
	// StateOccupied means a regular file or directory sits at the link location
	StateOccupied LinkState = "occupied"
	// StateStorageMissing means the stored copy is gone
	StateStorageMissing LinkState = "storage-missing"
)

// LinkStatus is the observed state of one stored target
type LinkStatus struct {
	Target string    `json:"target" yaml:"target"`
	Link   string    `json:"link" yaml:"link"`
	Dest   string    `json:"dest" yaml:"dest"`
	State  LinkState `json:"state" yaml:"state"`
}

// Status inspects the forward link of every stored target
func (m *Manager) Status(sourceDir, targetDir string, stored []string) []LinkStatus {
	out := make([]LinkStatus, 0, len(stored))
	for _, target := range stored {
		st := LinkStatus{
			Target: target,
			Link:   filepath.Join(sourceDir, target),
			Dest:   filepath.Join(targetDir, target),
		}
		st.State = m.state(st.Link, st.Dest)
		out = append(out, st)
	}
	return out
}

func (m *Manager) state(link, dest string) LinkState {
	if _, err := m.fs.Lstat(dest); err != nil {
		return StateStorageMissing
	}

	info, err := m.fs.Lstat(link)
	if err != nil {
		return StateMissing
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return StateOccupied
	}

	resolved, err := m.resolve(link)
	if err != nil || resolved != m.canonical(dest) {
		return StateWrongTarget
	}
	return StateLinked
}
