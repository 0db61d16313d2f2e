package testutil

import (
	"errors"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/confguard/pkg/types"
)

// ErrInjected is the default error returned by a triggered fault
var ErrInjected = errors.New("injected fault")

// Op names a types.FS method for fault injection
type Op string

const (
	OpStat      Op = "Stat"
	OpLstat     Op = "Lstat"
	OpReadFile  Op = "ReadFile"
	OpWriteFile Op = "WriteFile"
	OpMkdir     Op = "Mkdir"
	OpMkdirAll  Op = "MkdirAll"
	OpReadDir   Op = "ReadDir"
	OpSymlink   Op = "Symlink"
	OpReadlink  Op = "Readlink"
	OpRemove    Op = "Remove"
	OpRemoveAll Op = "RemoveAll"
	OpRename    Op = "Rename"
	OpChmod     Op = "Chmod"
	OpChtimes   Op = "Chtimes"
)

// Fault describes one injected failure. Path matches when it is a suffix of
// the path argument (for Rename and Symlink, the destination). Skip lets the
// first matching calls through; Times limits how often the fault fires, zero
// meaning always.
type Fault struct {
	Op    Op
	Path  string
	Err   error
	Skip  int
	Times int

	seen  int
	fired int
}

// FaultyFS wraps a types.FS and fails the operations registered with Fail
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults []*Fault
	calls  []string
}

// NewFaultyFS wraps base
func NewFaultyFS(base types.FS) *FaultyFS {
	return &FaultyFS{FS: base}
}

// Fail registers a fault that fires on every matching call
func (f *FaultyFS) Fail(op Op, pathSuffix string) *FaultyFS {
	return f.Add(Fault{Op: op, Path: pathSuffix})
}

// Add registers a fully specified fault
func (f *FaultyFS) Add(fault Fault) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	f.faults = append(f.faults, &fault)
	return f
}

// Reset removes every registered fault
func (f *FaultyFS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
}

// Calls returns the recorded "Op path" call log
func (f *FaultyFS) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FaultyFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(op)+" "+path)
	for _, fault := range f.faults {
		if fault.Op != op || !strings.HasSuffix(path, fault.Path) {
			continue
		}
		fault.seen++
		if fault.seen <= fault.Skip {
			continue
		}
		if fault.Times > 0 && fault.fired >= fault.Times {
			continue
		}
		fault.fired++
		return &fs.PathError{Op: string(op), Path: path, Err: fault.Err}
	}
	return nil
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultyFS) Mkdir(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdir, path); err != nil {
		return err
	}
	return f.FS.Mkdir(path, perm)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultyFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.check(OpChmod, name); err != nil {
		return err
	}
	return f.FS.Chmod(name, mode)
}

func (f *FaultyFS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	if err := f.check(OpChtimes, name); err != nil {
		return err
	}
	return f.FS.Chtimes(name, atime, mtime)
}
