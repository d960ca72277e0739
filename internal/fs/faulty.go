package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrInjected is the error of a Fault without Err.
var ErrInjected = errors.New("fs: injected fault")

// Op is the file operation a Fault breaks.
type Op uint8

const (
	OpWrite Op = iota + 1
	OpSync
	OpClose
	OpRename
)

// Fault breaks one operation on matching files.
type Fault struct {
	Op Op
	// AfterBytes lets this many bytes through before OpWrite fails.
	AfterBytes int64
	// Err is returned instead of ErrInjected when set.
	Err error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

type rule struct {
	pattern string
	fault   Fault
}

// FaultyFS wraps a FileSystem and injects faults into files whose path
// contains a rule pattern. Rules are matched in the order they were added.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules []rule
	fired atomic.Int64
}

// NewFaultyFS wraps fsys, or Default when fsys is nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys}
}

// Inject adds a fault for every path containing pattern.
func (f *FaultyFS) Inject(pattern string, fault Fault) {
	f.mu.Lock()
	f.rules = append(f.rules, rule{pattern, fault})
	f.mu.Unlock()
}

// Fired reports how many faults have triggered.
func (f *FaultyFS) Fired() int64 { return f.fired.Load() }

func (f *FaultyFS) lookup(name string, op Op) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rules {
		if r.fault.Op == op && strings.Contains(name, r.pattern) {
			return r.fault, true
		}
	}
	return Fault{}, false
}

func (f *FaultyFS) trip(fault Fault) error {
	f.fired.Add(1)
	return fault.err()
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, name: name}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if fault, ok := f.lookup(newpath, OpRename); ok {
		return f.trip(fault)
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error                     { return f.FS.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error)        { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error { return f.FS.MkdirAll(path, perm) }

type faultyFile struct {
	File
	fs      *FaultyFS
	name    string
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if fault, ok := ff.fs.lookup(ff.name, OpWrite); ok && ff.written+int64(len(p)) > fault.AfterBytes {
		return 0, ff.fs.trip(fault)
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if fault, ok := ff.fs.lookup(ff.name, OpSync); ok {
		return ff.fs.trip(fault)
	}
	return ff.File.Sync()
}

// Close releases the file even when it reports a fault.
func (ff *faultyFile) Close() error {
	err := ff.File.Close()
	if fault, ok := ff.fs.lookup(ff.name, OpClose); ok {
		return ff.fs.trip(fault)
	}
	return err
}
