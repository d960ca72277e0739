package mmap

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/hupe1980/kmergraph/internal/conv"
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	data    []byte
	release func() error
	closed  atomic.Bool
}

// Open maps the file at path. Empty files yield an empty Mapping without a
// kernel mapping behind it.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size, err := conv.Int64ToInt(fi.Size())
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, release, err := mapFile(f, size)
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	return &Mapping{data: data, release: release}, nil
}

// Len returns the mapped length in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Bytes returns the mapped file. The slice must not be used after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Slice returns up to length bytes starting at off, clamped to the end of
// the file. It returns io.EOF when off is at or past the end.
func (m *Mapping) Slice(off, length int64) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if off < 0 || length < 0 {
		return nil, ErrOutOfRange
	}
	n := int64(len(m.data))
	if off >= n {
		return nil, io.EOF
	}
	return m.data[off:min(off+length, n)], nil
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	b, err := m.Slice(off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	n := copy(p, b)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Advise passes an access hint to the kernel. Hints are best effort.
func (m *Mapping) Advise(a Advice) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return advise(m.data, a)
}

// Close releases the mapping. Calling Close more than once is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.release == nil {
		return nil
	}
	return m.release()
}
