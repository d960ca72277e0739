package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
)

// MemoryStore holds blobs in process memory. Graphs saved to it can be
// loaded again by the same process; tests use it as a stand-in for remote
// stores. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}}
}

func (m *MemoryStore) get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[name]
	return data, ok
}

// commit stores data without copying; callers hand over ownership.
func (m *MemoryStore) commit(name string, data []byte) {
	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()
}

func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	data, ok := m.get(name)
	if !ok {
		return nil, ErrNotFound
	}
	return byteBlob(data), nil
}

// Create buffers writes until Close publishes them under name.
func (m *MemoryStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return &pendingBlob{store: m, name: name}, nil
}

func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	m.commit(name, bytes.Clone(data))
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.blobs, name)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	m.mu.RUnlock()

	slices.Sort(names)
	return names, nil
}

// byteBlob is a read-only view of a committed blob. Committed slices are
// never written again, so views share them.
type byteBlob []byte

func (b byteBlob) Size() int64            { return int64(len(b)) }
func (b byteBlob) Close() error           { return nil }
func (b byteBlob) Bytes() ([]byte, error) { return b, nil }

func (b byteBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return bytes.NewReader(b).ReadAt(p, off)
}

func (b byteBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= b.Size() {
		return nil, io.EOF
	}
	return io.NopCloser(io.NewSectionReader(bytes.NewReader(b), off, length)), nil
}

// pendingBlob collects a Create stream. Nothing is visible before Close,
// and Abort leaves any previous blob of the same name in place.
type pendingBlob struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
	done  bool
}

func (w *pendingBlob) Write(p []byte) (int, error) {
	if w.done {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *pendingBlob) Sync() error { return nil }

func (w *pendingBlob) Close() error {
	if w.done {
		return os.ErrClosed
	}
	w.done = true
	w.store.commit(w.name, w.buf.Bytes())
	return nil
}

func (w *pendingBlob) Abort() error {
	w.done = true
	w.buf = bytes.Buffer{}
	return nil
}
