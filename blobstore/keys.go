package blobstore

import (
	"fmt"
	"io"
	"strings"
)

// KeyPrefix maps blob names to object keys below a root prefix in a
// flat object namespace. Leading and trailing slashes of the root are
// ignored, so "graphs", "graphs/" and "/graphs/" are the same prefix.
type KeyPrefix struct {
	root string // empty or ends in "/"
}

// NewKeyPrefix returns the mapping for root.
func NewKeyPrefix(root string) KeyPrefix {
	root = strings.Trim(root, "/")
	if root == "" {
		return KeyPrefix{}
	}
	return KeyPrefix{root: root + "/"}
}

// Key returns the object key of a blob name.
func (p KeyPrefix) Key(name string) string {
	return p.root + strings.TrimPrefix(name, "/")
}

// ListPrefix returns the key prefix matching blob names that start with prefix.
func (p KeyPrefix) ListPrefix(prefix string) string {
	return p.root + prefix
}

// Name reverses Key. Keys outside the root, and the root itself, are
// rejected.
func (p KeyPrefix) Name(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, p.root)
	return name, ok && name != ""
}

// ClipRange clips [off, off+length) to a blob of size bytes and returns
// the inclusive first and last offsets, the form HTTP Range headers use.
// An offset at or past the end is io.EOF.
func ClipRange(off, length, size int64) (first, last int64, err error) {
	switch {
	case off < 0 || length < 0:
		return 0, 0, fmt.Errorf("blobstore: invalid range off=%d length=%d", off, length)
	case off >= size:
		return 0, 0, io.EOF
	}
	return off, min(off+length, size) - 1, nil
}
