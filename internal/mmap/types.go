package mmap

import "errors"

// Advice tells the kernel how a mapping will be read.
type Advice int

const (
	// Normal leaves read-ahead at the kernel default.
	Normal Advice = iota
	// Sequential suits whole-file scans such as decoding a snapshot.
	Sequential
	// Random suits point reads such as ranged blob requests.
	Random
)

var (
	// ErrClosed is returned by reads from a closed Mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrOutOfRange is returned for negative offsets and lengths.
	ErrOutOfRange = errors.New("mmap: offset out of range")
)
