//go:build unix

package mmap

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

func advise(data []byte, a Advice) error {
	flag := unix.MADV_NORMAL
	switch a {
	case Sequential:
		flag = unix.MADV_SEQUENTIAL
	case Random:
		flag = unix.MADV_RANDOM
	}
	// EINVAL means the kernel rejected the hint, not that the mapping is bad.
	if err := unix.Madvise(data, flag); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}
