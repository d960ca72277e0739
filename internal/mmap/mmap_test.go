package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reads.fa")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestMapping(t *testing.T) {
	content := []byte(">seq1\nACGTACGT\n")
	m, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Len())
	assert.Equal(t, content, m.Bytes())
	require.NoError(t, m.Advise(Sequential))

	b, err := m.Slice(6, 8)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", string(b))

	b, err = m.Slice(6, 100)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT\n", string(b), "clamped to the end")

	_, err = m.Slice(int64(len(content)), 1)
	assert.Equal(t, io.EOF, err)
	_, err = m.Slice(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	buf := make([]byte, 20)
	n, err := m.ReadAt(buf, 6)
	assert.Equal(t, 9, n)
	assert.Equal(t, io.EOF, err)
}

func TestMapping_Closed(t *testing.T) {
	m, err := Open(writeFile(t, []byte("ACGT")))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Advise(Random), ErrClosed)
}

func TestMapping_EmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	defer m.Close()

	assert.Zero(t, m.Len())
	assert.Empty(t, m.Bytes())
	_, err = m.Slice(0, 1)
	assert.Equal(t, io.EOF, err)
}

func TestOpen_NotExist(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
