package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	vfs "github.com/hupe1980/kmergraph/internal/fs"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Create a blob
	blobName := "graphs/k31.kmgs"
	data := []byte("hello world, this is a test blob for kmergraph")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible before Close.
	_, err = os.Stat(filepath.Join(tmpDir, "graphs", "k31.kmgs"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, "graphs", "k31.kmgs"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. ReadRange: "this" (offset 13, length 4)
	rangeReader, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	defer rangeReader.Close()

	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.Equal(t, "this", string(rangeContent))

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	require.Equal(t, data, all)

	// 4. List
	require.NoError(t, store.Put(ctx, "reads.fa", []byte(">r\nACGT\n")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "reads.fa"}, names)

	names, err = store.List(ctx, "graphs/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, names)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, "reads.fa"))
	require.NoError(t, store.Delete(ctx, "reads.fa")) // missing is fine

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, names)

	_, err = store.Open(ctx, "reads.fa")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	// Case 1: Read full range
	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	require.True(t, bytes.Equal(data, content))

	// Case 2: Read past end (only 8 and 9 available)
	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))
	r.Close()

	// Case 3: Offset past EOF
	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)
}

func TestLocalBlobStore_EmptyRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestAbort(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "partial.kmg")
			require.NoError(t, err)
			_, err = w.Write([]byte("half a snapshot"))
			require.NoError(t, err)
			require.NoError(t, Abort(w))

			_, err = store.Open(ctx, "partial.kmg")
			require.ErrorIs(t, err, ErrNotFound)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			require.Empty(t, names)
		})
	}
}

func TestLocalBlobStore_Faults(t *testing.T) {
	ctx := context.Background()
	data := bytes.Repeat([]byte("ACGT"), 1024)

	tests := []struct {
		name  string
		fault vfs.Fault
	}{
		{"write", vfs.Fault{Op: vfs.OpWrite, AfterBytes: 100}},
		{"sync", vfs.Fault{Op: vfs.OpSync}},
		{"close", vfs.Fault{Op: vfs.OpClose}},
		{"rename", vfs.Fault{Op: vfs.OpRename}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ffs := vfs.NewFaultyFS(nil)
			ffs.Inject("graph.kmgs", tt.fault)
			store := newLocalStore(dir, ffs)

			err := store.Put(ctx, "graph.kmgs", data)
			require.ErrorIs(t, err, vfs.ErrInjected)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Empty(t, entries, "no blob or temp file is left behind")

			require.NoError(t, store.Put(ctx, "other.kmgs", data))
			b, err := store.Open(ctx, "other.kmgs")
			require.NoError(t, err)
			defer b.Close()
			got, err := ReadAll(ctx, b)
			require.NoError(t, err)
			require.Equal(t, data, got)
		})
	}
}
