package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/kmergraph/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore connects to the server named by MINIO_ENDPOINT (default
// localhost:9000) and skips when it is unreachable.
func testStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
	})
	if err != nil {
		t.Skipf("minio client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	const bucket = "kmergraph-test"
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		t.Skipf("minio not reachable at %s: %v", endpoint, err)
	}
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}
	prefix := fmt.Sprintf("run-%d", time.Now().UnixNano())
	return NewStore(client, bucket, prefix, WithPartSize(5<<20)), ctx
}

func TestStore_Server(t *testing.T) {
	store, ctx := testStore(t)
	reads := []byte(">r1\nACGTACGTTGCA\n>r2\nGGGCCCAAATTT\n")

	t.Run("PutRead", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "inputs/reads.fa", reads))

		blob, err := store.Open(ctx, "inputs/reads.fa")
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()
		assert.Equal(t, int64(len(reads)), blob.Size())

		all, err := io.ReadAll(blobstore.NewReader(ctx, blob))
		require.NoError(t, err)
		assert.Equal(t, reads, all)

		r, err := blob.ReadRange(ctx, 4, 12)
		require.NoError(t, err)
		seq, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "ACGTACGTTGCA", string(seq))
	})

	t.Run("StreamedWrite", func(t *testing.T) {
		w, err := store.Create(ctx, "graphs/aborted.kmg")
		require.NoError(t, err)
		_, err = w.Write([]byte("KMGS"))
		require.NoError(t, err)
		require.NoError(t, blobstore.Abort(w))

		_, err = store.Open(ctx, "graphs/aborted.kmg")
		require.ErrorIs(t, err, blobstore.ErrNotFound)

		w, err = store.Create(ctx, "graphs/k5.kmg")
		require.NoError(t, err)
		_, err = w.Write([]byte("KMGS snapshot"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Error(t, w.Close())

		blob, err := store.Open(ctx, "graphs/k5.kmg")
		require.NoError(t, err)
		assert.Equal(t, int64(13), blob.Size())
		require.NoError(t, blob.Close())
	})

	t.Run("ListDelete", func(t *testing.T) {
		names, err := store.List(ctx, "graphs/")
		require.NoError(t, err)
		assert.Equal(t, []string{"graphs/k5.kmg"}, names)

		for _, name := range []string{"graphs/k5.kmg", "inputs/reads.fa", "never/written"} {
			require.NoError(t, store.Delete(ctx, name))
		}
		names, err = store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestObject_OutOfRange(t *testing.T) {
	o := &object{size: 10}
	ctx := context.Background()

	_, err := o.ReadRange(ctx, 10, 1)
	assert.ErrorIs(t, err, io.EOF)

	n, err := o.ReadAt(ctx, make([]byte, 4), 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	n, err = o.ReadAt(ctx, nil, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	r, err := o.ReadRange(ctx, 3, 0)
	require.NoError(t, err)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, rest)

	_, err = o.ReadRange(ctx, -1, 1)
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	missing := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	assert.ErrorIs(t, translate(missing), blobstore.ErrNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	err := translate(denied)
	assert.NotErrorIs(t, err, blobstore.ErrNotFound)
	assert.Equal(t, denied, err)
}
