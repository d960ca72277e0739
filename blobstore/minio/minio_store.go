package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/hupe1980/kmergraph/blobstore"
	"github.com/minio/minio-go/v7"
)

var (
	errAborted  = errors.New("minio: upload aborted")
	errFinished = errors.New("minio: upload already finished")
)

// Store keeps blobs as objects in one bucket, under an optional key prefix.
type Store struct {
	client *minio.Client
	bucket string
	keys   blobstore.KeyPrefix
	put    minio.PutObjectOptions
}

var _ blobstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPartSize sets the multipart chunk size for streamed uploads.
// Snapshot filters are large; bigger parts mean fewer requests.
func WithPartSize(size uint64) Option {
	return func(s *Store) { s.put.PartSize = size }
}

// WithContentType sets the Content-Type stored with every object.
func WithContentType(ct string) Option {
	return func(s *Store) { s.put.ContentType = ct }
}

// NewStore returns a store over bucket. Blob names are joined to rootPrefix
// with a slash, so "graphs" and "graphs/" are equivalent.
func NewStore(client *minio.Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client: client,
		bucket: bucket,
		keys:   blobstore.NewKeyPrefix(rootPrefix),
		put:    minio.PutObjectOptions{ContentType: "application/octet-stream"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.keys.Key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	return &object{store: s, key: key, size: info.Size}, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.keys.Key(name), bytes.NewReader(data), int64(len(data)), s.put)
	return err
}

// Create streams writes into a single PutObject of unknown length.
// The object appears only if Close succeeds.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	pr, pw := io.Pipe()
	u := &upload{pw: pw, result: make(chan error, 1)}
	key := s.keys.Key(name)

	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, s.put)
		_ = pr.CloseWithError(err)
		u.result <- err
	}()
	return u, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.keys.Key(name), minio.RemoveObjectOptions{})
	if err = translate(err); errors.Is(err, blobstore.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.keys.ListPrefix(prefix),
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name, ok := s.keys.Name(obj.Key); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// translate maps missing-object responses to blobstore.ErrNotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %v", blobstore.ErrNotFound, err)
	}
	return err
}

// object reads one stored object with ranged GETs.
type object struct {
	store *Store
	key   string
	size  int64
}

func (o *object) Size() int64  { return o.size }
func (o *object) Close() error { return nil }

func (o *object) open(ctx context.Context, first, last int64) (*minio.Object, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(first, last); err != nil {
		return nil, err
	}
	return o.store.client.GetObject(ctx, o.store.bucket, o.key, opts)
}

func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	first, last, err := blobstore.ClipRange(off, int64(len(p)), o.size)
	if err != nil {
		return 0, err
	}
	r, err := o.open(ctx, first, last)
	if err != nil {
		return 0, translate(err)
	}
	defer func() { _ = r.Close() }()

	n, err := io.ReadFull(r, p[:last-first+1])
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, translate(err)
}

func (o *object) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if length == 0 && off >= 0 && off < o.size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	first, last, err := blobstore.ClipRange(off, length, o.size)
	if err != nil {
		return nil, err
	}
	r, err := o.open(ctx, first, last)
	return r, translate(err)
}

// upload feeds a background PutObject through a pipe.
type upload struct {
	pw     *io.PipeWriter
	result chan error
	once   sync.Once
}

func (u *upload) Write(p []byte) (int, error) { return u.pw.Write(p) }
func (u *upload) Sync() error                 { return nil }

// finish ends the stream with cause (nil commits) and waits for the PUT.
// Only the first call does anything.
func (u *upload) finish(cause error) (first bool, err error) {
	u.once.Do(func() {
		first = true
		_ = u.pw.CloseWithError(cause)
		err = <-u.result
	})
	return first, err
}

func (u *upload) Close() error {
	first, err := u.finish(nil)
	if !first {
		return errFinished
	}
	return err
}

// Abort cancels the upload; no object is created.
func (u *upload) Abort() error {
	_, _ = u.finish(errAborted)
	return nil
}
