package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/kmergraph/blobstore"
)

// Store keeps blobs as S3 objects in one bucket, under an optional key prefix.
type Store struct {
	client Client
	bucket string
	keys   blobstore.KeyPrefix
	upload UploadConfig
}

var _ blobstore.Store = (*Store)(nil)

// NewStore returns a store over bucket using DefaultUploadConfig.
// Blob names are joined to rootPrefix with a slash.
func NewStore(client Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		keys:   blobstore.NewKeyPrefix(rootPrefix),
		upload: DefaultUploadConfig(),
	}
}

func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.keys.Key(name)
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translate(err)
	}
	return &object{store: s, key: key, size: aws.ToInt64(head.ContentLength)}, nil
}

// Put uploads data in one request carrying its CRC32C, so S3 rejects a
// corrupted body.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(s.bucket),
		Key:            aws.String(s.keys.Key(name)),
		Body:           bytes.NewReader(data),
		ContentLength:  aws.Int64(int64(len(data))),
		ChecksumCRC32C: aws.String(checksumCRC32C(data)),
	})
	return err
}

// Create streams writes through the multipart uploader. The object
// appears only if Close succeeds.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return startUpload(ctx, s.client, s.upload, s.bucket, s.keys.Key(name)), nil
}

// Delete removes a blob. S3 reports success for missing keys.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keys.Key(name)),
	})
	return err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keys.ListPrefix(prefix)),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if name, ok := s.keys.Name(aws.ToString(obj.Key)); ok {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

// translate maps missing-object errors to blobstore.ErrNotFound.
func translate(err error) error {
	var (
		notFound *types.NotFound
		noKey    *types.NoSuchKey
	)
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
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

func (o *object) open(ctx context.Context, first, last int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := o.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.store.bucket),
		Key:    aws.String(o.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", first, last)),
	})
	if err != nil {
		return nil, translate(err)
	}
	return out.Body, nil
}

func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	first, last, err := blobstore.ClipRange(off, int64(len(p)), o.size)
	if err != nil {
		return 0, err
	}
	body, err := o.open(ctx, first, last)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	n, err := io.ReadFull(body, p[:last-first+1])
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

func (o *object) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if length == 0 && off >= 0 && off < o.size {
		return io.NopCloser(strings.NewReader("")), nil
	}
	first, last, err := blobstore.ClipRange(off, length, o.size)
	if err != nil {
		return nil, err
	}
	return o.open(ctx, first, last)
}
