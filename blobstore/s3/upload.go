package s3

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/kmergraph/internal/hash"
)

var (
	errAborted  = errors.New("s3: upload aborted")
	errFinished = errors.New("s3: upload already finished")
)

// UploadConfig tunes streamed uploads.
type UploadConfig struct {
	// PartSize is the multipart chunk size. Values below the S3 minimum
	// of 5 MiB keep the uploader default.
	PartSize int64
	// Concurrency is the number of parts in flight.
	Concurrency int
	// EnableChecksum has S3 verify every part with CRC32C.
	EnableChecksum bool
	// LeavePartsOnError keeps uploaded parts after a failure.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns 8 MiB parts, 5 in flight, with checksums.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{PartSize: 8 << 20, Concurrency: 5, EnableChecksum: true}
}

func (c UploadConfig) uploader(client Client) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if c.PartSize >= manager.MinUploadPartSize {
			u.PartSize = c.PartSize
		}
		if c.Concurrency > 0 {
			u.Concurrency = c.Concurrency
		}
		u.LeavePartsOnError = c.LeavePartsOnError
	})
}

// checksumCRC32C is the x-amz-checksum-crc32c value of data: the
// big-endian CRC32-C, base64 encoded.
func checksumCRC32C(data []byte) string {
	return base64.StdEncoding.EncodeToString(binary.BigEndian.AppendUint32(nil, hash.CRC32C(data)))
}

// upload feeds a background manager upload through a pipe.
type upload struct {
	pw     *io.PipeWriter
	result chan error
	once   sync.Once
	err    error
}

func startUpload(ctx context.Context, client Client, cfg UploadConfig, bucket, key string) *upload {
	pr, pw := io.Pipe()
	u := &upload{pw: pw, result: make(chan error, 1)}

	in := &s3.PutObjectInput{Bucket: aws.String(bucket), Key: aws.String(key), Body: pr}
	if cfg.EnableChecksum {
		in.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}
	up := cfg.uploader(client)

	go func() {
		_, err := up.Upload(ctx, in)
		_ = pr.CloseWithError(err)
		u.result <- err
	}()
	return u
}

func (u *upload) Write(p []byte) (int, error) { return u.pw.Write(p) }

// Sync is a no-op; data is committed by Close.
func (u *upload) Sync() error { return nil }

// finish ends the stream with cause (nil commits) and waits for the
// uploader. Later calls report errFinished.
func (u *upload) finish(cause error) error {
	first := false
	u.once.Do(func() {
		first = true
		_ = u.pw.CloseWithError(cause)
		u.err = <-u.result
	})
	if !first {
		return errFinished
	}
	return u.err
}

func (u *upload) Close() error { return u.finish(nil) }

// Abort cancels the upload. The uploader removes any parts it sent unless
// LeavePartsOnError is set.
func (u *upload) Abort() error {
	_ = u.finish(errAborted)
	return nil
}
