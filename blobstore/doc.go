// Package blobstore provides storage abstraction for graph snapshots and
// sequence inputs.
//
// Store is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral graphs
//   - LocalStore: local filesystem with mmap reads and atomic rename on write
//   - CachingStore: block cache in front of any Store (remote FASTA inputs)
//   - minio.Store: MinIO and S3-compatible servers
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)           // Open for reading
//	    Create(ctx, name) (WritableBlob, error) // Create for writing
//	    Put(ctx, name, data) error              // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Object-store backends map names to keys with KeyPrefix and clip reads
// with ClipRange.
//
// Blobs that can expose their bytes without copying implement Mappable;
// ReadAll uses it when available.
package blobstore
