package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/hupe1980/kmergraph/internal/cache"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheBlockSize is the block size used when none is given.
const DefaultCacheBlockSize = 1 << 20

// maxParallelFetches bounds concurrent inner reads of one ReadAt.
const maxParallelFetches = 16

// CachingStore wraps a Store and adds block-level read caching.
// It pays off for remote sequence sources, which are replayed by every
// node enumeration.
type CachingStore struct {
	inner     Store
	cache     *cache.Blocks
	blockSize int64
}

// NewCachingStore creates a new CachingStore backed by an in-memory LRU of
// capacity bytes. blockSize defaults to DefaultCacheBlockSize if <= 0.
func NewCachingStore(inner Store, capacity, blockSize int64) *CachingStore {
	return newCachingStore(inner, cache.NewBlocks(capacity, nil), blockSize)
}

func newCachingStore(inner Store, c *cache.Blocks, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultCacheBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		blockSize: blockSize,
	}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	st := s.cache.Stats()
	return st.Hits, st.Misses
}

// Close drops all cached blocks.
func (s *CachingStore) Close() error {
	s.cache.Purge()
	return nil
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Drop(name)
}

// CachingBlob wraps a Blob and uses the block cache for reads.
type CachingBlob struct {
	inner     Blob
	cache     *cache.Blocks
	name      string
	blockSize int64
}

func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	first, last, err := ClipRange(off, int64(len(p)), b.Size())
	if err != nil {
		return 0, err
	}

	blocks, err := b.blocks(ctx, first/b.blockSize, last/b.blockSize)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, data := range blocks {
		start := (first/b.blockSize + int64(i)) * b.blockSize
		lo := max(start, off) - start
		if lo >= int64(len(data)) {
			break
		}
		n += copy(p[n:], data[lo:])
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// blocks returns blocks lo..hi. Cached blocks are served from memory;
// each contiguous run of missing blocks is read with one inner ReadAt,
// runs in parallel, and the result is cached block by block.
func (b *CachingBlob) blocks(ctx context.Context, lo, hi int64) ([][]byte, error) {
	out := make([][]byte, hi-lo+1)
	type run struct{ at, n int64 }
	var missing []run
	for i := range out {
		blk := lo + int64(i)
		if data, ok := b.cache.Get(b.key(blk)); ok {
			out[i] = data
			continue
		}
		if k := len(missing) - 1; k >= 0 && missing[k].at+missing[k].n == blk {
			missing[k].n++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, r := range missing {
		g.Go(func() error {
			start := r.at * b.blockSize
			buf := make([]byte, min(r.n*b.blockSize, b.Size()-start))
			n, err := b.inner.ReadAt(ctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]
			for j := int64(0); j < r.n; j++ {
				from := min(j*b.blockSize, int64(n))
				to := min(from+b.blockSize, int64(n))
				// Cached blocks get their own copy so one block does not pin the run.
				block := bytes.Clone(buf[from:to])
				out[r.at-lo+j] = block
				if len(block) > 0 {
					b.cache.Put(b.key(r.at+j), block)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *CachingBlob) key(blk int64) cache.Key {
	return cache.Key{Blob: b.name, Index: blk}
}

func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= b.Size() {
		return nil, io.EOF
	}
	return io.NopCloser(&sectionReader{blob: b, ctx: ctx, off: off, limit: min(off+length, b.Size())}), nil
}
