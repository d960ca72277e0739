package counter

import (
	"iter"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kmergraph/internal/resource"
	"github.com/hupe1980/kmergraph/wideint"
)

// NumShards is the number of independent shards.
const NumShards = 64

const shardSeed = 0x9e3779b97f4a7c15

// mapEntryOverhead approximates the per-entry bookkeeping of a Go map.
const mapEntryOverhead = 16

type shard[T wideint.Int[T]] struct {
	mu     sync.Mutex
	counts map[T]uint32
}

// Table counts occurrences of values of type T.
type Table[T wideint.Int[T]] struct {
	shards     [NumShards]shard[T]
	rc         *resource.Controller
	entryBytes int64
	reserved   atomic.Int64
	distinct   atomic.Int64
}

// New creates an empty table charging its growth to rc (nil means unlimited).
func New[T wideint.Int[T]](rc *resource.Controller) *Table[T] {
	t := &Table[T]{
		rc:         rc,
		entryBytes: EntryBytes[T](),
	}
	for i := range t.shards {
		t.shards[i].counts = make(map[T]uint32)
	}
	return t
}

// EntryBytes returns the estimated memory per distinct key.
func EntryBytes[T wideint.Int[T]]() int64 {
	var zero T
	return int64(zero.Bits()/8+4) + mapEntryOverhead
}

func shardOf[T wideint.Int[T]](x T) int {
	return int(x.Hash(shardSeed) % NumShards)
}

// add merges keys into shard i and returns the number of new keys.
func (t *Table[T]) add(i int, keys []T) int64 {
	s := &t.shards[i]
	s.mu.Lock()
	defer s.mu.Unlock()

	var added int64
	for _, k := range keys {
		c, ok := s.counts[k]
		if !ok {
			added++
		}
		if c < math.MaxUint32 {
			s.counts[k] = c + 1
		}
	}
	return added
}

func (t *Table[T]) charge(added int64) error {
	if added == 0 {
		return nil
	}
	t.distinct.Add(added)
	bytes := added * t.entryBytes
	if err := t.rc.AcquireMemory(bytes); err != nil {
		return err
	}
	t.reserved.Add(bytes)
	return nil
}

// Len returns the number of distinct keys.
func (t *Table[T]) Len() int {
	return int(t.distinct.Load())
}

// MemoryBytes returns the memory charged to the controller.
func (t *Table[T]) MemoryBytes() int64 {
	return t.reserved.Load()
}

// Shard returns the keys and counts of shard i. It must not run concurrently with writers.
func (t *Table[T]) Shard(i int) iter.Seq2[T, uint32] {
	return func(yield func(T, uint32) bool) {
		for k, c := range t.shards[i].counts {
			if !yield(k, c) {
				return
			}
		}
	}
}

// All returns every key and count. It must not run concurrently with writers.
func (t *Table[T]) All() iter.Seq2[T, uint32] {
	return func(yield func(T, uint32) bool) {
		for i := range t.shards {
			for k, c := range t.shards[i].counts {
				if !yield(k, c) {
					return
				}
			}
		}
	}
}

// CountAtLeast returns the number of keys whose count is at least threshold.
func (t *Table[T]) CountAtLeast(threshold uint32) int {
	n := 0
	for i := range t.shards {
		for _, c := range t.shards[i].counts {
			if c >= threshold {
				n++
			}
		}
	}
	return n
}

// Release drops all entries and returns the charged memory to the controller.
func (t *Table[T]) Release() {
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		s.counts = make(map[T]uint32)
		s.mu.Unlock()
	}
	t.distinct.Store(0)
	t.rc.ReleaseMemory(t.reserved.Swap(0))
}

// Batch buffers keys per shard for one writer. A Batch is not safe for
// concurrent use; each goroutine uses its own.
type Batch[T wideint.Int[T]] struct {
	t    *Table[T]
	size int
	bufs [NumShards][]T
}

// NewBatch returns a batch that flushes a shard buffer once it holds size keys.
func (t *Table[T]) NewBatch(size int) *Batch[T] {
	if size < 1 {
		size = 1
	}
	return &Batch[T]{t: t, size: size}
}

// Add buffers one occurrence of x.
func (b *Batch[T]) Add(x T) error {
	i := shardOf(x)
	b.bufs[i] = append(b.bufs[i], x)
	if len(b.bufs[i]) >= b.size {
		return b.flushShard(i)
	}
	return nil
}

// Flush writes all buffered keys to the table.
func (b *Batch[T]) Flush() error {
	for i := range b.bufs {
		if len(b.bufs[i]) == 0 {
			continue
		}
		if err := b.flushShard(i); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch[T]) flushShard(i int) error {
	added := b.t.add(i, b.bufs[i])
	b.bufs[i] = b.bufs[i][:0]
	return b.t.charge(added)
}
