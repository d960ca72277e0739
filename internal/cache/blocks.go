package cache

import (
	"container/list"
	"hash/maphash"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kmergraph/internal/resource"
)

const shardCount = 32

// Key names one block of a blob.
type Key struct {
	Blob  string
	Index int64
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits   int64
	Misses int64
	Blocks int
	Bytes  int64
}

// Blocks is a byte-bounded LRU of blob blocks.
// The budget is split evenly across shards; each shard evicts on its own.
// The zero value is not usable; call NewBlocks.
type Blocks struct {
	seed   maphash.Seed
	shards [shardCount]blockShard
	rc     *resource.Controller
	hits   atomic.Int64
	misses atomic.Int64
}

type blockShard struct {
	mu     sync.Mutex
	budget int64
	used   int64
	index  map[Key]*list.Element
	lru    list.List // front is most recent
}

type cached struct {
	key  Key
	data []byte
}

// NewBlocks returns a cache holding at most capacity bytes.
// Cached bytes are charged to rc when it is non-nil.
func NewBlocks(capacity int64, rc *resource.Controller) *Blocks {
	c := &Blocks{seed: maphash.MakeSeed(), rc: rc}
	per := max(capacity/shardCount, 1)
	for i := range c.shards {
		c.shards[i].budget = per
		c.shards[i].index = make(map[Key]*list.Element)
	}
	return c
}

func (c *Blocks) shard(k Key) *blockShard {
	var h maphash.Hash
	h.SetSeed(c.seed)
	h.WriteString(k.Blob)
	return &c.shards[(h.Sum64()+uint64(k.Index))%shardCount]
}

// Get returns the cached block and marks it recently used.
func (c *Blocks) Get(k Key) ([]byte, bool) {
	s := c.shard(k)
	s.mu.Lock()
	e, ok := s.index[k]
	if ok {
		s.lru.MoveToFront(e)
	}
	s.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.Value.(*cached).data, true
}

// Put stores a block. Blocks larger than a shard budget, or refused by the
// resource controller, are silently not cached.
func (c *Blocks) Put(k Key, data []byte) {
	size := int64(len(data))
	s := c.shard(k)

	s.mu.Lock()
	defer s.mu.Unlock()

	if size > s.budget {
		return
	}
	if e, ok := s.index[k]; ok {
		c.remove(s, e)
	}
	for s.used+size > s.budget {
		c.remove(s, s.lru.Back())
	}
	if c.rc.AcquireMemory(size) != nil {
		return
	}
	s.index[k] = s.lru.PushFront(&cached{key: k, data: data})
	s.used += size
}

// Drop removes every block of the named blob.
func (c *Blocks) Drop(blob string) {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for e := s.lru.Front(); e != nil; {
			next := e.Next()
			if e.Value.(*cached).key.Blob == blob {
				c.remove(s, e)
			}
			e = next
		}
		s.mu.Unlock()
	}
}

// Purge empties the cache and releases all charged memory.
func (c *Blocks) Purge() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for s.lru.Len() > 0 {
			c.remove(s, s.lru.Back())
		}
		s.mu.Unlock()
	}
}

// Stats reports counters and current occupancy.
func (c *Blocks) Stats() Stats {
	st := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		st.Blocks += s.lru.Len()
		st.Bytes += s.used
		s.mu.Unlock()
	}
	return st
}

// remove must be called with s.mu held.
func (c *Blocks) remove(s *blockShard, e *list.Element) {
	v := s.lru.Remove(e).(*cached)
	delete(s.index, v.key)
	size := int64(len(v.data))
	s.used -= size
	c.rc.ReleaseMemory(size)
}
