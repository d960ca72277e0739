package graph

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/kmergraph/wideint"
)

// seenSet tracks the k-mers already yielded by an enumeration.
type seenSet[T wideint.Int[T]] interface {
	// Add inserts x and reports whether it was new.
	Add(x T) bool
	Len() uint64
}

// newSeenSet picks a compressed bitmap when every k-mer fits its key space.
func newSeenSet[T wideint.Int[T]](k int) seenSet[T] {
	switch {
	case k <= 16:
		return &bitmap32[T]{rb: roaring.New()}
	case wideint.WidthOf[T]() == wideint.Width64:
		return &bitmap64[T]{rb: roaring64.New()}
	default:
		return &mapSet[T]{m: make(map[T]struct{})}
	}
}

// bitmap32 holds k-mers with k <= 16, whose encodings fit in 32 bits.
type bitmap32[T wideint.Int[T]] struct {
	rb *roaring.Bitmap
}

func (b *bitmap32[T]) Add(x T) bool { return b.rb.CheckedAdd(uint32(x.Low64())) }
func (b *bitmap32[T]) Len() uint64  { return b.rb.GetCardinality() }

type bitmap64[T wideint.Int[T]] struct {
	rb *roaring64.Bitmap
}

func (b *bitmap64[T]) Add(x T) bool { return b.rb.CheckedAdd(x.Low64()) }
func (b *bitmap64[T]) Len() uint64  { return b.rb.GetCardinality() }

type mapSet[T wideint.Int[T]] struct {
	m map[T]struct{}
}

func (s *mapSet[T]) Add(x T) bool {
	if _, ok := s.m[x]; ok {
		return false
	}
	s.m[x] = struct{}{}
	return true
}

func (s *mapSet[T]) Len() uint64 { return uint64(len(s.m)) }
