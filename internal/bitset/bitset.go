package bitset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"sync/atomic"
)

// ErrSizeMismatch is returned when a byte image does not match the bitset length.
var ErrSizeMismatch = errors.New("bitset: size mismatch")

// BitSet is a thread-safe, lock-free bitset of fixed length.
type BitSet struct {
	words []atomic.Uint64
	size  uint64
}

// New creates a new BitSet with the given size (in bits).
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, WordsFor(size)),
		size:  size,
	}
}

// WordsFor returns the number of 64-bit words needed for size bits.
func WordsFor(size uint64) uint64 {
	return (size + 63) / 64
}

// Len returns the number of bits.
func (b *BitSet) Len() uint64 {
	return b.size
}

// Words returns the number of 64-bit words.
func (b *BitSet) Words() int {
	return len(b.words)
}

// Set sets the bit at the given index. Out-of-range indexes are ignored.
func (b *BitSet) Set(i uint64) {
	if i >= b.size {
		return
	}
	b.words[i>>6].Or(1 << (i & 63))
}

// TestAndSet sets the bit at the given index and returns true if it was ALREADY set.
func (b *BitSet) TestAndSet(i uint64) bool {
	if i >= b.size {
		return false
	}
	mask := uint64(1) << (i & 63)
	w := &b.words[i>>6]

	// Optimistic check avoids a write on hot, already-set words.
	if w.Load()&mask != 0 {
		return true
	}
	return w.Or(mask)&mask != 0
}

// Test returns true if the bit at the given index is set.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.size {
		return false
	}
	return b.words[i>>6].Load()&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *BitSet) Count() uint64 {
	var count uint64
	for i := range b.words {
		if v := b.words[i].Load(); v != 0 {
			count += uint64(bits.OnesCount64(v))
		}
	}
	return count
}

// ClearAll clears all bits.
func (b *BitSet) ClearAll() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}

// SizeBytes returns the memory held by the word array.
func (b *BitSet) SizeBytes() uint64 {
	return uint64(len(b.words)) * 8
}

// AppendBytes appends the little-endian image of the words to dst.
func (b *BitSet) AppendBytes(dst []byte) []byte {
	for i := range b.words {
		dst = binary.LittleEndian.AppendUint64(dst, b.words[i].Load())
	}
	return dst
}

// LoadBytes replaces the words with the little-endian image in src.
func (b *BitSet) LoadBytes(src []byte) error {
	if uint64(len(src)) != b.SizeBytes() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(src), b.SizeBytes())
	}
	for i := range b.words {
		b.words[i].Store(binary.LittleEndian.Uint64(src[i*8:]))
	}
	if tail := b.size & 63; tail != 0 && len(b.words) > 0 {
		if b.words[len(b.words)-1].Load()>>tail != 0 {
			return fmt.Errorf("%w: bits set beyond length %d", ErrSizeMismatch, b.size)
		}
	}
	return nil
}

// WriteTo writes the bit length followed by the words.
func (b *BitSet) WriteTo(w io.Writer) (int64, error) {
	buf := binary.LittleEndian.AppendUint64(make([]byte, 0, 8+b.SizeBytes()), b.size)
	buf = b.AppendBytes(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads a bitset written by WriteTo. The length must match.
func (b *BitSet) ReadFrom(r io.Reader) (int64, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, err
	}
	if size := binary.LittleEndian.Uint64(hdr[:]); size != b.size {
		return 8, fmt.Errorf("%w: got %d bits, want %d", ErrSizeMismatch, size, b.size)
	}
	buf := make([]byte, b.SizeBytes())
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(8 + n), err
	}
	return int64(8 + n), b.LoadBytes(buf)
}
