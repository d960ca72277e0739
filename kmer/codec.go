package kmer

import (
	"fmt"

	"github.com/hupe1980/kmergraph/wideint"
)

// Codec converts between nucleotide windows of length k and integers of type T.
// A Codec is immutable and safe for concurrent use.
type Codec[T wideint.Int[T]] struct {
	k     int
	mask  T    // low 2k bits
	shift uint // width - 2k
	top   uint // bit offset of the leftmost symbol
}

// New returns a Codec for k-mers of size k. It fails if k <= 0 or if T cannot
// hold 2k bits.
func New[T wideint.Int[T]](k int) (*Codec[T], error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidKmerSize, k)
	}
	var zero T
	if 2*k > zero.Bits() {
		return nil, &WidthError{K: k, Bits: zero.Bits()}
	}
	return &Codec[T]{
		k:     k,
		mask:  zero.Mask(uint(2 * k)),
		shift: uint(zero.Bits() - 2*k),
		top:   uint(2*k - 2),
	}, nil
}

// K returns the k-mer size.
func (c *Codec[T]) K() int { return c.k }

// Mask returns the value with the low 2k bits set (the largest valid encoding).
func (c *Codec[T]) Mask() T { return c.mask }

// Encode packs window into an integer. The window must have exactly k symbols.
func (c *Codec[T]) Encode(window []byte) (T, error) {
	var x T
	if len(window) != c.k {
		return x, &LengthError{Want: c.k, Got: len(window)}
	}
	for i, s := range window {
		code := codes[s]
		if code < 0 {
			var zero T
			return zero, &InvalidSymbolError{Pos: i, Symbol: s}
		}
		x = x.Shl(2).Or(x.FromUint64(uint64(code)))
	}
	return x, nil
}

// EncodeString is Encode for strings.
func (c *Codec[T]) EncodeString(window string) (T, error) {
	return c.Encode([]byte(window))
}

// Decode returns the window encoded by x.
func (c *Codec[T]) Decode(x T) string {
	return string(c.AppendDecode(make([]byte, 0, c.k), x))
}

// AppendDecode appends the window encoded by x to dst.
func (c *Codec[T]) AppendDecode(dst []byte, x T) []byte {
	for i := c.k - 1; i >= 0; i-- {
		dst = append(dst, Symbol(x.Shr(uint(2*i)).Low64()))
	}
	return dst
}

// ReverseComplement returns the encoding of the reverse complement of x.
func (c *Codec[T]) ReverseComplement(x T) T {
	return x.Not().Reverse2().Shr(c.shift)
}

// Canonical returns min(x, ReverseComplement(x)).
func (c *Codec[T]) Canonical(x T) T {
	if rc := c.ReverseComplement(x); rc.Less(x) {
		return rc
	}
	return x
}

// Orient returns the canonical form of x and the strand on which x reads it.
func (c *Codec[T]) Orient(x T) (T, Strand) {
	if rc := c.ReverseComplement(x); rc.Less(x) {
		return rc, StrandReverse
	}
	return x, StrandForward
}

// Oriented returns the encoding of canonical read on strand s.
func (c *Codec[T]) Oriented(canonical T, s Strand) T {
	if s == StrandReverse {
		return c.ReverseComplement(canonical)
	}
	return canonical
}

// Successors returns x shifted left by one symbol with A, C, G, T appended.
func (c *Codec[T]) Successors(x T) [4]T {
	base := x.Shl(2).And(c.mask)
	var out [4]T
	for s := range out {
		out[s] = base.Or(base.FromUint64(uint64(s)))
	}
	return out
}

// Predecessors returns x shifted right by one symbol with A, C, G, T prepended.
func (c *Codec[T]) Predecessors(x T) [4]T {
	base := x.Shr(2)
	var out [4]T
	for s := range out {
		out[s] = base.Or(base.FromUint64(uint64(s)).Shl(c.top))
	}
	return out
}

// Valid reports whether x has no bits set above the low 2k bits.
func (c *Codec[T]) Valid(x T) bool {
	return x.And(c.mask.Not()).IsZero()
}

// IsCanonical reports whether x is a valid encoding that is its own canonical form.
func (c *Codec[T]) IsCanonical(x T) bool {
	return c.Valid(x) && !c.ReverseComplement(x).Less(x)
}
