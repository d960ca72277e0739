package wideint

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPositiveK is returned by ForK when k <= 0.
	ErrNonPositiveK = errors.New("wideint: k-mer size must be positive")

	// ErrKmerSizeTooLarge is returned by ForK when no width can hold 2k bits.
	ErrKmerSizeTooLarge = errors.New("wideint: k-mer size exceeds the widest representation")
)

// Int is the arithmetic and bit-manipulation contract shared by all widths.
//
// Methods never mutate the receiver. Constructors are methods too (FromUint64,
// Mask) so that generic code can build values from the zero value of T.
type Int[T any] interface {
	comparable

	// FromUint64 returns v widened to T.
	FromUint64(v uint64) T
	// Mask returns a value with the low n bits set.
	Mask(n uint) T

	And(o T) T
	Or(o T) T
	Xor(o T) T
	Not() T
	Shl(n uint) T
	Shr(n uint) T
	// Add returns x+o modulo 2^Bits, carrying across words.
	Add(o T) T

	// Compare returns -1, 0 or +1.
	Compare(o T) int
	Less(o T) bool
	IsZero() bool

	// Low64 returns the least significant 64 bits.
	Low64() uint64
	// Reverse2 reverses the order of the 2-bit groups across the full width.
	Reverse2() T
	// Hash returns a deterministic 64-bit hash of the value mixed with seed.
	Hash(seed uint64) uint64

	// Bits returns the width in bits.
	Bits() int
	String() string
}

// Width identifies one of the supported integer widths.
type Width int

const (
	Width64  Width = 64
	Width128 Width = 128
	Width192 Width = 192
	Width256 Width = 256
	Width320 Width = 320
)

// Widths lists the supported widths from narrowest to widest.
func Widths() []Width {
	return []Width{Width64, Width128, Width192, Width256, Width320}
}

// ForK returns the narrowest width able to hold a k-mer of size k (2 bits per symbol).
func ForK(k int) (Width, error) {
	if k <= 0 {
		return 0, fmt.Errorf("%w: k=%d", ErrNonPositiveK, k)
	}
	for _, w := range Widths() {
		if 2*k <= int(w) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: k=%d (max %d)", ErrKmerSizeTooLarge, k, Width320.MaxK())
}

// MaxK returns the largest k-mer size the width can hold.
func (w Width) MaxK() int { return int(w) / 2 }

func (w Width) String() string {
	return fmt.Sprintf("%d-bit", int(w))
}

// MaxK returns the largest k-mer size representable by T.
func MaxK[T Int[T]]() int {
	var zero T
	return zero.Bits() / 2
}

// WidthOf returns the Width of T.
func WidthOf[T Int[T]]() Width {
	var zero T
	return Width(zero.Bits())
}
