package wideint

import "fmt"

// U64 is a native 64-bit integer holding k-mers up to k=32.
type U64 uint64

func (U64) FromUint64(v uint64) U64 { return U64(v) }

func (U64) Mask(n uint) U64 {
	if n >= 64 {
		return ^U64(0)
	}
	return U64(1)<<n - 1
}

func (x U64) And(o U64) U64   { return x & o }
func (x U64) Or(o U64) U64    { return x | o }
func (x U64) Xor(o U64) U64   { return x ^ o }
func (x U64) Not() U64        { return ^x }
func (x U64) Shl(n uint) U64  { return x << n }
func (x U64) Shr(n uint) U64  { return x >> n }
func (x U64) Add(o U64) U64   { return x + o }
func (x U64) Less(o U64) bool { return x < o }
func (x U64) IsZero() bool    { return x == 0 }
func (x U64) Low64() uint64   { return uint64(x) }
func (x U64) Reverse2() U64   { return U64(rev2(uint64(x))) }
func (U64) Bits() int         { return 64 }

func (x U64) Compare(o U64) int {
	switch {
	case x < o:
		return -1
	case x > o:
		return 1
	}
	return 0
}

func (x U64) Hash(seed uint64) uint64 { return mix64(uint64(x) ^ seed) }

func (x U64) String() string { return fmt.Sprintf("%016x", uint64(x)) }
