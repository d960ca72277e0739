package wideint

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// U128 is a 128-bit integer holding k-mers up to k=64.
type U128 struct {
	Hi, Lo uint64
}

func (U128) FromUint64(v uint64) U128 { return U128{Lo: v} }

func (U128) Mask(n uint) U128 {
	switch {
	case n >= 128:
		return U128{Hi: ^uint64(0), Lo: ^uint64(0)}
	case n >= 64:
		return U128{Hi: uint64(1)<<(n-64) - 1, Lo: ^uint64(0)}
	}
	return U128{Lo: uint64(1)<<n - 1}
}

func (x U128) And(o U128) U128 { return U128{Hi: x.Hi & o.Hi, Lo: x.Lo & o.Lo} }
func (x U128) Or(o U128) U128  { return U128{Hi: x.Hi | o.Hi, Lo: x.Lo | o.Lo} }
func (x U128) Xor(o U128) U128 { return U128{Hi: x.Hi ^ o.Hi, Lo: x.Lo ^ o.Lo} }
func (x U128) Not() U128       { return U128{Hi: ^x.Hi, Lo: ^x.Lo} }

func (x U128) Shl(n uint) U128 {
	switch {
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{Hi: x.Lo << (n - 64)}
	}
	// x.Lo >> 64 is 0 in Go, so n == 0 needs no special case.
	return U128{Hi: x.Hi<<n | x.Lo>>(64-n), Lo: x.Lo << n}
}

func (x U128) Shr(n uint) U128 {
	switch {
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{Lo: x.Hi >> (n - 64)}
	}
	return U128{Hi: x.Hi >> n, Lo: x.Lo>>n | x.Hi<<(64-n)}
}

func (x U128) Add(o U128) U128 {
	lo, carry := bits.Add64(x.Lo, o.Lo, 0)
	hi, _ := bits.Add64(x.Hi, o.Hi, carry)
	return U128{Hi: hi, Lo: lo}
}

func (x U128) Compare(o U128) int {
	switch {
	case x.Hi < o.Hi:
		return -1
	case x.Hi > o.Hi:
		return 1
	case x.Lo < o.Lo:
		return -1
	case x.Lo > o.Lo:
		return 1
	}
	return 0
}

func (x U128) Less(o U128) bool { return x.Compare(o) < 0 }
func (x U128) IsZero() bool     { return x.Hi == 0 && x.Lo == 0 }
func (x U128) Low64() uint64    { return x.Lo }
func (x U128) Reverse2() U128   { return U128{Hi: rev2(x.Lo), Lo: rev2(x.Hi)} }
func (U128) Bits() int          { return 128 }

func (x U128) Hash(seed uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], x.Lo)
	binary.LittleEndian.PutUint64(buf[8:], x.Hi)
	return mix64(xxhash.Sum64(buf[:]) ^ seed)
}

func (x U128) String() string { return fmt.Sprintf("%016x%016x", x.Hi, x.Lo) }
