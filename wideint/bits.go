package wideint

import "math/bits"

const (
	pairMask   = 0x3333333333333333
	nibbleMask = 0x0F0F0F0F0F0F0F0F
)

// rev2 reverses the order of the 32 two-bit groups of x.
func rev2(x uint64) uint64 {
	x = (x>>2)&pairMask | (x&pairMask)<<2
	x = (x>>4)&nibbleMask | (x&nibbleMask)<<4
	return bits.ReverseBytes64(x)
}

// mix64 is the murmur3 64-bit finalizer. It is a bijection.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
