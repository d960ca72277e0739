package wideint

import (
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// The helpers below operate on little-endian word slices of equal length.
// They back the array-based widths; dst never aliases a source.

const maxWords = 5

func andWords(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] & b[i]
	}
}

func orWords(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] | b[i]
	}
}

func xorWords(dst, a, b []uint64) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func notWords(dst, a []uint64) {
	for i := range dst {
		dst[i] = ^a[i]
	}
}

func shlWords(dst, src []uint64, n uint) {
	words := int(n / 64)
	shift := n % 64
	for i := len(dst) - 1; i >= 0; i-- {
		j := i - words
		if j < 0 {
			dst[i] = 0
			continue
		}
		v := src[j] << shift
		if j > 0 {
			// src[j-1] >> 64 is 0 when shift == 0.
			v |= src[j-1] >> (64 - shift)
		}
		dst[i] = v
	}
}

func shrWords(dst, src []uint64, n uint) {
	words := int(n / 64)
	shift := n % 64
	for i := range dst {
		j := i + words
		if j >= len(src) {
			dst[i] = 0
			continue
		}
		v := src[j] >> shift
		if j+1 < len(src) {
			v |= src[j+1] << (64 - shift)
		}
		dst[i] = v
	}
}

func addWords(dst, a, b []uint64) {
	var carry uint64
	for i := range dst {
		dst[i], carry = bits.Add64(a[i], b[i], carry)
	}
}

func compareWords(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func isZeroWords(a []uint64) bool {
	for _, w := range a {
		if w != 0 {
			return false
		}
	}
	return true
}

func maskWords(dst []uint64, n uint) {
	for i := range dst {
		lo := uint(i) * 64
		switch {
		case n >= lo+64:
			dst[i] = ^uint64(0)
		case n > lo:
			dst[i] = uint64(1)<<(n-lo) - 1
		default:
			dst[i] = 0
		}
	}
}

func reverse2Words(dst, src []uint64) {
	last := len(src) - 1
	for i, w := range src {
		dst[last-i] = rev2(w)
	}
}

func hashWords(src []uint64, seed uint64) uint64 {
	var buf [8 * maxWords]byte
	for i, w := range src {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return mix64(xxhash.Sum64(buf[:8*len(src)]) ^ seed)
}

func formatWords(src []uint64) string {
	const digits = "0123456789abcdef"
	var sb strings.Builder
	sb.Grow(16 * len(src))
	for i := len(src) - 1; i >= 0; i-- {
		w := src[i]
		for shift := 60; shift >= 0; shift -= 4 {
			sb.WriteByte(digits[(w>>uint(shift))&0xF])
		}
	}
	return sb.String()
}
