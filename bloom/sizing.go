package bloom

import (
	"fmt"
	"math"
)

// OptimalSize computes the bit count and hash count that give false positive
// rate p for n items:
//
//	m = -n ln(p) / ln(2)^2
//	h = ceil(m/n * ln(2))
//
// For 1% false positive rate this is about 9.6 bits per item and 7 hashes.
func OptimalSize(n uint64, p float64) (numBits uint64, hashes uint32, err error) {
	if n == 0 {
		return 0, 0, ErrInvalidCapacity
	}
	if !(p > 0 && p < 1) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidFalsePositiveRate, p)
	}

	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	if m > float64(MaxBits) {
		return 0, 0, fmt.Errorf("%w: %d items at rate %v need %.0f bits", ErrInvalidSize, n, p, m)
	}
	h := math.Ceil(m / float64(n) * math.Ln2)

	return uint64(m), uint32(h), nil
}

// FalsePositiveRate returns the expected false positive rate (1 - e^(-hn/m))^h
// of a filter with m bits and h hashes holding n items.
func FalsePositiveRate(m uint64, h uint32, n uint64) float64 {
	if m == 0 || h == 0 {
		return 1
	}
	if n == 0 {
		return 0
	}
	return math.Pow(1-math.Exp(-float64(h)*float64(n)/float64(m)), float64(h))
}
