package bloom

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/hupe1980/kmergraph/internal/bitset"
	"github.com/hupe1980/kmergraph/wideint"
)

const (
	// Seeds of the two base hashes used for double hashing.
	seedH1 = 0xab12cd34ef567890
	seedH2 = 0x5bd1e9955bd1e995

	blockBits  = 512
	blockShift = 9
)

// MaxBits is the largest filter size accepted by New and Read (128 GiB of bits).
const MaxBits uint64 = 1 << 40

// Filter is a Bloom filter over values of type T.
//
// Insert and Contains are safe for concurrent use; concurrent inserts never
// lose an update.
type Filter[T wideint.Int[T]] struct {
	bits    *bitset.BitSet
	numBits uint64
	blocks  uint64 // KindBlocked only
	hashes  uint32
	kind    Kind
	count   atomic.Uint64
	opts    Options
}

// New creates a filter with numBits bits and the given number of hash functions.
// Neither value is clamped: zero or more than MaxBits bits is an error.
func New[T wideint.Int[T]](numBits uint64, hashes uint32, optFns ...func(o *Options)) (*Filter[T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if numBits == 0 {
		return nil, ErrInvalidSize
	}
	if numBits > MaxBits {
		return nil, fmt.Errorf("%w: %d bits exceeds %d", ErrInvalidSize, numBits, MaxBits)
	}
	if hashes == 0 {
		return nil, ErrInvalidHashCount
	}
	if _, err := compressionName(opts.Compression); err != nil {
		return nil, err
	}

	f := &Filter[T]{
		hashes: hashes,
		kind:   opts.Kind,
		opts:   opts,
	}

	switch opts.Kind {
	case KindBasic:
		f.numBits = numBits
	case KindBlocked:
		f.blocks = (numBits + blockBits - 1) >> blockShift
		f.numBits = f.blocks << blockShift
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, opts.Kind)
	}

	f.bits = bitset.New(f.numBits)
	return f, nil
}

// NewWithEstimates creates a filter sized by OptimalSize for n items at false positive rate p.
func NewWithEstimates[T wideint.Int[T]](n uint64, p float64, optFns ...func(o *Options)) (*Filter[T], error) {
	m, h, err := OptimalSize(n, p)
	if err != nil {
		return nil, err
	}
	return New[T](m, h, optFns...)
}

// Insert adds x to the filter. After Insert(x), Contains(x) always returns true.
func (f *Filter[T]) Insert(x T) {
	h1, h2 := x.Hash(seedH1), x.Hash(seedH2)|1

	switch f.kind {
	case KindBlocked:
		base := (h1 % f.blocks) << blockShift
		g1, g2 := h2>>32, h2
		for i := uint64(0); i < uint64(f.hashes); i++ {
			f.bits.Set(base + (g1+i*g2)&(blockBits-1))
		}
	default:
		for i := uint64(0); i < uint64(f.hashes); i++ {
			f.bits.Set((h1 + i*h2) % f.numBits)
		}
	}
	f.count.Add(1)
}

// Contains reports whether x may be in the filter. It returns false only if x
// was never inserted.
func (f *Filter[T]) Contains(x T) bool {
	h1, h2 := x.Hash(seedH1), x.Hash(seedH2)|1

	switch f.kind {
	case KindBlocked:
		base := (h1 % f.blocks) << blockShift
		g1, g2 := h2>>32, h2
		for i := uint64(0); i < uint64(f.hashes); i++ {
			if !f.bits.Test(base + (g1+i*g2)&(blockBits-1)) {
				return false
			}
		}
	default:
		for i := uint64(0); i < uint64(f.hashes); i++ {
			if !f.bits.Test((h1 + i*h2) % f.numBits) {
				return false
			}
		}
	}
	return true
}

// NumBits returns the number of bits, after rounding for KindBlocked.
func (f *Filter[T]) NumBits() uint64 { return f.numBits }

// Hashes returns the number of hash functions.
func (f *Filter[T]) Hashes() uint32 { return f.hashes }

// Kind returns the bit layout.
func (f *Filter[T]) Kind() Kind { return f.kind }

// Compression returns the compression WriteTo applies.
func (f *Filter[T]) Compression() CompressionType { return f.opts.Compression }

// Count returns the number of Insert calls, duplicates included.
func (f *Filter[T]) Count() uint64 { return f.count.Load() }

// SizeBytes returns the memory held by the bit array.
func (f *Filter[T]) SizeBytes() uint64 { return f.bits.SizeBytes() }

// FillRatio returns the fraction of bits set.
func (f *Filter[T]) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.numBits)
}

// EstimatedFalsePositiveRate returns (1 - e^(-hn/m))^h with n = Count().
func (f *Filter[T]) EstimatedFalsePositiveRate() float64 {
	return FalsePositiveRate(f.numBits, f.hashes, f.Count())
}

// EstimatedCardinality estimates the number of distinct inserted values from
// the fill ratio as -(m/h) ln(1 - X/m). It is +Inf for a saturated filter.
func (f *Filter[T]) EstimatedCardinality() float64 {
	set := f.bits.Count()
	if set == f.numBits {
		return math.Inf(1)
	}
	m := float64(f.numBits)
	return -m / float64(f.hashes) * math.Log1p(-float64(set)/m)
}

func (f *Filter[T]) String() string {
	return fmt.Sprintf("bloom.Filter[%s]{bits=%d hashes=%d kind=%s count=%d}",
		wideint.WidthOf[T](), f.numBits, f.hashes, f.kind, f.Count())
}
