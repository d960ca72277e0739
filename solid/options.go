package solid

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/internal/resource"
)

// Policy decides what happens to sequences with symbols outside A, C, G, T.
type Policy uint8

const (
	// PolicyAbort fails the build with the kmer.InvalidSymbolError.
	PolicyAbort Policy = iota
	// PolicySkipSequence drops the whole sequence and counts it in Stats.SkippedSequences.
	PolicySkipSequence
	// PolicySkipKmers drops only the windows that overlap an invalid symbol.
	PolicySkipKmers
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkipSequence:
		return "skip-sequence"
	case PolicySkipKmers:
		return "skip-kmers"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Options configures a Builder.
type Options struct {
	// AbundanceMin is the minimum count of a solid k-mer. 0 and 1 keep every k-mer.
	AbundanceMin uint32

	// Workers is the number of scanning goroutines.
	Workers int

	// InvalidSymbols selects the policy for symbols outside the alphabet.
	InvalidSymbols Policy

	// NumBits and Hashes size the filter explicitly. Both must be set together.
	NumBits uint64
	Hashes  uint32

	// FalsePositiveRate sizes the filter from the solid count when NumBits is 0.
	FalsePositiveRate float64

	// Kind is the filter bit layout.
	Kind bloom.Kind

	// Compression is recorded in the filter and applied when it is serialized.
	Compression bloom.CompressionType

	// MemoryLimitBytes caps the count table. 0 means unlimited.
	MemoryLimitBytes int64

	// Resource overrides MemoryLimitBytes with a shared controller.
	Resource *resource.Controller

	// BatchSize is the number of k-mers buffered per shard before a count table flush.
	BatchSize int

	// ChunkBytes is the approximate number of sequence bytes handed to one worker task.
	ChunkBytes int

	Logger *slog.Logger
}

// DefaultOptions are the builder defaults.
var DefaultOptions = Options{
	AbundanceMin:      1,
	InvalidSymbols:    PolicyAbort,
	FalsePositiveRate: 0.01,
	Kind:              bloom.KindBasic,
	Compression:       bloom.CompressionNone,
	BatchSize:         1024,
	ChunkBytes:        1 << 20,
}

func (o *Options) validate() error {
	if o.NumBits > 0 && o.Hashes == 0 {
		return bloom.ErrInvalidHashCount
	}
	if o.Hashes > 0 && o.NumBits == 0 {
		return bloom.ErrInvalidSize
	}
	if o.NumBits > bloom.MaxBits {
		return fmt.Errorf("%w: %d bits exceeds %d", bloom.ErrInvalidSize, o.NumBits, bloom.MaxBits)
	}
	if o.NumBits == 0 && (o.FalsePositiveRate <= 0 || o.FalsePositiveRate >= 1) {
		return bloom.ErrInvalidFalsePositiveRate
	}
	if o.InvalidSymbols > PolicySkipKmers {
		return fmt.Errorf("solid: unknown invalid symbol policy %d", o.InvalidSymbols)
	}
	if o.Kind > bloom.KindBlocked {
		return fmt.Errorf("%w: %d", bloom.ErrUnknownKind, o.Kind)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.AbundanceMin == 0 {
		o.AbundanceMin = 1
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultOptions.BatchSize
	}
	if o.ChunkBytes <= 0 {
		o.ChunkBytes = DefaultOptions.ChunkBytes
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Resource == nil {
		o.Resource = resource.NewController(resource.Config{MemoryLimitBytes: o.MemoryLimitBytes})
	}
}
