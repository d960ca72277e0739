package kmergraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmergraph/blobstore"
	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/graph"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/wideint"
)

var (
	// ErrInvalidKmerSize is returned when k is not positive.
	ErrInvalidKmerSize = errors.New("kmergraph: k-mer size must be positive")

	// ErrKmerSizeTooLarge is returned when k exceeds the widest supported integer.
	ErrKmerSizeTooLarge = errors.New("kmergraph: k-mer size too large")

	// ErrInvalidBloomSize is returned for a zero bit count.
	ErrInvalidBloomSize = errors.New("kmergraph: bloom filter size must be positive")

	// ErrInvalidHashCount is returned for a zero hash function count.
	ErrInvalidHashCount = errors.New("kmergraph: hash function count must be positive")

	// ErrInvalidFalsePositiveRate is returned for a target rate outside (0, 1).
	ErrInvalidFalsePositiveRate = errors.New("kmergraph: false positive rate must be in (0, 1)")

	// ErrInvalidSymbol is returned when a sequence holds a symbol outside A, C, G, T
	// and the build aborts on invalid symbols.
	ErrInvalidSymbol = errors.New("kmergraph: invalid nucleotide")

	// ErrCorruptedSnapshot is returned when a snapshot cannot be decoded.
	ErrCorruptedSnapshot = errors.New("kmergraph: corrupted snapshot")

	// ErrNotFound is returned when a snapshot does not exist.
	ErrNotFound = errors.New("kmergraph: not found")

	// ErrNoCandidateSource is yielded by Nodes on a graph without a candidate source.
	ErrNoCandidateSource = graph.ErrNoCandidateSource

	// ErrExhaustiveTooLarge is returned when WithExhaustiveCandidates is used
	// with k above graph.MaxExhaustiveK.
	ErrExhaustiveTooLarge = graph.ErrExhaustiveTooLarge
)

// InvalidSymbolError reports the first invalid symbol of a rejected sequence.
//
// It matches ErrInvalidSymbol with errors.Is. The original kmer error can be
// reached with errors.As.
type InvalidSymbolError struct {
	Pos    int
	Symbol byte
	cause  error
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid nucleotide %q at position %d", e.Symbol, e.Pos)
}

func (e *InvalidSymbolError) Unwrap() []error { return []error{ErrInvalidSymbol, e.cause} }

// KmerSizeError indicates a k-mer size no supported width can hold.
//
// The original underlying error can be accessed via errors.Unwrap.
type KmerSizeError struct {
	K     int
	MaxK  int
	cause error
}

func (e *KmerSizeError) Error() string {
	return fmt.Sprintf("k-mer size %d exceeds the maximum of %d", e.K, e.MaxK)
}

func (e *KmerSizeError) Unwrap() []error { return []error{ErrKmerSizeTooLarge, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Configuration.
	if errors.Is(err, wideint.ErrNonPositiveK) || errors.Is(err, kmer.ErrInvalidKmerSize) {
		return fmt.Errorf("%w: %w", ErrInvalidKmerSize, err)
	}
	if errors.Is(err, wideint.ErrKmerSizeTooLarge) {
		return fmt.Errorf("%w: %w", ErrKmerSizeTooLarge, err)
	}
	var we *kmer.WidthError
	if errors.As(err, &we) {
		return &KmerSizeError{K: we.K, MaxK: we.Bits / 2, cause: err}
	}
	if errors.Is(err, bloom.ErrInvalidSize) {
		return fmt.Errorf("%w: %w", ErrInvalidBloomSize, err)
	}
	if errors.Is(err, bloom.ErrInvalidHashCount) {
		return fmt.Errorf("%w: %w", ErrInvalidHashCount, err)
	}
	if errors.Is(err, bloom.ErrInvalidFalsePositiveRate) {
		return fmt.Errorf("%w: %w", ErrInvalidFalsePositiveRate, err)
	}

	// Input validation.
	var ise *kmer.InvalidSymbolError
	if errors.As(err, &ise) {
		return &InvalidSymbolError{Pos: ise.Pos, Symbol: ise.Symbol, cause: err}
	}

	// Persistence.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, bloom.ErrCorrupted) || errors.Is(err, bloom.ErrWidthMismatch) ||
		errors.Is(err, bloom.ErrUnknownKind) || errors.Is(err, bloom.ErrUnsupportedCompression) {
		return fmt.Errorf("%w: %w", ErrCorruptedSnapshot, err)
	}

	return err
}
