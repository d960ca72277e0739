package graph

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/source"
	"github.com/hupe1980/kmergraph/wideint"
)

// MaxExhaustiveK is the largest k for which ExhaustiveCandidates enumerates 4^k values.
const MaxExhaustiveK = 12

var (
	// ErrNoCandidateSource is yielded by Nodes when the graph has no candidate source.
	ErrNoCandidateSource = errors.New("graph: no candidate source for node enumeration")

	// ErrExhaustiveTooLarge is returned by ExhaustiveCandidates for k > MaxExhaustiveK.
	ErrExhaustiveTooLarge = errors.New("graph: k too large for exhaustive enumeration")
)

// Candidates produces k-mers that may be nodes. Values need not be canonical
// or distinct; Nodes canonicalizes, filters and deduplicates them.
type Candidates[T wideint.Int[T]] interface {
	Candidates(ctx context.Context) iter.Seq2[T, error]
}

// CandidatesFunc adapts a function to Candidates.
type CandidatesFunc[T wideint.Int[T]] func(ctx context.Context) iter.Seq2[T, error]

// Candidates calls f.
func (f CandidatesFunc[T]) Candidates(ctx context.Context) iter.Seq2[T, error] { return f(ctx) }

// ReplayMode mirrors the build's invalid symbol policy when replaying sequences.
type ReplayMode uint8

const (
	// ReplayStrict fails on the first invalid symbol.
	ReplayStrict ReplayMode = iota
	// ReplaySkipKmers skips windows that overlap an invalid symbol.
	ReplaySkipKmers
	// ReplaySkipSequences skips sequences that contain an invalid symbol.
	ReplaySkipSequences
)

// ReplayCandidates scans every window of src. Use the mode matching the
// build so that windows the build dropped are not offered again.
func ReplayCandidates[T wideint.Int[T]](src source.Source, codec *kmer.Codec[T], mode ReplayMode) Candidates[T] {
	return CandidatesFunc[T](func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			var zero T
			scanMode := kmer.ScanStrict
			if mode == ReplaySkipKmers {
				scanMode = kmer.ScanSkipInvalid
			}

			for seq, err := range src.Sequences(ctx) {
				if err != nil {
					yield(zero, err)
					return
				}
				if mode == ReplaySkipSequences && kmer.Validate(seq) != nil {
					continue
				}

				stopped := false
				err := codec.Scan(seq, scanMode, func(_ int, fwd, rev T) bool {
					c := fwd
					if rev.Less(fwd) {
						c = rev
					}
					if !yield(c, nil) {
						stopped = true
						return false
					}
					return true
				})
				if stopped {
					return
				}
				if err != nil {
					yield(zero, fmt.Errorf("graph: replay: %w", err))
					return
				}
			}
		}
	})
}

// ExhaustiveCandidates enumerates every canonical k-mer in increasing order.
// It is meant for small test configurations only.
func ExhaustiveCandidates[T wideint.Int[T]](codec *kmer.Codec[T]) (Candidates[T], error) {
	if codec.K() > MaxExhaustiveK {
		return nil, fmt.Errorf("%w: k=%d, max %d", ErrExhaustiveTooLarge, codec.K(), MaxExhaustiveK)
	}

	total := uint64(1) << (2 * uint(codec.K()))
	return CandidatesFunc[T](func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			var zero T
			for v := range total {
				if v&0xffff == 0 {
					if err := ctx.Err(); err != nil {
						yield(zero, err)
						return
					}
				}
				x := zero.FromUint64(v)
				if !codec.IsCanonical(x) {
					continue
				}
				if !yield(x, nil) {
					return
				}
			}
		}
	}), nil
}

// Catalog offers a fixed list of k-mers, for example one produced by an
// external counter.
func Catalog[T wideint.Int[T]](values []T) Candidates[T] {
	return CandidatesFunc[T](func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			var zero T
			for i, x := range values {
				if i&0xffff == 0 {
					if err := ctx.Err(); err != nil {
						yield(zero, err)
						return
					}
				}
				if !yield(x, nil) {
					return
				}
			}
		}
	})
}
