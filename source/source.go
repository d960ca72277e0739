package source

import (
	"context"
	"iter"
)

// Source produces a replayable stream of sequences. Yielded slices are only
// valid until the next iteration step.
type Source interface {
	Sequences(ctx context.Context) iter.Seq2[[]byte, error]
}

// Func adapts a function to Source.
type Func func(ctx context.Context) iter.Seq2[[]byte, error]

// Sequences calls f.
func (f Func) Sequences(ctx context.Context) iter.Seq2[[]byte, error] { return f(ctx) }

type bytesSource [][]byte

// Bytes returns a Source over in-memory sequences.
func Bytes(seqs ...[]byte) Source {
	return bytesSource(seqs)
}

func (s bytesSource) Sequences(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, seq := range s {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(seq, nil) {
				return
			}
		}
	}
}

// Strings returns a Source over string sequences.
func Strings(seqs ...string) Source {
	b := make([][]byte, len(seqs))
	for i, s := range seqs {
		b[i] = []byte(s)
	}
	return bytesSource(b)
}

type concatSource []Source

// Concat returns a Source that yields the sequences of each source in turn.
func Concat(sources ...Source) Source {
	return concatSource(sources)
}

func (c concatSource) Sequences(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, src := range c {
			for seq, err := range src.Sequences(ctx) {
				if !yield(seq, err) || err != nil {
					return
				}
			}
		}
	}
}

// Count returns the number of sequences and symbols in src.
func Count(ctx context.Context, src Source) (sequences int, symbols int64, err error) {
	for seq, err := range src.Sequences(ctx) {
		if err != nil {
			return sequences, symbols, err
		}
		sequences++
		symbols += int64(len(seq))
	}
	return sequences, symbols, nil
}
