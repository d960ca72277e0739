package solid

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/internal/counter"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/source"
	"github.com/hupe1980/kmergraph/wideint"
	"golang.org/x/sync/errgroup"
)

// ErrKmerOutOfRange is returned by InsertCounts for a value with bits above 2k.
var ErrKmerOutOfRange = errors.New("solid: k-mer has bits above 2k")

// Stats describes a finished build.
type Stats struct {
	// Sequences is the number of sequences read, skipped ones included.
	Sequences int64 `json:"sequences"`
	// SkippedSequences were dropped by PolicySkipSequence.
	SkippedSequences int64 `json:"skipped_sequences"`
	// Kmers is the number of windows scanned.
	Kmers int64 `json:"kmers"`
	// Distinct is the number of distinct canonical k-mers (counting mode only).
	Distinct int64 `json:"distinct"`
	// Solid is the number of k-mers inserted into the filter. In streaming
	// mode it is estimated from the filter's fill ratio.
	Solid int64 `json:"solid"`
	// Streaming reports whether counts were skipped.
	Streaming bool `json:"streaming"`
	// PeakMemoryBytes is the peak count table memory of this build. Builds
	// sharing a controller through Options.Resource see their combined usage.
	PeakMemoryBytes int64         `json:"peak_memory_bytes"`
	Duration        time.Duration `json:"duration"`
}

// Builder computes the solid set of a source. A Builder may be reused for
// several builds but runs one build at a time.
type Builder[T wideint.Int[T]] struct {
	codec *kmer.Codec[T]
	opts  Options
}

// NewBuilder validates the options and returns a builder for codec.
func NewBuilder[T wideint.Int[T]](codec *kmer.Codec[T], optFns ...func(o *Options)) (*Builder[T], error) {
	if codec == nil {
		return nil, errors.New("solid: codec is nil")
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	return &Builder[T]{codec: codec, opts: opts}, nil
}

// Options returns the effective options.
func (b *Builder[T]) Options() Options { return b.opts }

// Streaming reports whether Build inserts directly without counting.
func (b *Builder[T]) Streaming() bool {
	return b.opts.NumBits > 0 && b.opts.AbundanceMin <= 1
}

func (b *Builder[T]) filterOptions(o *bloom.Options) {
	o.Kind = b.opts.Kind
	o.Compression = b.opts.Compression
}

// newFilter sizes a filter for n solid k-mers.
func (b *Builder[T]) newFilter(n int64) (*bloom.Filter[T], error) {
	if b.opts.NumBits > 0 {
		return bloom.New[T](b.opts.NumBits, b.opts.Hashes, b.filterOptions)
	}
	return bloom.NewWithEstimates[T](uint64(max(n, 1)), b.opts.FalsePositiveRate, b.filterOptions)
}

// buildState is shared by the workers of one build.
type buildState struct {
	sequences atomic.Int64
	skipped   atomic.Int64
	kmers     atomic.Int64
}

// Build reads src, computes the solid k-mers and returns them in a filter.
func (b *Builder[T]) Build(ctx context.Context, src source.Source) (*bloom.Filter[T], Stats, error) {
	start := time.Now()
	log := b.opts.Logger.With("k", b.codec.K(), "width", wideint.WidthOf[T]().String())

	if b.Streaming() {
		log.Debug("building solid set", "mode", "streaming", "bits", b.opts.NumBits, "hashes", b.opts.Hashes)
		return b.buildStreaming(ctx, src, start)
	}
	log.Debug("building solid set", "mode", "counting", "abundance_min", b.opts.AbundanceMin)
	return b.buildCounting(ctx, src, start)
}

func (b *Builder[T]) buildStreaming(ctx context.Context, src source.Source, start time.Time) (*bloom.Filter[T], Stats, error) {
	f, err := b.newFilter(0)
	if err != nil {
		return nil, Stats{}, err
	}

	var st buildState
	insert := func(x T) error {
		f.Insert(x)
		return nil
	}
	err = b.scanAll(ctx, src, &st, func() (func(T) error, func() error) {
		return insert, func() error { return nil }
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := b.stats(&st, start)
	stats.Streaming = true
	if est := f.EstimatedCardinality(); !math.IsInf(est, 1) {
		stats.Solid = int64(math.Round(est))
	} else {
		stats.Solid = int64(f.Count())
	}
	b.logDone(stats)
	return f, stats, nil
}

func (b *Builder[T]) buildCounting(ctx context.Context, src source.Source, start time.Time) (*bloom.Filter[T], Stats, error) {
	b.opts.Resource.ResetPeak()
	table := counter.New[T](b.opts.Resource)
	defer table.Release()

	batches := sync.Pool{New: func() any { return table.NewBatch(b.opts.BatchSize) }}

	var st buildState
	err := b.scanAll(ctx, src, &st, func() (func(T) error, func() error) {
		batch := batches.Get().(*counter.Batch[T])
		return batch.Add, func() error {
			err := batch.Flush()
			batches.Put(batch)
			return err
		}
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := b.stats(&st, start)
	stats.Distinct = int64(table.Len())
	stats.Solid = int64(table.CountAtLeast(b.opts.AbundanceMin))
	stats.PeakMemoryBytes = b.opts.Resource.PeakMemoryUsage()

	f, err := b.newFilter(stats.Solid)
	if err != nil {
		return nil, Stats{}, err
	}
	if err := b.fill(ctx, f, table); err != nil {
		return nil, Stats{}, err
	}

	stats.Duration = time.Since(start)
	b.logDone(stats)
	return f, stats, nil
}

// fill inserts the solid k-mers of every shard in parallel.
func (b *Builder[T]) fill(ctx context.Context, f *bloom.Filter[T], table *counter.Table[T]) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for i := range counter.NumShards {
		g.Go(func() error {
			n := 0
			for x, c := range table.Shard(i) {
				if c >= b.opts.AbundanceMin {
					f.Insert(x)
				}
				n++
				if n%65536 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// scanAll reads src in chunks and scans each chunk on a worker. newSink is
// called once per chunk and returns the k-mer consumer and its finalizer.
func (b *Builder[T]) scanAll(ctx context.Context, src source.Source, st *buildState, newSink func() (func(T) error, func() error)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	var (
		chunk    [][]byte
		chunkLen int
		srcErr   error
	)
	submit := func(seqs [][]byte) {
		g.Go(func() error {
			emit, done := newSink()
			for _, seq := range seqs {
				if err := b.scanSequence(seq, st, emit); err != nil {
					_ = done()
					return err
				}
			}
			return done()
		})
	}

	for seq, err := range src.Sequences(gctx) {
		if err != nil {
			srcErr = err
			break
		}
		if gctx.Err() != nil {
			break
		}
		chunk = append(chunk, append([]byte(nil), seq...))
		chunkLen += len(seq)
		if chunkLen >= b.opts.ChunkBytes {
			submit(chunk)
			chunk, chunkLen = nil, 0
		}
	}
	if len(chunk) > 0 && srcErr == nil {
		submit(chunk)
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if srcErr != nil {
		return srcErr
	}
	return ctx.Err()
}

// scanSequence applies the invalid symbol policy and emits canonical k-mers.
func (b *Builder[T]) scanSequence(seq []byte, st *buildState, emit func(T) error) error {
	st.sequences.Add(1)

	mode := kmer.ScanStrict
	switch b.opts.InvalidSymbols {
	case PolicySkipSequence:
		if kmer.Validate(seq) != nil {
			st.skipped.Add(1)
			return nil
		}
	case PolicySkipKmers:
		mode = kmer.ScanSkipInvalid
	}

	var (
		n       int64
		emitErr error
	)
	err := b.codec.Scan(seq, mode, func(_ int, fwd, rev T) bool {
		c := fwd
		if rev.Less(fwd) {
			c = rev
		}
		if emitErr = emit(c); emitErr != nil {
			return false
		}
		n++
		return true
	})
	st.kmers.Add(n)
	if emitErr != nil {
		return emitErr
	}
	if err != nil {
		return fmt.Errorf("solid: %w", err)
	}
	return nil
}

// InsertCounts builds a filter from pre-counted abundances. Keys are
// canonicalized; values with bits above 2k fail with ErrKmerOutOfRange.
func (b *Builder[T]) InsertCounts(ctx context.Context, counts iter.Seq2[T, uint32]) (*bloom.Filter[T], Stats, error) {
	start := time.Now()
	rc := b.opts.Resource
	rc.ResetPeak()
	entry := int64(wideint.WidthOf[T]() / 8)

	var (
		solid    []T
		reserved int64
		stats    Stats
	)
	defer func() { rc.ReleaseMemory(reserved) }()

	for x, c := range counts {
		if !b.codec.Valid(x) {
			return nil, Stats{}, fmt.Errorf("%w: %s", ErrKmerOutOfRange, x)
		}
		stats.Distinct++
		if stats.Distinct%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
		}
		if c < b.opts.AbundanceMin {
			continue
		}
		if err := rc.AcquireMemory(entry); err != nil {
			return nil, Stats{}, err
		}
		reserved += entry
		solid = append(solid, b.codec.Canonical(x))
	}

	f, err := b.newFilter(int64(len(solid)))
	if err != nil {
		return nil, Stats{}, err
	}
	for _, x := range solid {
		f.Insert(x)
	}

	stats.Solid = int64(len(solid))
	stats.PeakMemoryBytes = rc.PeakMemoryUsage()
	stats.Duration = time.Since(start)
	b.logDone(stats)
	return f, stats, nil
}

func (b *Builder[T]) stats(st *buildState, start time.Time) Stats {
	return Stats{
		Sequences:        st.sequences.Load(),
		SkippedSequences: st.skipped.Load(),
		Kmers:            st.kmers.Load(),
		Duration:         time.Since(start),
	}
}

func (b *Builder[T]) logDone(s Stats) {
	b.opts.Logger.Info("solid set built",
		"k", b.codec.K(),
		"sequences", s.Sequences,
		"skipped", s.SkippedSequences,
		"kmers", s.Kmers,
		"distinct", s.Distinct,
		"solid", s.Solid,
		"duration", s.Duration,
	)
}
