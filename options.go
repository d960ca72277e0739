package kmergraph

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/codec"
	"github.com/hupe1980/kmergraph/graph"
	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/source"
)

// DefaultKmerSize is the k-mer size used when WithKmerSize is not given.
const DefaultKmerSize = 31

// InvalidSymbolPolicy decides what a build does with symbols outside A, C, G, T.
type InvalidSymbolPolicy = solid.Policy

const (
	// AbortOnInvalidSymbol fails the build with an InvalidSymbolError (default).
	AbortOnInvalidSymbol = solid.PolicyAbort
	// SkipInvalidSequences drops every sequence holding an invalid symbol.
	SkipInvalidSequences = solid.PolicySkipSequence
	// SkipInvalidKmers drops only the windows overlapping an invalid symbol.
	SkipInvalidKmers = solid.PolicySkipKmers
)

// BloomKind is the bit layout of the membership filter.
type BloomKind = bloom.Kind

const (
	BloomBasic   = bloom.KindBasic
	BloomBlocked = bloom.KindBlocked
)

// Compression is applied to the filter bits in snapshots.
type Compression = bloom.CompressionType

const (
	CompressionNone = bloom.CompressionNone
	CompressionLZ4  = bloom.CompressionLZ4
	CompressionZstd = bloom.CompressionZstd
)

type options struct {
	k                 int
	abundanceMin      uint32
	numBits           uint64
	hashes            uint32
	explicitSize      bool
	falsePositiveRate float64
	kind              bloom.Kind
	compression       bloom.CompressionType
	workers           int
	policy            solid.Policy
	memoryLimit       int64
	ioLimit           int64
	codec             codec.Codec
	candidates        source.Source
	exhaustive        bool
	metricsCollector  MetricsCollector
	logger            *Logger
}

// Option configures Create and Load.
type Option func(*options)

// WithKmerSize sets k. The integer width is chosen from it: up to 32 uses
// 64-bit values, up to 160 the widest 320-bit ones.
//
// Ignored by Load, which takes k from the snapshot.
func WithKmerSize(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithAbundanceMin sets the minimum number of occurrences of a solid k-mer.
// 0 and 1 both keep every k-mer and let the build skip counting.
func WithAbundanceMin(n uint32) Option {
	return func(o *options) {
		o.abundanceMin = n
	}
}

// WithBloomSize sizes the filter explicitly with numBits bits and hashes hash
// functions. Without it the filter is sized from the solid count and the
// false positive rate.
func WithBloomSize(numBits uint64, hashes uint32) Option {
	return func(o *options) {
		o.numBits = numBits
		o.hashes = hashes
		o.explicitSize = true
	}
}

// WithFalsePositiveRate sets the target false positive rate used to size the
// filter from the solid count (default 0.01).
func WithFalsePositiveRate(p float64) Option {
	return func(o *options) {
		o.falsePositiveRate = p
	}
}

// WithBloomKind selects the filter bit layout (default BloomBasic).
func WithBloomKind(kind BloomKind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithWorkers sets the number of build goroutines (default GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithInvalidSymbolPolicy selects how the build handles symbols outside A, C, G, T.
//
// The policy is stored in snapshots so that loaded graphs replay candidate
// sources the same way.
func WithInvalidSymbolPolicy(p InvalidSymbolPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMemoryLimit caps the memory of the k-mer count table. A build that
// would exceed it fails with resource.ErrMemoryLimitExceeded. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithCompression sets the compression of the filter bits in snapshots.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec configures the codec used for snapshot manifests.
//
// If nil is passed, codec.Default is used. Load always uses the codec named
// in the snapshot, so a custom codec must be passed to codec.Register before
// its snapshots can be loaded.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCandidates sets the sequences replayed by Nodes.
//
// Create replays its own source unless this option is given. Load needs it
// (or WithExhaustiveCandidates) for Nodes to enumerate anything.
func WithCandidates(src source.Source) Option {
	return func(o *options) {
		o.candidates = src
	}
}

// WithExhaustiveCandidates makes Nodes test every possible k-mer against the
// filter instead of replaying sequences. Every false positive of the filter
// is then reported as a node, so it only suits small test configurations.
// k must not exceed graph.MaxExhaustiveK. WithCandidates takes precedence.
func WithExhaustiveCandidates() Option {
	return func(o *options) {
		o.exhaustive = true
	}
}

// WithIOLimit throttles snapshot reads and writes to bytesPerSec. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmergraph.BasicMetricsCollector{}
//	g, _ := kmergraph.Create(ctx, src, kmergraph.WithMetricsCollector(metrics))
//	// ... use g ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, solid k-mers: %d\n", stats.BuildCount, stats.SolidKmers)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmergraph.NewJSONLogger(slog.LevelInfo)
//	g, _ := kmergraph.Create(ctx, src, kmergraph.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                 DefaultKmerSize,
		abundanceMin:      solid.DefaultOptions.AbundanceMin,
		falsePositiveRate: solid.DefaultOptions.FalsePositiveRate,
		kind:              solid.DefaultOptions.Kind,
		compression:       solid.DefaultOptions.Compression,
		policy:            solid.DefaultOptions.InvalidSymbols,
		codec:             codec.Default,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.k <= 0 {
		return fmt.Errorf("%w: k=%d", ErrInvalidKmerSize, o.k)
	}
	if o.explicitSize && o.numBits == 0 {
		return ErrInvalidBloomSize
	}
	if o.explicitSize && o.hashes == 0 {
		return ErrInvalidHashCount
	}
	if o.exhaustive && o.candidates == nil && o.k > graph.MaxExhaustiveK {
		return fmt.Errorf("%w: k=%d, max %d", ErrExhaustiveTooLarge, o.k, graph.MaxExhaustiveK)
	}
	return nil
}

// solidOptions maps o onto the builder options.
func (o *options) solidOptions(so *solid.Options) {
	so.AbundanceMin = o.abundanceMin
	so.Workers = o.workers
	so.InvalidSymbols = o.policy
	so.NumBits = o.numBits
	so.Hashes = o.hashes
	so.FalsePositiveRate = o.falsePositiveRate
	so.Kind = o.kind
	so.Compression = o.compression
	so.MemoryLimitBytes = o.memoryLimit
	so.Logger = o.logger.Logger
}
