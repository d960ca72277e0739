package kmergraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/hupe1980/kmergraph/blobstore"
	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/codec"
	"github.com/hupe1980/kmergraph/graph"
	"github.com/hupe1980/kmergraph/internal/resource"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/source"
	"github.com/hupe1980/kmergraph/wideint"
)

// Stats describes the build that produced a graph.
type Stats = solid.Stats

// Graph is a width-independent view of a de Bruijn graph.
//
// Nodes are k-mer strings. A query string may be either strand of a node;
// neighbors are returned on the strand the query was walked on, so
// following Successors spells the sequence forward. Nodes yields canonical
// strings. Queries with malformed strings report no neighbors.
//
// A Graph is immutable and safe for concurrent use.
type Graph interface {
	// K returns the k-mer size.
	K() int
	// Width returns the integer width chosen for K.
	Width() wideint.Width

	// Nodes yields every solid canonical k-mer once. It fails with
	// ErrNoCandidateSource when the graph has nothing to enumerate from.
	Nodes(ctx context.Context) iter.Seq2[string, error]
	CountNodes(ctx context.Context) (int, error)

	Contains(kmer string) bool
	Successors(kmer string) []string
	Predecessors(kmer string) []string
	Outdegree(kmer string) int
	Indegree(kmer string) int

	// Stats returns the statistics of the build that produced the graph.
	Stats() Stats
	// FalsePositiveRate estimates the membership false positive rate from
	// the filter's fill ratio.
	FalsePositiveRate() float64

	// Save writes a snapshot of the graph to store under name.
	Save(ctx context.Context, store blobstore.Store, name string) error
}

// Create builds the graph of the solid k-mers of src.
//
// src is read once to build the filter and replayed by Nodes unless
// WithCandidates is given.
func Create(ctx context.Context, src source.Source, optFns ...Option) (Graph, error) {
	if src == nil {
		return nil, errors.New("kmergraph: source is nil")
	}
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}
	w, err := wideint.ForK(o.k)
	if err != nil {
		return nil, translateError(err)
	}

	switch w {
	case wideint.Width64:
		return create[wideint.U64](ctx, src, &o)
	case wideint.Width128:
		return create[wideint.U128](ctx, src, &o)
	case wideint.Width192:
		return create[wideint.U192](ctx, src, &o)
	case wideint.Width256:
		return create[wideint.U256](ctx, src, &o)
	default:
		return create[wideint.U320](ctx, src, &o)
	}
}

func create[T wideint.Int[T]](ctx context.Context, src source.Source, o *options) (Graph, error) {
	start := time.Now()
	logger := o.logger.WithK(o.k).WithWidth(wideint.WidthOf[T]())
	rc := o.resource()

	c, err := kmer.New[T](o.k)
	if err != nil {
		return nil, translateError(err)
	}
	b, err := solid.NewBuilder(c, o.solidOptions, func(so *solid.Options) {
		so.Resource = rc
		so.Logger = logger.Logger
	})
	if err != nil {
		return nil, translateError(err)
	}

	filter, stats, err := b.Build(ctx, src)
	o.metricsCollector.RecordBuild(stats.Kmers, stats.Solid, time.Since(start), err)
	logger.LogBuild(ctx, stats, err)
	if err != nil {
		return nil, translateError(err)
	}

	m := manifest{
		K:            o.k,
		Width:        int(wideint.WidthOf[T]()),
		AbundanceMin: max(o.abundanceMin, 1),
		Policy:       o.policy,
		Stats:        stats,
	}
	replay := o.candidates
	if replay == nil && !o.exhaustive {
		replay = src
	}
	candidates, err := candidatesFor(c, replay, o.exhaustive, m.Policy)
	if err != nil {
		return nil, err
	}
	return newTypedGraph(c, filter, m, candidates, o, rc, logger), nil
}

// Load reads a snapshot written by Graph.Save.
//
// Nodes replays the source given with WithCandidates, or scans every k-mer
// with WithExhaustiveCandidates. Without either, Nodes reports
// ErrNoCandidateSource; point queries work regardless.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (g Graph, err error) {
	o := applyOptions(optFns)
	start := time.Now()
	var cr *countingReader
	defer func() {
		var n int64
		if cr != nil {
			n = cr.n
		}
		o.metricsCollector.RecordLoad(n, time.Since(start), err)
		o.logger.LogLoad(ctx, name, n, err)
	}()

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, translateError(err)
	}
	defer func() { _ = b.Close() }()

	rc := o.resource()
	cr = &countingReader{r: resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, b), rc)}
	sh, err := readSnapshotHeader(cr)
	if err != nil {
		return nil, err
	}

	switch wideint.Width(sh.manifest.Width) {
	case wideint.Width64:
		return load[wideint.U64](cr, sh, &o, rc)
	case wideint.Width128:
		return load[wideint.U128](cr, sh, &o, rc)
	case wideint.Width192:
		return load[wideint.U192](cr, sh, &o, rc)
	case wideint.Width256:
		return load[wideint.U256](cr, sh, &o, rc)
	default:
		return load[wideint.U320](cr, sh, &o, rc)
	}
}

func load[T wideint.Int[T]](r io.Reader, sh snapshotHeader, o *options, rc *resource.Controller) (Graph, error) {
	m := sh.manifest
	c, err := kmer.New[T](m.K)
	if err != nil {
		return nil, corrupted(err)
	}
	filter, err := bloom.Read[T](r)
	if err != nil {
		return nil, translateError(err)
	}

	candidates, err := candidatesFor(c, o.candidates, o.exhaustive, m.Policy)
	if err != nil {
		return nil, err
	}
	logger := o.logger.WithK(m.K).WithWidth(wideint.WidthOf[T]())
	return newTypedGraph(c, filter, m, candidates, o, rc, logger), nil
}

// As returns the typed graph behind g when g was built for integer type T.
func As[T wideint.Int[T]](g Graph) (*graph.Graph[T], bool) {
	tg, ok := g.(*typedGraph[T])
	if !ok {
		return nil, false
	}
	return tg.g, true
}

type typedGraph[T wideint.Int[T]] struct {
	g        *graph.Graph[T]
	manifest manifest
	codec    codec.Codec
	rc       *resource.Controller
	metrics  MetricsCollector
	logger   *Logger
}

// candidatesFor picks the candidate source of Nodes: replayed sequences
// first, then exhaustive enumeration when requested, else none.
func candidatesFor[T wideint.Int[T]](c *kmer.Codec[T], src source.Source, exhaustive bool, p solid.Policy) (graph.Candidates[T], error) {
	switch {
	case src != nil:
		return graph.ReplayCandidates(src, c, replayMode(p)), nil
	case exhaustive:
		return graph.ExhaustiveCandidates(c)
	default:
		return nil, nil
	}
}

func newTypedGraph[T wideint.Int[T]](c *kmer.Codec[T], filter *bloom.Filter[T], m manifest, candidates graph.Candidates[T], o *options, rc *resource.Controller, logger *Logger) *typedGraph[T] {
	g := graph.New(c, filter, func(gopts *graph.Options[T]) {
		gopts.Candidates = candidates
		gopts.Logger = logger.Logger
	})
	return &typedGraph[T]{
		g:        g,
		manifest: m,
		codec:    o.codec,
		rc:       rc,
		metrics:  o.metricsCollector,
		logger:   logger,
	}
}

func replayMode(p solid.Policy) graph.ReplayMode {
	switch p {
	case solid.PolicySkipSequence:
		return graph.ReplaySkipSequences
	case solid.PolicySkipKmers:
		return graph.ReplaySkipKmers
	default:
		return graph.ReplayStrict
	}
}

func (t *typedGraph[T]) K() int { return t.g.K() }

func (t *typedGraph[T]) Width() wideint.Width { return wideint.WidthOf[T]() }

func (t *typedGraph[T]) Nodes(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for n, err := range t.g.Nodes(ctx) {
			if err != nil {
				yield("", translateError(err))
				return
			}
			if !yield(t.g.String(n), nil) {
				return
			}
		}
	}
}

func (t *typedGraph[T]) CountNodes(ctx context.Context) (int, error) {
	n, err := t.g.CountNodes(ctx)
	return n, translateError(err)
}

func (t *typedGraph[T]) node(s string) (graph.Node[T], bool) {
	n, err := t.g.NodeFromString(s)
	return n, err == nil
}

func (t *typedGraph[T]) strings(nodes []graph.Node[T]) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = t.g.String(n)
	}
	return out
}

func (t *typedGraph[T]) Contains(s string) bool {
	n, ok := t.node(s)
	return ok && t.g.Contains(n)
}

func (t *typedGraph[T]) Successors(s string) []string {
	n, ok := t.node(s)
	if !ok {
		return nil
	}
	return t.strings(t.g.Successors(n))
}

func (t *typedGraph[T]) Predecessors(s string) []string {
	n, ok := t.node(s)
	if !ok {
		return nil
	}
	return t.strings(t.g.Predecessors(n))
}

func (t *typedGraph[T]) Outdegree(s string) int {
	n, ok := t.node(s)
	if !ok {
		return 0
	}
	return t.g.Outdegree(n)
}

func (t *typedGraph[T]) Indegree(s string) int {
	n, ok := t.node(s)
	if !ok {
		return 0
	}
	return t.g.Indegree(n)
}

func (t *typedGraph[T]) Stats() Stats { return t.manifest.Stats }

func (t *typedGraph[T]) FalsePositiveRate() float64 {
	return t.g.Filter().EstimatedFalsePositiveRate()
}

func (t *typedGraph[T]) Save(ctx context.Context, store blobstore.Store, name string) (err error) {
	start := time.Now()
	var written int64
	defer func() {
		t.metrics.RecordSave(written, time.Since(start), err)
		t.logger.LogSave(ctx, name, written, err)
	}()

	w, err := store.Create(ctx, name)
	if err != nil {
		return translateError(err)
	}

	m := t.manifest
	m.CreatedAt = time.Now().UTC()
	written, err = writeSnapshot(resource.NewRateLimitedWriter(ctx, w, t.rc), t.codec, m, t.g.Filter())
	if err == nil {
		err = w.Sync()
	}
	if err != nil {
		_ = blobstore.Abort(w)
		return fmt.Errorf("kmergraph: save %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("kmergraph: save %s: %w", name, err)
	}
	return nil
}

func (o *options) resource() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		IOLimitBytesPerSec: o.ioLimit,
	})
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
