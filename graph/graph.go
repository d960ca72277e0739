package graph

import (
	"context"
	"iter"
	"log/slog"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/wideint"
)

// Options configures a Graph.
type Options[T wideint.Int[T]] struct {
	// Candidates drives Nodes. Without it Nodes yields ErrNoCandidateSource.
	Candidates Candidates[T]
	Logger     *slog.Logger
}

// Graph is a read-only de Bruijn graph view over a membership filter.
type Graph[T wideint.Int[T]] struct {
	codec      *kmer.Codec[T]
	filter     *bloom.Filter[T]
	candidates Candidates[T]
	logger     *slog.Logger
}

// New returns a graph over filter. The filter must not be modified afterwards.
func New[T wideint.Int[T]](codec *kmer.Codec[T], filter *bloom.Filter[T], optFns ...func(o *Options[T])) *Graph[T] {
	var opts Options[T]
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Graph[T]{
		codec:      codec,
		filter:     filter,
		candidates: opts.Candidates,
		logger:     opts.Logger,
	}
}

// K returns the k-mer size.
func (g *Graph[T]) K() int { return g.codec.K() }

// Codec returns the k-mer codec.
func (g *Graph[T]) Codec() *kmer.Codec[T] { return g.codec }

// Filter returns the membership filter.
func (g *Graph[T]) Filter() *bloom.Filter[T] { return g.filter }

// HasCandidates reports whether Nodes can enumerate.
func (g *Graph[T]) HasCandidates() bool { return g.candidates != nil }

// Nodes yields every distinct solid canonical k-mer offered by the candidate
// source, once, as a forward node. The sequence is lazy and can be replayed.
func (g *Graph[T]) Nodes(ctx context.Context) iter.Seq2[Node[T], error] {
	return func(yield func(Node[T], error) bool) {
		if g.candidates == nil {
			yield(Node[T]{}, ErrNoCandidateSource)
			return
		}

		seen := newSeenSet[T](g.codec.K())
		var scanned uint64
		defer func() {
			g.logger.Debug("node enumeration finished", "candidates", scanned, "nodes", seen.Len())
		}()

		for x, err := range g.candidates.Candidates(ctx) {
			if err != nil {
				yield(Node[T]{}, err)
				return
			}
			scanned++
			if !g.codec.Valid(x) {
				continue
			}
			c := g.codec.Canonical(x)
			if !g.filter.Contains(c) || !seen.Add(c) {
				continue
			}
			if !yield(Node[T]{Kmer: c}, nil) {
				return
			}
		}
	}
}

// CountNodes returns the number of nodes yielded by Nodes.
func (g *Graph[T]) CountNodes(ctx context.Context) (int, error) {
	n := 0
	for _, err := range g.Nodes(ctx) {
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// valid reports whether n is a well-formed node value.
func (g *Graph[T]) valid(n Node[T]) bool {
	return n.Strand <= kmer.StrandReverse && g.codec.IsCanonical(n.Kmer)
}

// Contains reports whether n is a node of the graph.
func (g *Graph[T]) Contains(n Node[T]) bool {
	return g.valid(n) && g.filter.Contains(n.Kmer)
}

// visit calls fn for every neighbor of n in dir, outgoing first, each side
// in A, C, G, T order. Every neighbor query goes through visit.
func (g *Graph[T]) visit(n Node[T], dir Direction, fn func(to Node[T], nt byte, d Direction)) {
	if !g.valid(n) {
		return
	}
	x := g.codec.Oriented(n.Kmer, n.Strand)

	if dir&Outgoing != 0 {
		for s, cand := range g.codec.Successors(x) {
			if c, strand := g.codec.Orient(cand); g.filter.Contains(c) {
				fn(Node[T]{Kmer: c, Strand: strand}, kmer.Symbol(uint64(s)), Outgoing)
			}
		}
	}
	if dir&Incoming != 0 {
		for s, cand := range g.codec.Predecessors(x) {
			if c, strand := g.codec.Orient(cand); g.filter.Contains(c) {
				fn(Node[T]{Kmer: c, Strand: strand}, kmer.Symbol(uint64(s)), Incoming)
			}
		}
	}
}

// Neighbors returns the neighbors of n in dir.
func (g *Graph[T]) Neighbors(n Node[T], dir Direction) []Node[T] {
	var out []Node[T]
	g.visit(n, dir, func(to Node[T], _ byte, _ Direction) {
		out = append(out, to)
	})
	return out
}

// Edges returns the edges from n in dir with their nucleotide labels.
func (g *Graph[T]) Edges(n Node[T], dir Direction) []Edge[T] {
	var out []Edge[T]
	g.visit(n, dir, func(to Node[T], nt byte, d Direction) {
		out = append(out, Edge[T]{From: n, To: to, Nucleotide: nt, Direction: d})
	})
	return out
}

// Degree returns the number of neighbors of n in dir.
func (g *Graph[T]) Degree(n Node[T], dir Direction) int {
	d := 0
	g.visit(n, dir, func(Node[T], byte, Direction) { d++ })
	return d
}

// Successors returns the 0-4 nodes reached by appending a symbol to n.
func (g *Graph[T]) Successors(n Node[T]) []Node[T] { return g.Neighbors(n, Outgoing) }

// Predecessors returns the 0-4 nodes reached by prepending a symbol to n.
func (g *Graph[T]) Predecessors(n Node[T]) []Node[T] { return g.Neighbors(n, Incoming) }

// Outdegree returns len(Successors(n)).
func (g *Graph[T]) Outdegree(n Node[T]) int { return g.Degree(n, Outgoing) }

// Indegree returns len(Predecessors(n)).
func (g *Graph[T]) Indegree(n Node[T]) int { return g.Degree(n, Incoming) }

// IsBranching reports whether n has more than one successor or predecessor.
func (g *Graph[T]) IsBranching(n Node[T]) bool {
	return g.Outdegree(n) > 1 || g.Indegree(n) > 1
}

// Successor returns the neighbor reached by appending nt, if it is a node.
func (g *Graph[T]) Successor(n Node[T], nt byte) (Node[T], bool) {
	return g.step(n, nt, Outgoing)
}

// Predecessor returns the neighbor reached by prepending nt, if it is a node.
func (g *Graph[T]) Predecessor(n Node[T], nt byte) (Node[T], bool) {
	return g.step(n, nt, Incoming)
}

func (g *Graph[T]) step(n Node[T], nt byte, dir Direction) (Node[T], bool) {
	code, ok := kmer.Code(nt)
	if !ok || !g.valid(n) {
		return Node[T]{}, false
	}
	x := g.codec.Oriented(n.Kmer, n.Strand)

	var cand T
	if dir == Outgoing {
		cand = g.codec.Successors(x)[code]
	} else {
		cand = g.codec.Predecessors(x)[code]
	}
	c, strand := g.codec.Orient(cand)
	if !g.filter.Contains(c) {
		return Node[T]{}, false
	}
	return Node[T]{Kmer: c, Strand: strand}, true
}

// Reverse returns n read on the opposite strand.
func (g *Graph[T]) Reverse(n Node[T]) Node[T] {
	return Node[T]{Kmer: n.Kmer, Strand: n.Strand.Reverse()}
}

// String decodes n on its strand. Invalid nodes decode to "".
func (g *Graph[T]) String(n Node[T]) string {
	if !g.valid(n) {
		return ""
	}
	return g.codec.Decode(g.codec.Oriented(n.Kmer, n.Strand))
}

// NodeFromString encodes s as a node. The strand records whether s is the
// canonical form or its reverse complement. Membership is not checked.
func (g *Graph[T]) NodeFromString(s string) (Node[T], error) {
	x, err := g.codec.EncodeString(s)
	if err != nil {
		return Node[T]{}, err
	}
	c, strand := g.codec.Orient(x)
	return Node[T]{Kmer: c, Strand: strand}, nil
}
