package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/source"
	"github.com/hupe1980/kmergraph/testutil"
	"github.com/hupe1980/kmergraph/wideint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph inserts every canonical k-mer of seqs into a large filter and
// replays seqs as candidates.
func buildGraph[T wideint.Int[T]](t *testing.T, k int, seqs ...string) *Graph[T] {
	t.Helper()
	codec, err := kmer.New[T](k)
	require.NoError(t, err)
	f, err := bloom.New[T](1<<20, 7)
	require.NoError(t, err)

	src := source.Strings(seqs...)
	for _, s := range seqs {
		require.NoError(t, codec.Scan([]byte(s), kmer.ScanStrict, func(_ int, fwd, _ T) bool {
			f.Insert(codec.Canonical(fwd))
			return true
		}))
	}
	return New(codec, f, func(o *Options[T]) {
		o.Candidates = ReplayCandidates(src, codec, ReplayStrict)
	})
}

func collectNodes[T wideint.Int[T]](t *testing.T, g *Graph[T]) []string {
	t.Helper()
	var out []string
	for n, err := range g.Nodes(context.Background()) {
		require.NoError(t, err)
		out = append(out, g.String(n))
	}
	return out
}

func mustNode[T wideint.Int[T]](t *testing.T, g *Graph[T], s string) Node[T] {
	t.Helper()
	n, err := g.NodeFromString(s)
	require.NoError(t, err)
	return n
}

func TestScenario(t *testing.T) {
	codec, err := kmer.New[wideint.U64](4)
	require.NoError(t, err)

	src := source.Strings("AATGC")
	b, err := solid.NewBuilder(codec, func(o *solid.Options) {
		o.AbundanceMin = 1
		o.NumBits = 1 << 20
		o.Hashes = 7
	})
	require.NoError(t, err)
	f, _, err := b.Build(context.Background(), src)
	require.NoError(t, err)

	g := New(codec, f, func(o *Options[wideint.U64]) {
		o.Candidates = ReplayCandidates(src, codec, ReplayStrict)
	})

	assert.Equal(t, []string{"AATG", "ATGC"}, collectNodes(t, g))
	count, err := g.CountNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	aatg := mustNode(t, g, "AATG")
	succ := g.Successors(aatg)
	require.Len(t, succ, 1)
	assert.Equal(t, "ATGC", g.String(succ[0]))
	assert.Equal(t, 0, g.Indegree(aatg))
	assert.Equal(t, 1, g.Outdegree(aatg))
	assert.Empty(t, g.Predecessors(aatg))
}

func TestDegreeConsistency(t *testing.T) {
	rng := testutil.NewRNG(5)
	genome := string(rng.Sequence(2000))
	// Repeated segments joined by new sequence create branching nodes.
	g := buildGraph[wideint.U64](t, 11,
		genome,
		genome[100:400]+"ACGTTGCA"+genome[500:800],
		genome[1000:1200]+"TTTTGGGG"+genome[1300:1500],
	)

	nodes := 0
	branching := 0
	for n, err := range g.Nodes(context.Background()) {
		require.NoError(t, err)
		nodes++
		require.True(t, g.Contains(n))
		assert.Equal(t, len(g.Successors(n)), g.Outdegree(n))
		assert.Equal(t, len(g.Predecessors(n)), g.Indegree(n))
		assert.Equal(t, g.Outdegree(n)+g.Indegree(n), g.Degree(n, Both))
		assert.Len(t, g.Edges(n, Both), g.Degree(n, Both))
		if g.IsBranching(n) {
			branching++
		}

		for _, s := range g.Successors(n) {
			back := g.Predecessors(s)
			assert.Contains(t, back, n, "edge %s -> %s has no reverse", g.String(n), g.String(s))
		}
	}
	assert.Positive(t, nodes)
	assert.Positive(t, branching)
}

func TestStrandTraversal(t *testing.T) {
	g := buildGraph[wideint.U64](t, 4, "AATGC")

	aatg := mustNode(t, g, "AATG")
	atgc := mustNode(t, g, "ATGC")
	assert.Equal(t, kmer.StrandForward, aatg.Strand)

	// ATGC read backwards is GCAT; appending T gives CATT, the reverse of AATG.
	rev := g.Reverse(atgc)
	assert.Equal(t, "GCAT", g.String(rev))

	next, ok := g.Successor(rev, 'T')
	require.True(t, ok)
	assert.Equal(t, aatg.Kmer, next.Kmer)
	assert.Equal(t, kmer.StrandReverse, next.Strand)
	assert.Equal(t, "CATT", g.String(next))

	_, ok = g.Successor(rev, 'A')
	assert.False(t, ok)
	_, ok = g.Successor(rev, 'N')
	assert.False(t, ok)

	prev, ok := g.Predecessor(atgc, 'A')
	require.True(t, ok)
	assert.Equal(t, "AATG", g.String(prev))

	fromRC := mustNode(t, g, "CATT")
	assert.Equal(t, aatg.Kmer, fromRC.Kmer)
	assert.Equal(t, kmer.StrandReverse, fromRC.Strand)
	assert.Equal(t, aatg, g.Reverse(fromRC))
}

func TestEdges(t *testing.T) {
	g := buildGraph[wideint.U128](t, 4, "AATGC")
	aatg := mustNode(t, g, "AATG")

	edges := g.Edges(aatg, Outgoing)
	require.Len(t, edges, 1)
	assert.Equal(t, aatg, edges[0].From)
	assert.Equal(t, "ATGC", g.String(edges[0].To))
	assert.Equal(t, byte('C'), edges[0].Nucleotide)
	assert.Equal(t, Outgoing, edges[0].Direction)

	atgc := mustNode(t, g, "ATGC")
	in := g.Edges(atgc, Incoming)
	require.Len(t, in, 1)
	assert.Equal(t, byte('A'), in[0].Nucleotide)
	assert.Equal(t, Incoming, in[0].Direction)
	assert.Equal(t, g.Neighbors(atgc, Incoming), g.Predecessors(atgc))
}

func TestInvalidNode(t *testing.T) {
	g := buildGraph[wideint.U64](t, 4, "AATGC")

	// AATG ^ 0xff is TTAC, whose reverse complement GTAA is smaller.
	nonCanonical := Node[wideint.U64]{Kmer: mustNode(t, g, "AATG").Kmer ^ 0xff}
	tooWide := Node[wideint.U64]{Kmer: 1 << 20}
	badStrand := Node[wideint.U64]{Kmer: mustNode(t, g, "AATG").Kmer, Strand: 7}

	for _, n := range []Node[wideint.U64]{nonCanonical, tooWide, badStrand} {
		assert.Empty(t, g.Successors(n))
		assert.Empty(t, g.Predecessors(n))
		assert.Zero(t, g.Outdegree(n))
		assert.Zero(t, g.Indegree(n))
		assert.False(t, g.Contains(n))
		assert.Empty(t, g.String(n))
		_, ok := g.Successor(n, 'A')
		assert.False(t, ok)
	}

	_, err := g.NodeFromString("AANG")
	assert.ErrorIs(t, err, kmer.ErrInvalidSymbol)
	_, err = g.NodeFromString("AAT")
	assert.ErrorIs(t, err, kmer.ErrWindowLength)
}

func TestNoCandidateSource(t *testing.T) {
	codec, err := kmer.New[wideint.U64](4)
	require.NoError(t, err)
	f, err := bloom.New[wideint.U64](1024, 3)
	require.NoError(t, err)

	g := New(codec, f)
	assert.False(t, g.HasCandidates())
	_, err = g.CountNodes(context.Background())
	assert.ErrorIs(t, err, ErrNoCandidateSource)
}

func TestExhaustiveCandidates(t *testing.T) {
	codec, err := kmer.New[wideint.U64](5)
	require.NoError(t, err)

	cands, err := ExhaustiveCandidates(codec)
	require.NoError(t, err)

	n := 0
	var prev wideint.U64
	for x, err := range cands.Candidates(context.Background()) {
		require.NoError(t, err)
		require.True(t, codec.IsCanonical(x))
		if n > 0 {
			require.True(t, prev.Less(x))
		}
		prev = x
		n++
	}
	// Odd k has no palindromes: exactly half of 4^5 values are canonical.
	assert.Equal(t, 512, n)

	f, err := bloom.New[wideint.U64](1<<20, 7)
	require.NoError(t, err)
	want := []string{"AAAAA", "ACGTA", "CCCCA"}
	for _, s := range want {
		x, err := codec.EncodeString(s)
		require.NoError(t, err)
		f.Insert(codec.Canonical(x))
	}

	g := New(codec, f, func(o *Options[wideint.U64]) { o.Candidates = cands })
	got := collectNodes(t, g)
	assert.ElementsMatch(t, []string{"AAAAA", "ACGTA", "CCCCA"}, got)

	big, err := kmer.New[wideint.U64](13)
	require.NoError(t, err)
	_, err = ExhaustiveCandidates(big)
	require.ErrorIs(t, err, ErrExhaustiveTooLarge)
}

func TestExhaustiveMatchesReplay(t *testing.T) {
	rng := testutil.NewRNG(9)
	seqs := []string{string(rng.Sequence(300)), string(rng.Sequence(300))}
	g := buildGraph[wideint.U64](t, 7, seqs...)

	replayed := collectNodes(t, g)

	cands, err := ExhaustiveCandidates(g.Codec())
	require.NoError(t, err)
	ex := New(g.Codec(), g.Filter(), func(o *Options[wideint.U64]) { o.Candidates = cands })

	assert.ElementsMatch(t, replayed, collectNodes(t, ex))
	assert.Len(t, replayed, len(testutil.DistinctCanonical([][]byte{[]byte(seqs[0]), []byte(seqs[1])}, 7)))
}

func TestCatalog(t *testing.T) {
	g := buildGraph[wideint.U64](t, 4, "AATGC")
	aatg := mustNode(t, g, "AATG").Kmer
	catt := g.Codec().ReverseComplement(aatg)

	cat := Catalog([]wideint.U64{aatg, catt, aatg, 1 << 40})
	cg := New(g.Codec(), g.Filter(), func(o *Options[wideint.U64]) { o.Candidates = cat })
	assert.Equal(t, []string{"AATG"}, collectNodes(t, cg))
}

func TestReplayModes(t *testing.T) {
	codec, err := kmer.New[wideint.U64](3)
	require.NoError(t, err)
	src := source.Strings("ACGTNACGTA", "GGGA")

	count := func(mode ReplayMode) (int, error) {
		n := 0
		for _, err := range ReplayCandidates(src, codec, mode).Candidates(context.Background()) {
			if err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	}

	_, err = count(ReplayStrict)
	assert.ErrorIs(t, err, kmer.ErrInvalidSymbol)

	n, err := count(ReplaySkipKmers)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = count(ReplaySkipSequences)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNodesEarlyBreakAndCancel(t *testing.T) {
	rng := testutil.NewRNG(1)
	g := buildGraph[wideint.U64](t, 21, string(rng.Sequence(500)))

	n := 0
	for _, err := range g.Nodes(context.Background()) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.CountNodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWideNodes(t *testing.T) {
	rng := testutil.NewRNG(2)
	seq := string(rng.Sequence(400))
	g := buildGraph[wideint.U320](t, 155, seq)

	nodes := collectNodes(t, g)
	assert.Len(t, nodes, len(testutil.DistinctCanonical([][]byte{[]byte(seq)}, 155)))

	first := mustNode(t, g, seq[:155])
	next, ok := g.Successor(first, seq[155])
	require.True(t, ok)
	assert.Equal(t, seq[1:156], g.String(next))
}

func TestSeenSet(t *testing.T) {
	assert.IsType(t, &bitmap32[wideint.U64]{}, newSeenSet[wideint.U64](16))
	assert.IsType(t, &bitmap64[wideint.U64]{}, newSeenSet[wideint.U64](31))
	assert.IsType(t, &mapSet[wideint.U128]{}, newSeenSet[wideint.U128](40))
	assert.IsType(t, &bitmap32[wideint.U128]{}, newSeenSet[wideint.U128](8))

	for _, s := range []seenSet[wideint.U64]{newSeenSet[wideint.U64](8), newSeenSet[wideint.U64](20), &mapSet[wideint.U64]{m: map[wideint.U64]struct{}{}}} {
		assert.True(t, s.Add(5))
		assert.False(t, s.Add(5))
		assert.True(t, s.Add(6))
		assert.Equal(t, uint64(2), s.Len())
	}
}

func TestConcurrentQueries(t *testing.T) {
	rng := testutil.NewRNG(4)
	g := buildGraph[wideint.U128](t, 41, string(rng.Sequence(3000)))

	var nodes []Node[wideint.U128]
	for n, err := range g.Nodes(context.Background()) {
		require.NoError(t, err)
		nodes = append(nodes, n)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range nodes {
				if g.Outdegree(n) != len(g.Successors(n)) {
					t.Errorf("inconsistent outdegree for %s", g.String(n))
				}
			}
		}()
	}
	wg.Wait()
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "outgoing", Outgoing.String())
	assert.Equal(t, "incoming", Incoming.String())
	assert.Equal(t, "both", Both.String())
	assert.Equal(t, "Direction(8)", Direction(8).String())
}
