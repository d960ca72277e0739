package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmergraph"
	"github.com/hupe1980/kmergraph/blobstore"
	"github.com/hupe1980/kmergraph/source"
	"github.com/hupe1980/kmergraph/testutil"
)

func writeFASTQ(t *testing.T, path string, reads [][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	for i, r := range reads {
		_, err := fmt.Fprintf(zw, "@read%d\n%s\n+\n%s\n", i, r, strings.Repeat("I", len(r)))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func nodes(t *testing.T, g kmergraph.Graph) []string {
	t.Helper()
	var out []string
	for kmer, err := range g.Nodes(context.Background()) {
		require.NoError(t, err)
		out = append(out, kmer)
	}
	slices.Sort(out)
	return out
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(2024)
	genome := rng.Sequence(5000)
	reads := rng.Reads(genome, 400, 100)

	path := filepath.Join(t.TempDir(), "reads.fastq.gz")
	writeFASTQ(t, path, reads)

	const k = 25
	const abundanceMin = 3
	g, err := kmergraph.Create(ctx, source.File(path),
		kmergraph.WithKmerSize(k),
		kmergraph.WithAbundanceMin(abundanceMin),
		kmergraph.WithFalsePositiveRate(0.001),
		kmergraph.WithBloomKind(kmergraph.BloomBlocked),
		kmergraph.WithCompression(kmergraph.CompressionZstd),
		kmergraph.WithWorkers(4),
	)
	require.NoError(t, err)

	counts := testutil.DistinctCanonical(reads, k)
	var want []string
	for kmer, n := range counts {
		if n >= abundanceMin {
			want = append(want, kmer)
		}
	}
	slices.Sort(want)

	got := nodes(t, g)
	// Every solid k-mer is found; a few weak ones may pass as false positives.
	for _, kmer := range want {
		require.True(t, g.Contains(kmer), kmer)
	}
	assert.Subset(t, got, want)
	assert.LessOrEqual(t, len(got)-len(want), len(counts)/50+1)
	assert.Equal(t, int64(len(want)), g.Stats().Solid)
	assert.Equal(t, int64(len(counts)), g.Stats().Distinct)

	// Snapshot to disk, reload with candidates from a cached blob.
	snapshots := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, g.Save(ctx, snapshots, "genome.kmg"))

	inputs := blobstore.NewMemoryStore()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, inputs.Put(ctx, "reads.fastq.gz", data))
	cached := blobstore.NewCachingStore(inputs, 1<<20, 4096)
	defer func() { _ = cached.Close() }()

	loaded, err := kmergraph.Load(ctx, snapshots, "genome.kmg",
		kmergraph.WithCandidates(source.Blob(cached, "reads.fastq.gz")))
	require.NoError(t, err)
	assert.Equal(t, got, nodes(t, loaded))
	assert.Equal(t, got, nodes(t, loaded), "replays through the cache")

	hits, _ := cached.Stats()
	assert.Positive(t, hits)

	for _, kmer := range want {
		assert.Equal(t, g.Outdegree(kmer), loaded.Outdegree(kmer))
		assert.Equal(t, g.Indegree(kmer), loaded.Indegree(kmer))
	}
}

func TestDegreeConsistency(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(9)
	genome := rng.Sequence(3000)
	reads := rng.Reads(genome, 200, 80)

	g, err := kmergraph.Create(ctx, source.Bytes(reads...),
		kmergraph.WithKmerSize(31),
		kmergraph.WithFalsePositiveRate(0.01),
	)
	require.NoError(t, err)

	for kmer, err := range g.Nodes(ctx) {
		require.NoError(t, err)
		for _, next := range g.Successors(kmer) {
			require.Contains(t, g.Predecessors(next), kmer)
		}
		for _, prev := range g.Predecessors(kmer) {
			require.Contains(t, g.Successors(prev), kmer)
		}
		require.Equal(t, len(g.Successors(kmer)), g.Outdegree(kmer))
		require.Equal(t, len(g.Predecessors(kmer)), g.Indegree(kmer))
	}
}

func TestGenomeWalk(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)
	genome := rng.Sequence(600)

	const k = 31
	g, err := kmergraph.Create(ctx, source.Bytes(genome), kmergraph.WithKmerSize(k),
		kmergraph.WithBloomSize(1<<22, 7))
	require.NoError(t, err)

	// Forward along the genome, then backward along its reverse complement.
	for i := 0; i+k < len(genome); i++ {
		require.Contains(t, g.Successors(string(genome[i:i+k])), string(genome[i+1:i+k+1]))
	}
	rc := testutil.ReverseComplement(string(genome))
	for i := 0; i+k < len(rc); i++ {
		require.Contains(t, g.Successors(rc[i:i+k]), rc[i+1:i+k+1])
	}
}
