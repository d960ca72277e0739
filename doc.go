// Package kmergraph provides an embeddable, probabilistic de Bruijn graph of
// nucleotide k-mers.
//
// The solid k-mers of a set of sequences (those occurring at least an
// abundance threshold times) are stored in a Bloom filter. The graph is
// implicit: its nodes are the k-mers the filter contains and its edges are
// the single-nucleotide extensions that are nodes too. Nothing but the filter
// is kept in memory, so a graph of billions of k-mers costs a few bits per
// k-mer. The price is a tunable false positive rate; false negatives never
// occur.
//
// # Quick Start
//
//	ctx := context.Background()
//	src := source.Strings("AATGC")
//	g, err := kmergraph.Create(ctx, src, kmergraph.WithKmerSize(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for kmer, err := range g.Nodes(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(kmer, g.Successors(kmer))
//	}
//	// AATG [ATGC]
//	// ATGC []
//
// Sequences usually come from files:
//
//	src := source.File("reads.fastq.gz")
//	g, err := kmergraph.Create(ctx, src,
//	    kmergraph.WithKmerSize(31),
//	    kmergraph.WithAbundanceMin(3),
//	    kmergraph.WithInvalidSymbolPolicy(kmergraph.SkipInvalidKmers),
//	)
//
// # Strands
//
// A k-mer and its reverse complement are the same node, identified by the
// lexicographically smaller of the two (its canonical form). Queries accept
// either strand and answer on the strand they were asked on, so walking
// Successors spells the underlying sequence in the direction it was entered.
//
// # Widths
//
// k-mers are packed two bits per nucleotide into the narrowest of the
// wideint widths that holds them: 64 bits up to k=32, then 128, 192, 256 and
// 320 bits (k up to 160). The width is picked once by Create; use As to reach
// the typed graph.Graph for allocation-free traversal.
//
// # Persistence
//
// Graphs are saved as immutable snapshots to any blobstore.Store:
//
//	store := blobstore.NewLocalStore("./data")
//	if err := g.Save(ctx, store, "reads.kmg"); err != nil {
//	    log.Fatal(err)
//	}
//	g2, err := kmergraph.Load(ctx, store, "reads.kmg", kmergraph.WithCandidates(src))
//
// A snapshot holds the filter only. Nodes on a loaded graph replays the
// sequences given with WithCandidates, or scans all 4^k values with
// WithExhaustiveCandidates (k up to 12, test configurations only). Without
// either it reports ErrNoCandidateSource while point queries keep working.
//
// Remote stores live in blobstore/s3 and blobstore/minio.
//
// # Key Features
//
//   - Multi-width k-mer encoding with canonical strand handling
//   - Concurrent, lock-free Bloom filter construction (basic or blocked)
//   - Parallel k-mer counting with an abundance threshold and memory limit
//   - FASTA/FASTQ and plain inputs, gzip and zstd compressed
//   - LZ4/Zstd compressed snapshots on local disk, S3 or MinIO
package kmergraph
