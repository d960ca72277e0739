// Package solid builds the solid k-mer set of a sequence source.
//
// A k-mer is solid when it occurs at least AbundanceMin times, counting a
// window and its reverse complement as the same k-mer. Solid k-mers are
// inserted into a bloom.Filter, which then backs the graph view.
//
// The builder runs in one of two modes:
//
//   - streaming: an explicit filter size and no abundance filtering; every
//     canonical k-mer is inserted as it is scanned, no counts are kept.
//   - counting: k-mers are tallied in a sharded count table first; the
//     filter is sized from the number of solid k-mers and filled afterwards.
//
// Sequences are scanned in parallel. Filter inserts are lock-free.
package solid
