// Package testutil provides testing utilities for kmergraph.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic random nucleotide data.
//
// # Random Sequences
//
//	rng := testutil.NewRNG(seed)
//	genome := rng.Sequence(10_000)          // uniform A/C/G/T
//	reads := rng.Reads(genome, 500, 100)    // substrings sampled from genome
//	noisy := rng.Mutate(reads[0], 0.01)     // substitution errors
//
// # Reference Helpers
//
//	rc := testutil.ReverseComplement("AATG") // "CATT", computed on strings
package testutil
