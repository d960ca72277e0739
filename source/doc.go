// Package source provides replayable streams of nucleotide sequences.
//
// A Source is read once to build the solid set and may be read again to
// enumerate graph nodes, so every implementation must produce the same
// sequences on each call to Sequences.
//
// Text inputs are parsed as FASTA ('>' headers, multi-line records), FASTQ
// ('@' headers) or one sequence per line. Gzip and Zstandard compressed
// inputs are detected by their magic bytes.
package source
