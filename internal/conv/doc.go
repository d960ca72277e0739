// Package conv provides checked integer conversions for the binary
// snapshot and filter headers.
//
// Lengths written into fixed-width header fields and sizes read back from
// untrusted files go through these helpers. Conversions that are provably
// safe by construction (loop indices, k-mer positions) use direct casts.
package conv
