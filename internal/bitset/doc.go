// Package bitset provides a fixed-size, lock-free bit array for concurrent writers.
//
// Architecture:
//   - Flat array of atomic.Uint64 words, allocated once
//   - Lock-free: Set and TestAndSet use atomic OR on the containing word
//   - Little-endian byte image for serialization
//
// Used internally as the bit storage of Bloom filters.
package bitset
