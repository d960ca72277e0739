// Package bloom provides a concurrent Bloom filter over k-mer encodings.
//
// A Bloom filter can tell definitively that a value is NOT in the set, and
// may report false positives when it says a value IS in the set. For a
// de Bruijn graph this is exactly the right trade: a false positive adds a
// spurious node or edge, a false negative would break the graph, and the
// filter never produces one.
//
// Key properties:
//   - Zero false negatives for every value representable by T
//   - Lock-free inserts: bits are set with atomic OR on 64-bit words
//   - O(h) lookup where h is the number of hash functions
//   - Basic (bits spread over the whole array) or Blocked (all bits of a value
//     inside one 512-bit block, one cache line per lookup)
//
// Sizing:
//
//	bits, hashes, err := bloom.OptimalSize(expectedItems, 0.01)
//	f, err := bloom.New[wideint.U64](bits, hashes)
//
// Persistence:
//
//	f.WriteTo(w)                  // header + (optionally compressed) bit array
//	f, err := bloom.Read[wideint.U64](r)
package bloom
