// Package hash provides checksums for persisted filters and snapshots.
//
// All payload checksums use CRC32-Castagnoli (CRC32C), which Go's crc32
// package accelerates in hardware on x86 (SSE4.2) and ARM.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(payload)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(words)
//	checksum := h.Sum32()
package hash
