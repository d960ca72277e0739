// Package wideint provides fixed-width unsigned integers used to pack k-mers.
//
// Every width implements the same Int contract, so k-mer code is written once
// as a generic over T and instantiated for the width chosen from k:
//
//	Width     Type   Max k
//	64 bit    U64    32
//	128 bit   U128   64
//	192 bit   U192   96
//	256 bit   U256   128
//	320 bit   U320   160
//
// U64 is a native uint64 and U128 is a hi/lo pair backed by math/bits. The
// wider types are little-endian word arrays (word 0 holds the least
// significant bits). All operations are value-semantic and exact: shifts that
// cross a word boundary carry bits into the neighbouring word, and shifting by
// the full width or more yields zero.
//
// # Choosing a width
//
//	w, err := wideint.ForK(k) // narrowest width with 2k bits
//
// The choice is made once per graph; nothing branches on width afterwards.
package wideint
