// Package kmer encodes nucleotide windows into wideint integers.
//
// Symbols are packed two bits each, A=0 C=1 G=2 T=3, with the leftmost symbol
// in the most significant used bits. Numeric order of encodings therefore
// equals lexicographic order of the windows, and the canonical form of a
// k-mer (the smaller of the k-mer and its reverse complement) is the
// lexicographically smaller string. Palindromic k-mers are their own
// canonical form.
//
// A Codec is bound to one k and one integer width:
//
//	c, err := kmer.New[wideint.U64](31)
//	x, err := c.EncodeString("ACGT...")
//	canon := c.Canonical(x)
//	next := c.Successors(canon) // four candidates, A C G T appended
//
// The complement of a code is its bitwise negation, so reverse complements are
// computed without decoding: negate, reverse the 2-bit groups, and shift the
// result back into the low 2k bits.
package kmer
