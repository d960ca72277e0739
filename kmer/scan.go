package kmer

// ScanMode selects how Scan treats symbols outside the alphabet.
type ScanMode uint8

const (
	// ScanStrict stops at the first invalid symbol with an InvalidSymbolError.
	ScanStrict ScanMode = iota
	// ScanSkipInvalid restarts the window after an invalid symbol, so no
	// k-mer overlapping it is produced.
	ScanSkipInvalid
)

// Scan calls fn for every window of seq, left to right, with the window's start
// position, its forward encoding and its reverse-complement encoding. Both
// encodings are maintained incrementally. Scan stops early when fn returns false.
//
// In ScanStrict mode windows before the invalid symbol have already been
// reported when the error is returned; use Validate first to reject a whole
// sequence up front.
func (c *Codec[T]) Scan(seq []byte, mode ScanMode, fn func(pos int, fwd, rev T) bool) error {
	var zero, fwd, rev T
	run := 0
	for i, s := range seq {
		code := codes[s]
		if code < 0 {
			if mode == ScanStrict {
				return &InvalidSymbolError{Pos: i, Symbol: s}
			}
			run = 0
			continue
		}
		v := uint64(code)
		fwd = fwd.Shl(2).And(c.mask).Or(zero.FromUint64(v))
		rev = rev.Shr(2).Or(zero.FromUint64(3 - v).Shl(c.top))
		run++
		if run >= c.k {
			if !fn(i-c.k+1, fwd, rev) {
				return nil
			}
		}
	}
	return nil
}

// Validate returns an InvalidSymbolError for the first symbol of seq outside the alphabet.
func Validate(seq []byte) error {
	for i, s := range seq {
		if codes[s] < 0 {
			return &InvalidSymbolError{Pos: i, Symbol: s}
		}
	}
	return nil
}

// WindowCount returns the number of k-mers in a sequence of length n.
func (c *Codec[T]) WindowCount(n int) int {
	if n < c.k {
		return 0
	}
	return n - c.k + 1
}
