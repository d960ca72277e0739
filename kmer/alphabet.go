package kmer

// Alphabet lists the symbols in code order.
const Alphabet = "ACGT"

var codes = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i, s := range Alphabet {
		t[s] = int8(i)
		t[s+'a'-'A'] = int8(i)
	}
	return t
}()

// Code returns the 2-bit code of symbol (case-insensitive).
func Code(symbol byte) (uint64, bool) {
	c := codes[symbol]
	if c < 0 {
		return 0, false
	}
	return uint64(c), true
}

// Symbol returns the upper-case symbol for a 2-bit code.
func Symbol(code uint64) byte {
	return Alphabet[code&3]
}

// Complement returns the complementary symbol (A<->T, C<->G) in upper case.
func Complement(symbol byte) (byte, bool) {
	c, ok := Code(symbol)
	if !ok {
		return 0, false
	}
	return Symbol(3 - c), true
}

// Strand is the orientation in which a canonical k-mer is read.
type Strand uint8

const (
	// StrandForward reads the canonical k-mer as encoded.
	StrandForward Strand = iota
	// StrandReverse reads its reverse complement.
	StrandReverse
)

// Reverse returns the opposite strand.
func (s Strand) Reverse() Strand {
	if s == StrandForward {
		return StrandReverse
	}
	return StrandForward
}

func (s Strand) String() string {
	if s == StrandForward {
		return "forward"
	}
	return "reverse"
}
