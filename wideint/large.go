package wideint

// Code below is repeated per width; keep the three blocks in sync.

// U192 is a 192-bit integer of 3 little-endian words holding k-mers up to k=96.
type U192 [3]uint64

func (U192) FromUint64(v uint64) U192 { return U192{v} }

func (U192) Mask(n uint) U192 {
	var r U192
	maskWords(r[:], n)
	return r
}

func (x U192) And(o U192) U192 {
	var r U192
	andWords(r[:], x[:], o[:])
	return r
}

func (x U192) Or(o U192) U192 {
	var r U192
	orWords(r[:], x[:], o[:])
	return r
}

func (x U192) Xor(o U192) U192 {
	var r U192
	xorWords(r[:], x[:], o[:])
	return r
}

func (x U192) Not() U192 {
	var r U192
	notWords(r[:], x[:])
	return r
}

func (x U192) Shl(n uint) U192 {
	var r U192
	shlWords(r[:], x[:], n)
	return r
}

func (x U192) Shr(n uint) U192 {
	var r U192
	shrWords(r[:], x[:], n)
	return r
}

func (x U192) Add(o U192) U192 {
	var r U192
	addWords(r[:], x[:], o[:])
	return r
}

func (x U192) Reverse2() U192 {
	var r U192
	reverse2Words(r[:], x[:])
	return r
}

func (x U192) Compare(o U192) int      { return compareWords(x[:], o[:]) }
func (x U192) Less(o U192) bool        { return compareWords(x[:], o[:]) < 0 }
func (x U192) IsZero() bool            { return isZeroWords(x[:]) }
func (x U192) Low64() uint64           { return x[0] }
func (x U192) Hash(seed uint64) uint64 { return hashWords(x[:], seed) }
func (U192) Bits() int                 { return 192 }
func (x U192) String() string          { return formatWords(x[:]) }

// U256 is a 256-bit integer of 4 little-endian words holding k-mers up to k=128.
type U256 [4]uint64

func (U256) FromUint64(v uint64) U256 { return U256{v} }

func (U256) Mask(n uint) U256 {
	var r U256
	maskWords(r[:], n)
	return r
}

func (x U256) And(o U256) U256 {
	var r U256
	andWords(r[:], x[:], o[:])
	return r
}

func (x U256) Or(o U256) U256 {
	var r U256
	orWords(r[:], x[:], o[:])
	return r
}

func (x U256) Xor(o U256) U256 {
	var r U256
	xorWords(r[:], x[:], o[:])
	return r
}

func (x U256) Not() U256 {
	var r U256
	notWords(r[:], x[:])
	return r
}

func (x U256) Shl(n uint) U256 {
	var r U256
	shlWords(r[:], x[:], n)
	return r
}

func (x U256) Shr(n uint) U256 {
	var r U256
	shrWords(r[:], x[:], n)
	return r
}

func (x U256) Add(o U256) U256 {
	var r U256
	addWords(r[:], x[:], o[:])
	return r
}

func (x U256) Reverse2() U256 {
	var r U256
	reverse2Words(r[:], x[:])
	return r
}

func (x U256) Compare(o U256) int      { return compareWords(x[:], o[:]) }
func (x U256) Less(o U256) bool        { return compareWords(x[:], o[:]) < 0 }
func (x U256) IsZero() bool            { return isZeroWords(x[:]) }
func (x U256) Low64() uint64           { return x[0] }
func (x U256) Hash(seed uint64) uint64 { return hashWords(x[:], seed) }
func (U256) Bits() int                 { return 256 }
func (x U256) String() string          { return formatWords(x[:]) }

// U320 is a 320-bit integer of 5 little-endian words holding k-mers up to k=160.
type U320 [5]uint64

func (U320) FromUint64(v uint64) U320 { return U320{v} }

func (U320) Mask(n uint) U320 {
	var r U320
	maskWords(r[:], n)
	return r
}

func (x U320) And(o U320) U320 {
	var r U320
	andWords(r[:], x[:], o[:])
	return r
}

func (x U320) Or(o U320) U320 {
	var r U320
	orWords(r[:], x[:], o[:])
	return r
}

func (x U320) Xor(o U320) U320 {
	var r U320
	xorWords(r[:], x[:], o[:])
	return r
}

func (x U320) Not() U320 {
	var r U320
	notWords(r[:], x[:])
	return r
}

func (x U320) Shl(n uint) U320 {
	var r U320
	shlWords(r[:], x[:], n)
	return r
}

func (x U320) Shr(n uint) U320 {
	var r U320
	shrWords(r[:], x[:], n)
	return r
}

func (x U320) Add(o U320) U320 {
	var r U320
	addWords(r[:], x[:], o[:])
	return r
}

func (x U320) Reverse2() U320 {
	var r U320
	reverse2Words(r[:], x[:])
	return r
}

func (x U320) Compare(o U320) int      { return compareWords(x[:], o[:]) }
func (x U320) Less(o U320) bool        { return compareWords(x[:], o[:]) < 0 }
func (x U320) IsZero() bool            { return isZeroWords(x[:]) }
func (x U320) Low64() uint64           { return x[0] }
func (x U320) Hash(seed uint64) uint64 { return hashWords(x[:], seed) }
func (U320) Bits() int                 { return 320 }
func (x U320) String() string          { return formatWords(x[:]) }
