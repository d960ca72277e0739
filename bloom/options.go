package bloom

import "fmt"

// Kind selects the bit layout of a filter.
type Kind uint8

const (
	// KindBasic spreads the h bits of a value over the whole array.
	KindBasic Kind = iota
	// KindBlocked places the h bits of a value inside one 512-bit block.
	// The bit count is rounded up to a whole number of blocks.
	KindBlocked
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Options represents the options for configuring a filter.
type Options struct {
	// Kind is the bit layout.
	Kind Kind

	// Compression is applied to the bit array by WriteTo.
	// LZ4 is fast; Zstd compresses sparse filters considerably better.
	Compression CompressionType
}

// DefaultOptions contains the default configuration options for filters.
var DefaultOptions = Options{
	Kind:        KindBasic,
	Compression: CompressionNone,
}
