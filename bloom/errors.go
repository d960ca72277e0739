package bloom

import "errors"

var (
	// ErrInvalidSize is returned when the filter would have zero or more than MaxBits bits.
	ErrInvalidSize = errors.New("bloom: number of bits out of range")

	// ErrInvalidHashCount is returned when the filter would have zero hash functions.
	ErrInvalidHashCount = errors.New("bloom: number of hash functions must be positive")

	// ErrInvalidCapacity is returned by OptimalSize for zero expected items.
	ErrInvalidCapacity = errors.New("bloom: expected item count must be positive")

	// ErrInvalidFalsePositiveRate is returned for a false positive rate outside (0, 1).
	ErrInvalidFalsePositiveRate = errors.New("bloom: false positive rate must be in (0, 1)")

	// ErrUnknownKind is returned for an unsupported filter kind.
	ErrUnknownKind = errors.New("bloom: unknown filter kind")

	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("bloom: unsupported compression")

	// ErrCorrupted indicates invalid serialized filter data.
	ErrCorrupted = errors.New("bloom: corrupted filter data")

	// ErrWidthMismatch is returned when a serialized filter was built for another integer width.
	ErrWidthMismatch = errors.New("bloom: integer width mismatch")
)
