package kmer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKmerSize is returned when k <= 0.
	ErrInvalidKmerSize = errors.New("kmer: k-mer size must be positive")

	// ErrInvalidSymbol is the sentinel wrapped by InvalidSymbolError.
	ErrInvalidSymbol = errors.New("kmer: invalid nucleotide")

	// ErrWindowLength is the sentinel wrapped by LengthError.
	ErrWindowLength = errors.New("kmer: window length does not match k")

	// ErrWidthTooSmall is the sentinel wrapped by WidthError.
	ErrWidthTooSmall = errors.New("kmer: integer width too small for k")
)

// WidthError reports a k that does not fit the codec's integer width.
type WidthError struct {
	K    int
	Bits int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("kmer: k=%d needs %d bits, integer width is %d", e.K, 2*e.K, e.Bits)
}

func (e *WidthError) Unwrap() error { return ErrWidthTooSmall }

// InvalidSymbolError reports a symbol outside A, C, G, T.
type InvalidSymbolError struct {
	Pos    int
	Symbol byte
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("kmer: invalid nucleotide %q at position %d", e.Symbol, e.Pos)
}

func (e *InvalidSymbolError) Unwrap() error { return ErrInvalidSymbol }

// LengthError reports a window whose length differs from k.
type LengthError struct {
	Want int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("kmer: window length %d, want %d", e.Got, e.Want)
}

func (e *LengthError) Unwrap() error { return ErrWindowLength }
