package kmergraph

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/codec"
	"github.com/hupe1980/kmergraph/kmer"
	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/wideint"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"non positive k", fmt.Errorf("x: %w", wideint.ErrNonPositiveK), ErrInvalidKmerSize},
		{"kmer size", kmer.ErrInvalidKmerSize, ErrInvalidKmerSize},
		{"too large", wideint.ErrKmerSizeTooLarge, ErrKmerSizeTooLarge},
		{"width", &kmer.WidthError{K: 40, Bits: 64}, ErrKmerSizeTooLarge},
		{"bloom size", bloom.ErrInvalidSize, ErrInvalidBloomSize},
		{"hash count", bloom.ErrInvalidHashCount, ErrInvalidHashCount},
		{"rate", bloom.ErrInvalidFalsePositiveRate, ErrInvalidFalsePositiveRate},
		{"symbol", fmt.Errorf("solid: %w", &kmer.InvalidSymbolError{Pos: 3, Symbol: 'N'}), ErrInvalidSymbol},
		{"not found", &os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, ErrNotFound},
		{"corrupted", bloom.ErrCorrupted, ErrCorruptedSnapshot},
		{"width mismatch", bloom.ErrWidthMismatch, ErrCorruptedSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.in)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, tt.in, "cause is kept")
		})
	}

	other := errors.New("other")
	assert.Same(t, other, translateError(other))
}

func TestTypedErrors(t *testing.T) {
	err := translateError(fmt.Errorf("solid: %w", &kmer.InvalidSymbolError{Pos: 3, Symbol: 'N'}))
	var ise *InvalidSymbolError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 3, ise.Pos)
	assert.Equal(t, byte('N'), ise.Symbol)
	var cause *kmer.InvalidSymbolError
	require.ErrorAs(t, err, &cause)
	assert.Contains(t, err.Error(), `'N'`)

	err = translateError(&kmer.WidthError{K: 40, Bits: 64})
	var kse *KmerSizeError
	require.ErrorAs(t, err, &kse)
	assert.Equal(t, 40, kse.K)
	assert.Equal(t, 32, kse.MaxK)
	require.ErrorIs(t, err, kmer.ErrWidthTooSmall)
}

func TestSnapshotHeader(t *testing.T) {
	f, err := bloom.New[wideint.U64](1024, 3)
	require.NoError(t, err)
	f.Insert(wideint.U64(42))

	m := manifest{
		K:            21,
		Width:        64,
		AbundanceMin: 3,
		Policy:       solid.PolicySkipKmers,
		Stats:        solid.Stats{Sequences: 7, Kmers: 70, Solid: 12},
	}

	for _, c := range []codec.Codec{codec.JSON, codec.GoJSON} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := writeSnapshot(&buf, c, m, f)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			sh, err := readSnapshotHeader(&buf)
			require.NoError(t, err)
			assert.Equal(t, c.Name(), sh.codecName)
			assert.Equal(t, m, sh.manifest)

			loaded, err := bloom.Read[wideint.U64](&buf)
			require.NoError(t, err)
			assert.True(t, loaded.Contains(42))
			assert.Zero(t, buf.Len())
		})
	}
}

func TestSnapshotHeaderMismatchedWidth(t *testing.T) {
	f, err := bloom.New[wideint.U64](1024, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = writeSnapshot(&buf, codec.Default, manifest{K: 40, Width: 64}, f)
	require.NoError(t, err)

	_, err = readSnapshotHeader(&buf)
	require.ErrorIs(t, err, ErrCorruptedSnapshot)
}

type indentedJSON struct{ codec.Codec }

func (indentedJSON) Name() string { return "json-indented" }

func TestSnapshotHeaderCustomCodec(t *testing.T) {
	f, err := bloom.New[wideint.U64](1024, 3)
	require.NoError(t, err)
	c := indentedJSON{codec.JSON}
	m := manifest{K: 11, Width: 64, AbundanceMin: 2}

	var buf bytes.Buffer
	_, err = writeSnapshot(&buf, c, m, f)
	require.NoError(t, err)
	data := buf.Bytes()

	if _, ok := codec.ByName(c.Name()); !ok {
		_, err = readSnapshotHeader(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrCorruptedSnapshot, "unregistered codec")
	}

	if err := codec.Register(c); err != nil {
		require.ErrorIs(t, err, codec.ErrDuplicate)
	}
	sh, err := readSnapshotHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, c.Name(), sh.codecName)
	assert.Equal(t, m, sh.manifest)
}
