package kmer

import (
	"testing"

	"github.com/hupe1980/kmergraph/testutil"
	"github.com/hupe1980/kmergraph/wideint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type window struct {
	pos      int
	fwd, rev string
}

func collect[T wideint.Int[T]](t *testing.T, c *Codec[T], seq string, mode ScanMode) ([]window, error) {
	t.Helper()
	var out []window
	err := c.Scan([]byte(seq), mode, func(pos int, fwd, rev T) bool {
		out = append(out, window{pos, c.Decode(fwd), c.Decode(rev)})
		return true
	})
	return out, err
}

func TestScan(t *testing.T) {
	c, err := New[wideint.U64](4)
	require.NoError(t, err)

	got, err := collect(t, c, "AATGC", ScanStrict)
	require.NoError(t, err)
	assert.Equal(t, []window{
		{0, "AATG", "CATT"},
		{1, "ATGC", "GCAT"},
	}, got)

	got, err = collect(t, c, "AAT", ScanStrict)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, c.WindowCount(3))
	assert.Equal(t, 2, c.WindowCount(5))
}

func TestScanInvalid(t *testing.T) {
	c, err := New[wideint.U64](3)
	require.NoError(t, err)

	got, err := collect(t, c, "ACGTNACGTA", ScanSkipInvalid)
	require.NoError(t, err)
	positions := make([]int, 0, len(got))
	for _, w := range got {
		positions = append(positions, w.pos)
	}
	assert.Equal(t, []int{0, 1, 5, 6, 7}, positions)
	assert.Equal(t, "ACG", got[2].fwd)
	assert.Equal(t, "CGT", got[2].rev)

	got, err = collect(t, c, "ACGTNACGTA", ScanStrict)
	var se *InvalidSymbolError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Pos)
	assert.Len(t, got, 2)

	require.NoError(t, Validate([]byte("acgtACGT")))
	require.ErrorIs(t, Validate([]byte("ACGTN")), ErrInvalidSymbol)
}

func TestScanStop(t *testing.T) {
	c, err := New[wideint.U64](2)
	require.NoError(t, err)

	n := 0
	err = c.Scan([]byte("ACGTACGT"), ScanStrict, func(int, wideint.U64, wideint.U64) bool {
		n++
		return n < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestScanMatchesEncode(t *testing.T) {
	t.Run("U64", testScanMatchesEncode[wideint.U64])
	t.Run("U128", testScanMatchesEncode[wideint.U128])
	t.Run("U320", testScanMatchesEncode[wideint.U320])
}

func testScanMatchesEncode[T wideint.Int[T]](t *testing.T) {
	rng := testutil.NewRNG(99)
	k := wideint.MaxK[T]() - 1
	c, err := New[T](k)
	require.NoError(t, err)

	seq := rng.Sequence(4 * k)
	n := 0
	err = c.Scan(seq, ScanStrict, func(pos int, fwd, rev T) bool {
		want, err := c.Encode(seq[pos : pos+k])
		require.NoError(t, err)
		assert.Equal(t, want, fwd)
		assert.Equal(t, c.ReverseComplement(want), rev)
		n++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, c.WindowCount(len(seq)), n)
}
