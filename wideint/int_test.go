package wideint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForK(t *testing.T) {
	tests := []struct {
		k    int
		want Width
	}{
		{1, Width64},
		{31, Width64},
		{32, Width64},
		{33, Width128},
		{64, Width128},
		{65, Width192},
		{96, Width192},
		{97, Width256},
		{128, Width256},
		{129, Width320},
		{160, Width320},
	}
	for _, tt := range tests {
		got, err := ForK(tt.k)
		require.NoError(t, err, "k=%d", tt.k)
		assert.Equal(t, tt.want, got, "k=%d", tt.k)
		assert.GreaterOrEqual(t, got.MaxK(), tt.k)
	}

	_, err := ForK(0)
	require.ErrorIs(t, err, ErrNonPositiveK)
	_, err = ForK(-3)
	require.ErrorIs(t, err, ErrNonPositiveK)
	_, err = ForK(161)
	require.ErrorIs(t, err, ErrKmerSizeTooLarge)
}

func TestMaxK(t *testing.T) {
	assert.Equal(t, 32, MaxK[U64]())
	assert.Equal(t, 64, MaxK[U128]())
	assert.Equal(t, 96, MaxK[U192]())
	assert.Equal(t, 128, MaxK[U256]())
	assert.Equal(t, 160, MaxK[U320]())
	assert.Equal(t, Width320, WidthOf[U320]())
}

func TestContract(t *testing.T) {
	t.Run("U64", testContract[U64])
	t.Run("U128", testContract[U128])
	t.Run("U192", testContract[U192])
	t.Run("U256", testContract[U256])
	t.Run("U320", testContract[U320])
}

func testContract[T Int[T]](t *testing.T) {
	var zero T
	bits := uint(zero.Bits())
	one := zero.FromUint64(1)
	all := zero.Not()

	t.Run("BitwiseIdentities", func(t *testing.T) {
		x := zero.FromUint64(0xDEADBEEFCAFEBABE).Shl(bits / 3).Or(zero.FromUint64(0x1234))
		assert.True(t, x.Xor(x).IsZero())
		assert.Equal(t, x, x.Not().Not())
		assert.True(t, x.And(x.Not()).IsZero())
		assert.Equal(t, all, x.Or(x.Not()))
		assert.Equal(t, x, x.And(all))
	})

	t.Run("ShiftCarriesAcrossWords", func(t *testing.T) {
		for _, n := range []uint{0, 1, 2, 31, 62, 63, 64, 65, 127, 128, 130, 191, 250, 319} {
			if n >= bits {
				continue
			}
			x := one.Shl(n)
			assert.False(t, x.IsZero(), "shl %d", n)
			assert.Equal(t, one, x.Shr(n), "shl/shr %d", n)
		}

		// A two-bit group straddling a word boundary stays intact.
		if bits > 64 {
			x := zero.FromUint64(3).Shl(63)
			assert.Equal(t, uint64(1)<<63, x.Low64())
			assert.Equal(t, zero.FromUint64(3), x.Shr(63))
			assert.Equal(t, zero.FromUint64(1), x.Shr(64))
		}

		assert.True(t, all.Shl(bits).IsZero())
		assert.True(t, all.Shr(bits).IsZero())
		assert.True(t, all.Shl(bits+7).IsZero())
		assert.Equal(t, one, all.Shr(bits-1))
	})

	t.Run("AddCarries", func(t *testing.T) {
		low := zero.Mask(64)
		sum := low.Add(one)
		if bits == 64 {
			assert.True(t, sum.IsZero())
		} else {
			assert.Equal(t, one.Shl(64), sum)
		}
		assert.True(t, all.Add(one).IsZero())
		assert.Equal(t, zero.FromUint64(5), zero.FromUint64(2).Add(zero.FromUint64(3)))
	})

	t.Run("Ordering", func(t *testing.T) {
		a := zero.FromUint64(7)
		b := zero.FromUint64(9)
		assert.Equal(t, -1, a.Compare(b))
		assert.Equal(t, 1, b.Compare(a))
		assert.Equal(t, 0, a.Compare(a))
		assert.True(t, a.Less(b))
		assert.False(t, b.Less(a))

		high := one.Shl(bits - 1)
		assert.True(t, high.Less(all))
		if bits > 64 {
			assert.True(t, zero.FromUint64(^uint64(0)).Less(one.Shl(64)))
		}
	})

	t.Run("Mask", func(t *testing.T) {
		assert.True(t, zero.Mask(0).IsZero())
		assert.Equal(t, all, zero.Mask(bits))
		assert.Equal(t, zero.FromUint64(0xF), zero.Mask(4))
		assert.Equal(t, one.Shl(bits-2).Add(all), zero.Mask(bits-2))
		if bits > 64 {
			m := zero.Mask(66)
			assert.Equal(t, ^uint64(0), m.Low64())
			assert.Equal(t, zero.FromUint64(3), m.Shr(64))
		}
	})

	t.Run("Reverse2", func(t *testing.T) {
		assert.Equal(t, one.Shl(bits-2), one.Reverse2())
		assert.Equal(t, zero.FromUint64(2).Shl(bits-2), zero.FromUint64(2).Reverse2())
		x := zero.FromUint64(0x1B).Shl(bits / 2).Or(zero.FromUint64(0xE4))
		assert.Equal(t, x, x.Reverse2().Reverse2())
		assert.Equal(t, all, all.Reverse2())
		// groups 0,1,2,3 (0b00011011) become 3,2,1,0 at the top.
		assert.Equal(t, zero.FromUint64(0xE4).Shl(bits-8), zero.FromUint64(0x1B).Reverse2())
	})

	t.Run("Hash", func(t *testing.T) {
		x := zero.FromUint64(42).Shl(bits / 2)
		assert.Equal(t, x.Hash(1), x.Hash(1))
		assert.NotEqual(t, x.Hash(1), x.Hash(2))
		assert.NotEqual(t, x.Hash(1), x.Add(one).Hash(1))
	})

	t.Run("String", func(t *testing.T) {
		s := one.String()
		assert.Len(t, s, int(bits/4))
		assert.Equal(t, byte('1'), s[len(s)-1])
	})
}
