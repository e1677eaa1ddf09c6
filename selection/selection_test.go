package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_IntInRange_Deterministic(t *testing.T) {
	t.Parallel()

	buf := []byte{0x00, 0x05, 0xFF}
	c1 := NewCursor(buf)
	c2 := NewCursor(append([]byte(nil), buf...))

	for i := 0; i < 3; i++ {
		v1, err1 := c1.IntInRange(0, 10)
		v2, err2 := c2.IntInRange(0, 10)
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Equal(t, v1, v2, "same buffer + same call sequence must produce identical choices")
	}
}

func TestCursor_IntInRange_DegenerateRange(t *testing.T) {
	t.Parallel()

	c := NewCursor(nil)
	v, err := c.IntInRange(7, 7)
	require.NoError(t, err, "a degenerate range never touches the buffer")
	require.Equal(t, 7, v)
}

func TestCursor_TooShortBuffer_ReturnsErrOutOfData(t *testing.T) {
	t.Parallel()

	c := NewCursor(nil)
	_, err := c.IntInRange(0, 10)
	require.ErrorIs(t, err, ErrOutOfData)
}

func TestCursor_PartiallyAvailable_PadsInsteadOfErroring(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x01})
	v, err := c.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0100), v)

	_, err = c.Uint8()
	require.ErrorIs(t, err, ErrOutOfData, "a fully drained cursor is a hard stop")
}

func TestChoose_EmptySlice_Errors(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x00})
	_, err := Choose(c, []int{})
	require.Error(t, err)
}

func TestChoose_PicksAnElement(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x02})
	items := []string{"a", "b", "c"}
	got, err := Choose(c, items)
	require.NoError(t, err)
	require.Contains(t, items, got)
}

func TestRatio_AllOrNothing(t *testing.T) {
	t.Parallel()

	always, err := NewCursor([]byte{0x00}).Ratio(1, 1)
	require.NoError(t, err)
	require.True(t, always)

	never, err := NewCursor([]byte{0x00}).Ratio(0, 1)
	require.NoError(t, err)
	require.False(t, never)
}

func TestRatio_InvalidArguments(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x00})
	_, err := c.Ratio(2, 1)
	require.Error(t, err)
}

func TestNewRandomNumber_ValidatesOrdering(t *testing.T) {
	t.Parallel()

	_, err := NewRandomNumber(5, 2, 10)
	require.Error(t, err)

	rn, err := NewRandomNumber(0, 4, 20)
	require.NoError(t, err)
	require.Equal(t, RandomNumber{Min: 0, Target: 4, Max: 20}, rn)
}

func TestRandomNumber_Select_StaysWithinBounds(t *testing.T) {
	t.Parallel()

	rn, err := NewRandomNumber(1, 4, 30)
	require.NoError(t, err)

	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = byte(i * 37)
	}
	c := NewCursor(buf)

	for i := 0; i < 200; i++ {
		v, err := rn.Select(c)
		if err != nil {
			break
		}
		require.GreaterOrEqual(t, v, rn.Min)
		require.LessOrEqual(t, v, rn.Max)
	}
}

func TestUint128AndUint256_ConsumeFullWidth(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = 0xFF
	}
	c := NewCursor(buf)

	v128, err := c.Uint128()
	require.NoError(t, err)
	require.Equal(t, 16, (v128.BitLen()+7)/8)

	v256, err := c.Uint256()
	require.NoError(t, err)
	require.Equal(t, 32, (v256.BitLen()+7)/8)
}
