package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU32RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	for _, v := range []uint32{0, 1, 42, 0xDEADBEEF, 0xFFFFFFFF} {
		for _, off := range []int{0, 4, 12} {
			require.NoError(t, WriteU32(buf, v, off))
			got, err := ReadU32(buf, off)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	}
}

func TestU64RoundTrip(t *testing.T) {
	buf := make([]byte, 33)
	for _, v := range []uint64{0, 1, 1 << 40, 0xFFFFFFFFFFFFFFFF} {
		require.NoError(t, WriteU64(buf, v, 9))
		got, err := ReadU64(buf, 9)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestU8RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	require.NoError(t, WriteU8(buf, 42, 0))
	got, err := ReadU8(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(42), got)
}

func TestWriteFailsOnShortBuffer(t *testing.T) {
	buf := make([]byte, 4)
	assert.ErrorIs(t, WriteU32(buf, 1, 1), ErrShortBuffer)
	assert.ErrorIs(t, WriteU64(make([]byte, 4), 1, 0), ErrShortBuffer)
	assert.ErrorIs(t, WriteU8(make([]byte, 0), 1, 0), ErrShortBuffer)
}

func TestReadFailsOnShortBuffer(t *testing.T) {
	buf := make([]byte, 4)
	_, err := ReadU32(buf, 1)
	assert.ErrorIs(t, err, ErrShortBuffer)
	_, err = ReadU64(make([]byte, 4), 0)
	assert.ErrorIs(t, err, ErrShortBuffer)
	_, err = ReadU8(make([]byte, 0), 0)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestCRC32MatchesStandardIEEETable(t *testing.T) {
	// Known IEEE CRC-32 vector for the ASCII string "123456789".
	got := CRC32([]byte("123456789"))
	assert.Equal(t, uint32(0xCBF43926), got)
}

func TestCRC32DetectsMutation(t *testing.T) {
	a := CRC32([]byte{1, 2, 3, 4})
	b := CRC32([]byte{1, 2, 3, 5})
	assert.NotEqual(t, a, b)
}
