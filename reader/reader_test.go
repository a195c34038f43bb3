package reader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msgpack/errs"
)

func TestReader_Primitives(t *testing.T) {
	data := []byte{
		0xc0,
		0xff,
		0x01, 0x02,
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	r := New(data)

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xc0), b)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	require.Equal(t, 1.0, f64)

	require.Equal(t, 0, r.Remaining())
}

func TestReader_Truncation(t *testing.T) {
	r := New([]byte{0x01})
	_, err := r.ReadU16()
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrTruncation))
}

func TestReader_Signed(t *testing.T) {
	r := New([]byte{0xff, 0xff, 0xff, 0xff})
	i8, err := r.ReadI8()
	require.NoError(t, err)
	require.Equal(t, int8(-1), i8)

	r2 := New([]byte{0xff, 0xff})
	i16, err := r2.ReadI16()
	require.NoError(t, err)
	require.Equal(t, int16(-1), i16)
}

func TestReader_PosAndLen(t *testing.T) {
	r := New([]byte{1, 2, 3})
	require.Equal(t, 3, r.Len())
	_, _ = r.ReadByte()
	require.Equal(t, 1, r.Pos())
	require.Equal(t, 2, r.Remaining())
}
