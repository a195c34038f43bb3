package unpack

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
	"github.com/arloliu/msgpack/pack"
)

func TestUnpack_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want any
	}{
		{"nil", []byte{0xc0}, nil},
		{"true", []byte{0xc3}, true},
		{"false", []byte{0xc2}, false},
		{"127", []byte{0x7f}, int64(127)},
		{"128", []byte{0xcc, 0x80}, uint64(128)},
		{"-32", []byte{0xe0}, int64(-32)},
		{"-33", []byte{0xd0, 0xdf}, int64(-33)},
		{"empty string", []byte{0xa0}, ""},
		{"a", []byte{0xa1, 0x61}, "a"},
		{"bytes", []byte{0xc4, 0x02, 0x00, 0x01}, []byte{0x00, 0x01}},
		{"empty array", []byte{0x90}, []any{}},
		{"array", []byte{0x92, 0x01, 0x02}, []any{int64(1), int64(2)}},
		{"1.0", []byte{0xcb, 0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Unpack(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestUnpack_EmptyMap(t *testing.T) {
	got, err := Unpack([]byte{0x80})
	require.NoError(t, err)
	require.Equal(t, 0, got.(*container.OrderedMap).Len())
}

func TestUnpack_Map(t *testing.T) {
	got, err := Unpack([]byte{0x82, 0xa1, 'b', 0x02, 0xa1, 'a', 0x01})
	require.NoError(t, err)
	om := got.(*container.OrderedMap)
	require.Equal(t, 2, om.Len())
	v, ok := om.Get("b")
	require.True(t, ok)
	require.Equal(t, int64(2), v)
	require.Equal(t, "b", om.Pairs()[0].Key) // decode order preserved
}

func TestUnpack_ReservedTag(t *testing.T) {
	_, err := Unpack([]byte{0xc1})
	require.True(t, errors.Is(err, errs.ErrInvalidType))
}

func TestUnpack_InvalidExtensionTag(t *testing.T) {
	_, err := Unpack([]byte{0xd4, 0x00, 0xff})
	require.True(t, errors.Is(err, errs.ErrInvalidExtension))
}

func TestUnpack_Truncated(t *testing.T) {
	_, err := Unpack([]byte{0xcc})
	require.True(t, errors.Is(err, errs.ErrTruncation))
}

func TestUnpack_InvalidUTF8(t *testing.T) {
	_, err := Unpack([]byte{0xa1, 0xff})
	require.True(t, errors.Is(err, errs.ErrDecode))
}

func TestUnpack_TrailingBytesIgnored(t *testing.T) {
	got, err := Unpack([]byte{0xc0, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUnpack_DepthExceeded(t *testing.T) {
	_, err := Unpack([]byte{0x90}, WithDepthLimit(-1))
	require.True(t, errors.Is(err, errs.ErrDepthExceeded))
}

func TestUnpack_IntegerBoundaries(t *testing.T) {
	cases := []struct {
		in   []byte
		want any
	}{
		{[]byte{0xcc, 0xff}, uint64(255)},
		{[]byte{0xcd, 0xff, 0xff}, uint64(65535)},
		{[]byte{0xce, 0xff, 0xff, 0xff, 0xff}, uint64(math.MaxUint32)},
		{[]byte{0xcf, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, uint64(math.MaxUint64)},
		{[]byte{0xd0, 0x80}, int64(-128)},
		{[]byte{0xd1, 0x80, 0x00}, int64(math.MinInt16)},
	}

	for _, tc := range cases {
		got, err := Unpack(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

// TestUnpack_NaNBitPattern verifies NaN round-trips bit-for-bit, per spec's
// relaxed equality requirement for NaN payloads.
func TestUnpack_NaNBitPattern(t *testing.T) {
	encoded, err := pack.Pack(math.NaN())
	require.NoError(t, err)

	got, err := Unpack(encoded)
	require.NoError(t, err)
	require.Equal(t, math.Float64bits(math.NaN()), math.Float64bits(got.(float64)))
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	values := []any{
		nil, true, false,
		int64(0), int64(-32), int64(-33), int64(127), uint64(128),
		"", "hello", []byte{1, 2, 3},
		[]any{int64(1), "two", 3.0},
		1.0, -1.5,
	}

	for _, v := range values {
		encoded, err := pack.Pack(v)
		require.NoError(t, err)

		got, err := Unpack(encoded)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPackUnpack_NestedArrayDepth(t *testing.T) {
	encoded, err := pack.Pack([]any{[]any{[]any{int64(1)}}})
	require.NoError(t, err)

	got, err := Unpack(encoded)
	require.NoError(t, err)
	require.Equal(t, []any{[]any{[]any{int64(1)}}}, got)
}
