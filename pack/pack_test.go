package pack

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
	"github.com/arloliu/msgpack/ext"
	"github.com/arloliu/msgpack/registry"
	"github.com/arloliu/msgpack/writer"
)

func TestPack_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []byte
	}{
		{"nil", nil, []byte{0xc0}},
		{"true", true, []byte{0xc3}},
		{"false", false, []byte{0xc2}},
		{"127", 127, []byte{0x7f}},
		{"128", 128, []byte{0xcc, 0x80}},
		{"-32", -32, []byte{0xe0}},
		{"-33", -33, []byte{0xd0, 0xdf}},
		{"empty string", "", []byte{0xa0}},
		{"a", "a", []byte{0xa1, 0x61}},
		{"bytes", []byte{0x00, 0x01}, []byte{0xc4, 0x02, 0x00, 0x01}},
		{"empty array", []any{}, []byte{0x90}},
		{"array", []any{1, 2}, []byte{0x92, 0x01, 0x02}},
		{"1.0", 1.0, []byte{0xcb, 0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pack(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPack_EmptyMap(t *testing.T) {
	m := map[string]any{}
	got, err := Pack(m)
	require.NoError(t, err)
	require.Equal(t, []byte{0x80}, got)
}

func TestPack_Complex(t *testing.T) {
	got, err := Pack(complex(1.0, 2.0))
	require.NoError(t, err)
	require.Len(t, got, 18) // fixext16 tag + ext tag + 16 byte payload
	require.Equal(t, byte(0xd8), got[0])
	require.Equal(t, byte(0x01), got[1])
}

func TestPack_IntegerBoundaries(t *testing.T) {
	cases := []struct {
		in        int64
		firstByte byte
	}{
		{-32, 0xe0},
		{-33, 0xd0},
		{-128, 0xd0},
		{-129, 0xd1},
		{-32768, 0xd1},
		{-32769, 0xd2},
		{math.MinInt32, 0xd2},
		{math.MinInt32 - 1, 0xd3},
		{0, 0x00},
		{127, 0x7f},
		{128, 0xcc},
		{255, 0xcc},
		{256, 0xcd},
		{65535, 0xcd},
		{65536, 0xce},
		{math.MaxUint32, 0xce},
	}

	for _, tc := range cases {
		got, err := Pack(tc.in)
		require.NoError(t, err)
		require.Equalf(t, tc.firstByte, got[0], "input %d", tc.in)
	}
}

func TestPack_Uint64Form(t *testing.T) {
	got, err := Pack(uint64(math.MaxUint32) + 1)
	require.NoError(t, err)
	require.Equal(t, byte(0xcf), got[0])
}

func TestPack_TypedSlice(t *testing.T) {
	got, err := Pack([]int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{0x93, 0x01, 0x02, 0x03}, got)
}

func TestPack_TypedByteSlice(t *testing.T) {
	type myBytes []byte
	got, err := Pack(myBytes{0xaa})
	require.NoError(t, err)
	require.Equal(t, []byte{0xc4, 0x01, 0xaa}, got)
}

func TestPack_OrderedMapPreservesOrder(t *testing.T) {
	m := container.NewOrderedMap()
	require.NoError(t, m.Set("b", 2))
	require.NoError(t, m.Set("a", 1))

	got, err := Pack(m)
	require.NoError(t, err)
	// fixmap(2), "b"->2, "a"->1, in insertion order
	require.Equal(t, []byte{0x82, 0xa1, 'b', 0x02, 0xa1, 'a', 0x01}, got)
}

func TestPack_NilPointer(t *testing.T) {
	var p *int
	got, err := Pack(p)
	require.NoError(t, err)
	require.Equal(t, []byte{0xc0}, got)
}

func TestPack_Buffer(t *testing.T) {
	buf := container.NewBuffer([]byte{1, 2})
	got, err := Pack(buf)
	require.NoError(t, err)
	require.Equal(t, byte(0xd5), got[0]) // fixext2
	require.Equal(t, byte(0x02), got[1]) // ExtBuffer
}

func TestPack_UnsupportedType(t *testing.T) {
	_, err := Pack(make(chan int))
	require.True(t, errors.Is(err, errs.ErrUnsupportedType))
}

func TestPack_WithRegistry_Singleton(t *testing.T) {
	reg := registry.New()
	sentinel := &struct{ x int }{}
	require.NoError(t, reg.Register(registry.SingletonEntry{Name: "app.NIL", Value: sentinel}))

	got, err := Pack(sentinel, WithRegistry(reg))
	require.NoError(t, err)
	// payload is the framed string "app.NIL" (fixstr tag + 7 bytes = 8
	// bytes total), one of the fixext sizes, so it frames as fixext8.
	require.Equal(t, byte(0xd7), got[0])
	require.Equal(t, byte(0x07), got[1]) // ExtSingleton
}

func TestPack_WithReducerFallback(t *testing.T) {
	type point struct{ x, y int }

	fallback := func(v any) (ext.Reduced, error) {
		p := v.(point)
		return ext.Construct(registry.ClassRef{Module: "app", Name: "Point"}, []any{p.x, p.y}), nil
	}

	got, err := Pack(point{1, 2}, WithReducerFallback(fallback))
	require.NoError(t, err)
	require.NotEmpty(t, got)
}

func TestPack_Overflow(t *testing.T) {
	// Directly exercise the overflow path via the internal header helper
	// since constructing a real 2^32-element slice is impractical in a test.
	w := writer.Get()
	defer w.Release()
	err := writeSequenceHeader(w, 1<<32)
	require.True(t, errors.Is(err, errs.ErrOverflow))
}
