package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/registry"
)

func TestPackUnpack_Facade(t *testing.T) {
	data, err := Pack([]any{int64(1), "two", true})
	require.NoError(t, err)

	got, err := Unpack(data)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), "two", true}, got)
}

func TestRegister_SingletonIdentity(t *testing.T) {
	sentinel := &struct{ name string }{name: "nil-like"}
	require.NoError(t, Register(registry.SingletonEntry{Name: "app.test.NIL", Value: sentinel}))

	data, err := Pack(sentinel)
	require.NoError(t, err)

	got, err := Unpack(data)
	require.NoError(t, err)
	require.Same(t, sentinel, got)
}

func TestDefaultRegistry_SharedAcrossCalls(t *testing.T) {
	require.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestUnpack_Map(t *testing.T) {
	data, err := Pack(map[string]any{})
	require.NoError(t, err)

	got, err := Unpack(data)
	require.NoError(t, err)
	require.Equal(t, 0, got.(*container.OrderedMap).Len())
}
