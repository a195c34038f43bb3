package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	b := NewBuffer([]byte("abc"))
	require.Equal(t, []byte("abc"), b.Bytes())

	var nilBuf *Buffer
	require.Nil(t, nilBuf.Bytes())
}

func TestList(t *testing.T) {
	l := NewList([]any{1, "two", 3.0})
	require.Equal(t, 3, l.Len())

	var nilList *List
	require.Equal(t, 0, nilList.Len())
}

func TestSet_AddContainsDedup(t *testing.T) {
	s, err := NewSet(1, 2, 2, "x")
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	require.True(t, s.Contains(1))
	require.True(t, s.Contains("x"))
	require.False(t, s.Contains("y"))
}

func TestSet_RejectsUnhashable(t *testing.T) {
	_, err := NewSet([]any{1})
	require.Error(t, err)
}

func TestFrozenSet(t *testing.T) {
	fs, err := NewFrozenSet(1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 3, fs.Len())
	require.True(t, fs.Contains(2))
}

func TestOrderedMap_SetGetPreservesOrder(t *testing.T) {
	m := NewOrderedMap()
	require.NoError(t, m.Set("b", 2))
	require.NoError(t, m.Set("a", 1))
	require.NoError(t, m.Set("b", 20)) // update, position unchanged

	require.Equal(t, 2, m.Len())

	pairs := m.Pairs()
	require.Equal(t, "b", pairs[0].Key)
	require.Equal(t, 20, pairs[0].Value)
	require.Equal(t, "a", pairs[1].Key)

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestOrderedMap_BytesKeys(t *testing.T) {
	m := NewOrderedMap()
	require.NoError(t, m.Set([]byte("k"), "v1"))
	v, ok := m.Get([]byte("k"))
	require.True(t, ok)
	require.Equal(t, "v1", v)

	// string "k" is a distinct key from bytes "k" by design.
	_, ok = m.Get("k")
	require.False(t, ok)
}

func TestOrderedMap_RejectsUnhashableKey(t *testing.T) {
	m := NewOrderedMap()
	err := m.Set([]any{1}, "x")
	require.Error(t, err)
}
