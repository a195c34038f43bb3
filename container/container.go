// Package container holds the host-language collection types the codec's
// extension protocol carries: a mutable byte buffer, a mutable sequence, an
// unordered set, a frozen set, and an order-preserving map. The first four
// each correspond to one row of the extension subtype table in spec.md §3;
// the order-preserving map is the decoded form of the primary mapping
// category.
package container

import (
	"bytes"

	"github.com/arloliu/msgpack/internal/keyhash"
)

// Buffer is a mutable byte buffer, carried as EXT tag 0x02. It is distinct
// from the plain []byte Bytes primary category: Bytes packs to bin8/16/32,
// Buffer packs to an extension record.
type Buffer struct {
	B []byte
}

// NewBuffer wraps b as a mutable buffer. b is not copied.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{B: b}
}

// Bytes returns the buffer's contents.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.B
}

// List is a mutable sequence, carried as EXT tag 0x03. It is distinct from
// the plain []any Sequence primary category, which packs as a bare
// MessagePack array.
type List struct {
	Items []any
}

// NewList wraps items as a mutable list. items is not copied.
func NewList(items []any) *List {
	return &List{Items: items}
}

// Len returns the number of items in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Set is an unordered collection of distinct, hashable elements, carried as
// EXT tag 0x04. Insertion order is preserved for re-encoding even though the
// type models an unordered collection, the same way OrderedMap preserves
// decode order for maps: it makes round-tripping deterministic without
// claiming the host's set has an order.
type Set struct {
	order []any
	index map[uint64][]int
}

// FrozenSet stands for the immutable counterpart of Set, carried as EXT tag
// 0x05. It embeds Set, so Set's methods, Add included, remain callable on
// it; the two are kept as distinct Go types so the packer can tell them
// apart when choosing an ext tag.
type FrozenSet struct {
	Set
}

// NewSet builds a Set from items, rejecting unhashable elements and
// silently deduplicating exact repeats (matching Python set semantics).
func NewSet(items ...any) (*Set, error) {
	s := &Set{index: make(map[uint64][]int, len(items))}
	for _, item := range items {
		if err := s.Add(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewFrozenSet builds a FrozenSet from items the same way NewSet does.
func NewFrozenSet(items ...any) (*FrozenSet, error) {
	s, err := NewSet(items...)
	if err != nil {
		return nil, err
	}
	return &FrozenSet{Set: *s}, nil
}

// Add inserts v into the set if not already present. It returns
// errs.ErrUnhashableKey if v is a sequence, mapping, or extension value.
func (s *Set) Add(v any) error {
	h, err := keyhash.Of(v)
	if err != nil {
		return err
	}

	for _, idx := range s.index[h] {
		if valuesEqual(s.order[idx], v) {
			return nil // already present
		}
	}

	s.index[h] = append(s.index[h], len(s.order))
	s.order = append(s.order, v)

	return nil
}

// Contains reports whether v is a member of the set.
func (s *Set) Contains(v any) bool {
	h, err := keyhash.Of(v)
	if err != nil {
		return false
	}

	for _, idx := range s.index[h] {
		if valuesEqual(s.order[idx], v) {
			return true
		}
	}

	return false
}

// Items returns the set's elements in insertion order. The returned slice
// must not be mutated.
func (s *Set) Items() []any {
	return s.order
}

// Len returns the number of elements in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Pair is a single (key, value) entry of an OrderedMap.
type Pair struct {
	Key   any
	Value any
}

// OrderedMap is a mapping that preserves insertion (on encode) or decode
// (on decode) order, backed by a keyhash-indexed lookup so Get is O(1)
// despite the ordered iteration. This is the same pairing the teacher's
// internal/collision.Tracker uses: a hash-keyed index plus an ordered
// slice, one for fast lookup, one for stable iteration.
type OrderedMap struct {
	pairs []Pair
	index map[uint64][]int
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[uint64][]int)}
}

// Set inserts or updates the value for key, preserving key's original
// position if it was already present. It returns errs.ErrUnhashableKey if
// key is a sequence, mapping, or extension value.
func (m *OrderedMap) Set(key, value any) error {
	h, err := keyhash.Of(key)
	if err != nil {
		return err
	}

	for _, idx := range m.index[h] {
		if valuesEqual(m.pairs[idx].Key, key) {
			m.pairs[idx].Value = value
			return nil
		}
	}

	m.index[h] = append(m.index[h], len(m.pairs))
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})

	return nil
}

// Get looks up key, returning ok=false if absent.
func (m *OrderedMap) Get(key any) (any, bool) {
	h, err := keyhash.Of(key)
	if err != nil {
		return nil, false
	}

	for _, idx := range m.index[h] {
		if valuesEqual(m.pairs[idx].Key, key) {
			return m.pairs[idx].Value, true
		}
	}

	return nil, false
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.pairs)
}

// Pairs returns the map's entries in order. The returned slice must not be
// mutated.
func (m *OrderedMap) Pairs() []Pair {
	return m.pairs
}

// valuesEqual compares two values accepted by keyhash.Of. []byte is not
// comparable with ==, every other accepted kind is.
func valuesEqual(a, b any) bool {
	ab, aIsBytes := a.([]byte)
	bb, bIsBytes := b.([]byte)
	if aIsBytes || bIsBytes {
		if aIsBytes != bIsBytes {
			return false
		}
		return bytes.Equal(ab, bb)
	}

	return a == b
}
