// Package keyhash implements the map-key hashing contract used by
// OrderedMap: it turns any "hashable" decoded value into a uint64 hash so
// OrderedMap can provide O(1) lookups while still iterating in decode
// order, pairing a hash index with an ordered slice.
//
// Only scalar, bytes, and string keys are hashable, matching spec.md §9's
// "Map key hashing" design note: sequences, mappings, and extension values
// are rejected with errs.ErrUnhashableKey, since the host has no defined
// hash for them.
package keyhash

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/msgpack/errs"
)

// kind discriminants prevent values of different wire categories from
// colliding on the same hash bucket, e.g. int64(1), uint64(1), and 1.0
// are distinct keys under Go equality even though Python would consider
// them equal.
const (
	kindNil byte = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindString
	kindBytes
	kindComplex
)

// Of computes the hash of v under the hashing contract OrderedMap relies
// on. It returns errs.ErrUnhashableKey for sequences, mappings, and
// extension values.
func Of(v any) (uint64, error) {
	switch x := v.(type) {
	case nil:
		return xxhash.Sum64([]byte{kindNil}), nil
	case bool:
		b := byte(0)
		if x {
			b = 1
		}
		return xxhash.Sum64([]byte{kindBool, b}), nil
	case int:
		return hashInt(int64(x)), nil
	case int8:
		return hashInt(int64(x)), nil
	case int16:
		return hashInt(int64(x)), nil
	case int32:
		return hashInt(int64(x)), nil
	case int64:
		return hashInt(x), nil
	case uint:
		return hashUint(uint64(x)), nil
	case uint8:
		return hashUint(uint64(x)), nil
	case uint16:
		return hashUint(uint64(x)), nil
	case uint32:
		return hashUint(uint64(x)), nil
	case uint64:
		return hashUint(x), nil
	case float32:
		return hashFloat(float64(x)), nil
	case float64:
		return hashFloat(x), nil
	case complex64:
		return hashComplex(complex128(x)), nil
	case complex128:
		return hashComplex(x), nil
	case string:
		return xxhash.Sum64String(x) ^ kindSalt(kindString), nil
	case []byte:
		return xxhash.Sum64(x) ^ kindSalt(kindBytes), nil
	default:
		return 0, errs.ErrUnhashableKey
	}
}

// kindSalt mixes a discriminant into a hash so that, e.g., the string "a"
// and the bytes "a" never collide on the same bucket.
func kindSalt(k byte) uint64 {
	return uint64(k) * 0x9e3779b97f4a7c15
}

func hashInt(v int64) uint64 {
	var buf [9]byte
	buf[0] = kindInt
	putUint64(buf[1:], uint64(v))
	return xxhash.Sum64(buf[:])
}

func hashUint(v uint64) uint64 {
	var buf [9]byte
	buf[0] = kindUint
	putUint64(buf[1:], v)
	return xxhash.Sum64(buf[:])
}

func hashFloat(v float64) uint64 {
	var buf [9]byte
	buf[0] = kindFloat
	putUint64(buf[1:], math.Float64bits(v))
	return xxhash.Sum64(buf[:])
}

func hashComplex(v complex128) uint64 {
	var buf [17]byte
	buf[0] = kindComplex
	putUint64(buf[1:9], math.Float64bits(real(v)))
	putUint64(buf[9:17], math.Float64bits(imag(v)))
	return xxhash.Sum64(buf[:])
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

// Hashable reports whether v's dynamic type is one keyhash.Of accepts.
func Hashable(v any) bool {
	_, err := Of(v)
	return err == nil
}
