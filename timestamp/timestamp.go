// Package timestamp implements the MessagePack timestamp extension
// (EXT tag -1 / 0xff, spec.md §4.6), the host-visible counterpart of
// Python's msgpack.Timestamp.fromtimestamp/timestamp() pair exercised by
// the original implementation's test suite.
package timestamp

import (
	"fmt"

	"github.com/arloliu/msgpack/errs"
)

// Timestamp is a (seconds, nanoseconds) pair. Nanoseconds must be in
// [0, 999_999_999]; Seconds may be any int64, including negative values
// for instants before the Unix epoch.
type Timestamp struct {
	Seconds     int64
	Nanoseconds uint32
}

const maxNanoseconds = 999_999_999

// FromComponents validates and constructs a Timestamp.
func FromComponents(seconds int64, nanoseconds uint32) (Timestamp, error) {
	if nanoseconds > maxNanoseconds {
		return Timestamp{}, fmt.Errorf("%w: nanoseconds %d out of [0, 1e9) range", errs.ErrDecode, nanoseconds)
	}
	return Timestamp{Seconds: seconds, Nanoseconds: nanoseconds}, nil
}

// FromUnix builds a Timestamp from a fractional Unix timestamp, the Go
// equivalent of Timestamp.fromtimestamp(seconds_float) in the original.
func FromUnix(seconds float64) Timestamp {
	whole := int64(seconds)
	frac := seconds - float64(whole)
	if frac < 0 {
		// Keep nanoseconds non-negative by borrowing a second, matching
		// floor-division semantics for negative instants.
		frac += 1
		whole--
	}
	ns := uint32(frac*1e9 + 0.5)
	if ns > maxNanoseconds {
		ns = maxNanoseconds
	}
	return Timestamp{Seconds: whole, Nanoseconds: ns}
}

// ToUnix returns the timestamp as a fractional Unix timestamp, the Go
// equivalent of Timestamp.timestamp() in the original.
func (t Timestamp) ToUnix() float64 {
	return float64(t.Seconds) + float64(t.Nanoseconds)/1e9
}

// fitsUint34 reports whether seconds fits in the unsigned 34-bit range the
// compact 4- and 8-byte timestamp forms use.
func fitsUint34(seconds int64) bool {
	return seconds >= 0 && seconds <= (1<<34)-1
}

// Encode returns the EXT payload for t, choosing the shortest of the three
// forms spec.md §4.6 allows:
//
//   - 4 bytes: seconds fits in u32, nanoseconds is zero.
//   - 8 bytes: seconds fits in the 34-bit range and the 4-byte form does
//     not apply (nanoseconds is nonzero, or seconds exceeds u32).
//   - 12 bytes: seconds falls outside the 34-bit range.
func (t Timestamp) Encode() []byte {
	if fitsUint34(t.Seconds) && t.Nanoseconds == 0 && t.Seconds <= 0xffffffff {
		payload := make([]byte, 4)
		putU32(payload, uint32(t.Seconds))
		return payload
	}

	if fitsUint34(t.Seconds) {
		v := uint64(t.Nanoseconds)<<34 | uint64(t.Seconds)
		payload := make([]byte, 8)
		putU64(payload, v)
		return payload
	}

	payload := make([]byte, 12)
	putU32(payload[0:4], t.Nanoseconds)
	putU64(payload[4:12], uint64(t.Seconds))
	return payload
}

// Decode parses an EXT 0xff payload of 4, 8, or 12 bytes, returning
// errs.ErrDecode for any other length or for nanoseconds outside
// [0, 999_999_999].
func Decode(payload []byte) (Timestamp, error) {
	switch len(payload) {
	case 4:
		return Timestamp{Seconds: int64(getU32(payload)), Nanoseconds: 0}, nil
	case 8:
		v := getU64(payload)
		return FromComponents(int64(v&((1<<34)-1)), uint32(v>>34))
	case 12:
		ns := getU32(payload[0:4])
		secs := int64(getU64(payload[4:12]))
		return FromComponents(secs, ns)
	default:
		return Timestamp{}, fmt.Errorf("%w: invalid timestamp payload size %d", errs.ErrDecode, len(payload))
	}
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}

func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
