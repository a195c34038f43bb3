// Package reader implements the codec's byte reader (spec.md §4.1,
// component B): it consumes big-endian primitives from a bounded slice
// while tracking a cursor, failing with errs.ErrTruncation on any read
// past the end.
package reader

import (
	"fmt"
	"math"

	"github.com/arloliu/msgpack/errs"
)

// Reader consumes bytes from a fixed slice, advancing an internal cursor.
// A Reader is NOT safe for concurrent use.
type Reader struct {
	data []byte
	pos  int
}

// New returns a Reader positioned at the start of data. data is not
// copied; the caller must not mutate it while the Reader is in use.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// require ensures n more bytes are available, returning a wrapped
// errs.ErrTruncation naming the offending offset otherwise.
func (r *Reader) require(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncation, n, r.pos, r.Remaining())
	}
	return nil
}

// ReadByte consumes and returns a single raw byte, typically a tag.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes consumes and returns the next n bytes. The returned slice
// aliases the Reader's backing array; callers that need to retain it past
// further Reader use should copy it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrDecode, n)
	}
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 consumes and returns an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	return r.ReadByte()
}

// ReadU16 consumes and returns a big-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadU32 consumes and returns a big-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadU64 consumes and returns a big-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadI8 consumes and returns a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadI16 consumes and returns a big-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadI32 consumes and returns a big-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadI64 consumes and returns a big-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 consumes and returns an IEEE-754 binary32 float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 consumes and returns an IEEE-754 binary64 float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
