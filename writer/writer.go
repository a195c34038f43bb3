// Package writer implements the codec's byte writer (spec.md §4.1,
// component A): it appends big-endian primitives to a pooled, growable
// buffer.
package writer

import (
	"math"

	"github.com/arloliu/msgpack/endian"
	"github.com/arloliu/msgpack/internal/pool"
)

// Writer appends MessagePack primitives to an internal buffer. A Writer is
// NOT safe for concurrent use; each Writer is owned by one caller for its
// duration, obtained from Get and returned with Release.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// Get returns a Writer backed by a pooled buffer. Callers must call
// Release when done, typically via defer, to return the buffer to the
// pool.
func Get() *Writer {
	return &Writer{
		buf:    pool.GetMessageBuffer(),
		engine: endian.GetBigEndianEngine(),
	}
}

// Release returns the Writer's buffer to the pool. The Writer must not be
// used after calling Release.
func (w *Writer) Release() {
	pool.PutMessageBuffer(w.buf)
	w.buf = nil
}

// Bytes returns a copy of the bytes written so far. The caller owns the
// returned slice; it does not alias the Writer's internal buffer, so it
// remains valid after Release.
func (w *Writer) Bytes() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	return out
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteByte appends a single raw byte, typically a tag.
func (w *Writer) WriteByte(b byte) {
	w.buf.MustWriteByte(b)
}

// WriteBytes appends data verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.MustWrite(data)
}

// WriteU8 appends v as a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.MustWriteByte(v)
}

// WriteU16 appends v as 2 big-endian bytes.
func (w *Writer) WriteU16(v uint16) {
	w.buf.Grow(2)
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// WriteU32 appends v as 4 big-endian bytes.
func (w *Writer) WriteU32(v uint32) {
	w.buf.Grow(4)
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// WriteU64 appends v as 8 big-endian bytes.
func (w *Writer) WriteU64(v uint64) {
	w.buf.Grow(8)
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// WriteI8 appends v as a single byte.
func (w *Writer) WriteI8(v int8) {
	w.buf.MustWriteByte(byte(v))
}

// WriteI16 appends v as 2 big-endian bytes.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteI32 appends v as 4 big-endian bytes.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteI64 appends v as 8 big-endian bytes.
func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteF32 appends v as 4 big-endian bytes (IEEE-754 binary32).
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 appends v as 8 big-endian bytes (IEEE-754 binary64).
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}
