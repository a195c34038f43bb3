// Package endian provides the byte-order engine used by the writer and
// reader packages.
//
// It extends Go's standard encoding/binary package by combining the
// ByteOrder and AppendByteOrder interfaces into a single EndianEngine,
// which lets writer.Writer append multi-byte primitives without the extra
// allocation a bare ByteOrder.PutUint64 + append would need.
//
// # Basic Usage
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint64(buf, value)
//
// MessagePack fixes the wire byte order to big-endian (spec.md §6); this
// package keeps the engine abstraction anyway so writer/reader stay
// decoupled from encoding/binary, the way the teacher's blob encoders stay
// decoupled from any one byte order.
//
// # Thread Safety
//
// EndianEngine values are immutable and stateless, safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte-order operations.
//
// binary.BigEndian and binary.LittleEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine, the only byte order the
// MessagePack wire format uses.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
