// Package archive wraps pack/unpack with whole-message compression
// (spec.md §4.2's bytes framing is untouched; this sits one layer above
// it). A compressed archive is a 1-byte codec id followed by the
// compressed MessagePack stream produced by the pack package — the
// MessagePack bytes themselves never change shape, so a reader that
// decompresses out-of-band sees byte-identical output to an uncompressed
// pack.Pack call.
package archive

import (
	"fmt"

	"github.com/arloliu/msgpack/pack"
	"github.com/arloliu/msgpack/unpack"
)

// CodecID selects the whole-message compression algorithm, numbered the
// way the teacher's format.CompressionType enumerates its codecs.
type CodecID uint8

const (
	CodecNone CodecID = 0x01
	CodecZstd CodecID = 0x02
	CodecS2   CodecID = 0x03
	CodecLZ4  CodecID = 0x04
)

func (c CodecID) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecZstd:
		return "Zstd"
	case CodecS2:
		return "S2"
	case CodecLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor compresses a fully-encoded MessagePack stream.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[CodecID]Codec{
	CodecNone: NoopCodec{},
	CodecZstd: ZstdCodec{},
	CodecS2:   S2Codec{},
	CodecLZ4:  LZ4Codec{},
}

// GetCodec retrieves the built-in Codec for id.
func GetCodec(id CodecID) (Codec, error) {
	c, ok := builtinCodecs[id]
	if !ok {
		return nil, fmt.Errorf("archive: unknown codec id 0x%02x", byte(id))
	}

	return c, nil
}

// Pack encodes v with pack.Pack, compresses the result with codec, and
// prefixes it with a 1-byte codec id so Unpack can recover the right
// decompressor.
func Pack(v any, codec CodecID, opts ...pack.Option) ([]byte, error) {
	c, err := GetCodec(codec)
	if err != nil {
		return nil, err
	}

	encoded, err := pack.Pack(v, opts...)
	if err != nil {
		return nil, err
	}

	compressed, err := c.Compress(encoded)
	if err != nil {
		return nil, fmt.Errorf("archive: compress: %w", err)
	}

	out := make([]byte, 0, len(compressed)+1)
	out = append(out, byte(codec))
	out = append(out, compressed...)

	return out, nil
}

// Unpack reads the codec id prefix, decompresses the remainder, and
// unpacks the recovered MessagePack stream.
func Unpack(data []byte, opts ...unpack.Option) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("archive: empty archive")
	}

	c, err := GetCodec(CodecID(data[0]))
	if err != nil {
		return nil, err
	}

	decompressed, err := c.Decompress(data[1:])
	if err != nil {
		return nil, fmt.Errorf("archive: decompress: %w", err)
	}

	return unpack.Unpack(decompressed, opts...)
}
