// Package unpack implements the codec's unpacker (spec.md §4.3,
// component F): reading one framed MessagePack value from a byte slice,
// recursively decoding containers and dispatching extension records.
package unpack

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
	"github.com/arloliu/msgpack/ext"
	"github.com/arloliu/msgpack/internal/options"
	"github.com/arloliu/msgpack/reader"
	"github.com/arloliu/msgpack/registry"
	"github.com/arloliu/msgpack/wire"
)

// DefaultDepthLimit bounds container recursion depth (spec.md §4.3, §9).
const DefaultDepthLimit = 512

// maxPreallocatedElements caps how large an array/map's backing slice is
// preallocated from a length header, so a crafted header can't force a
// huge allocation before truncation is detected; legitimate large
// containers still decode correctly, they just grow the slice as they go.
const maxPreallocatedElements = 1024

// Unpacker reads one framed value at a time, recursing through containers
// and extension records. The zero value is not usable; construct one
// with NewUnpacker. An Unpacker is safe to reuse across calls but is NOT
// safe for concurrent use.
type Unpacker struct {
	reg        *registry.Registry
	depthLimit int
}

// Option configures an Unpacker.
type Option = options.Option[*Unpacker]

// WithRegistry sets the class/singleton registry consulted when decoding
// extension values. The default is an empty registry.
func WithRegistry(reg *registry.Registry) Option {
	return options.NoError(func(u *Unpacker) { u.reg = reg })
}

// WithDepthLimit overrides the recursion depth cap. The default is
// DefaultDepthLimit.
func WithDepthLimit(n int) Option {
	return options.NoError(func(u *Unpacker) { u.depthLimit = n })
}

// NewUnpacker builds an Unpacker from opts.
func NewUnpacker(opts ...Option) (*Unpacker, error) {
	u := &Unpacker{reg: registry.New(), depthLimit: DefaultDepthLimit}
	if err := options.Apply(u, opts...); err != nil {
		return nil, err
	}

	return u, nil
}

// Unpack decodes exactly one framed value starting at offset 0 of data.
// Trailing bytes are ignored, per spec.md §4.3.
func (u *Unpacker) Unpack(data []byte) (any, error) {
	r := reader.New(data)
	return u.UnpackValue(r, 0)
}

// Unpack decodes data using a one-shot Unpacker built from opts.
func Unpack(data []byte, opts ...Option) (any, error) {
	u, err := NewUnpacker(opts...)
	if err != nil {
		return nil, err
	}

	return u.Unpack(data)
}

// UnpackValue reads one framed value from r, recursing through child
// values at depth+1. Unpacker implements ext.ValueUnpacker via this
// method, so extension payloads that nest further values call back here.
func (u *Unpacker) UnpackValue(r *reader.Reader, depth int) (any, error) {
	if depth > u.depthLimit {
		return nil, errs.ErrDepthExceeded
	}

	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b <= wire.PositiveFixintMax:
		return int64(b), nil
	case b >= wire.NegativeFixintMin:
		return int64(int8(b)), nil
	case b >= wire.FixmapTag && b <= wire.FixmapMax:
		return u.unpackMap(r, int(b&0x0f), depth)
	case b >= wire.FixarrayTag && b <= wire.FixarrayMax:
		return u.unpackArray(r, int(b&0x0f), depth)
	case b >= wire.FixstrTag && b <= wire.FixstrMax:
		return u.unpackString(r, int(b&0x1f))
	}

	switch wire.Tag(b) {
	case wire.Nil:
		return nil, nil
	case wire.NeverUsed:
		return nil, fmt.Errorf("%w: reserved tag 0xc1", errs.ErrInvalidType)
	case wire.False:
		return false, nil
	case wire.True:
		return true, nil
	case wire.Bin8:
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return u.unpackBytes(r, int(n))
	case wire.Bin16:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return u.unpackBytes(r, int(n))
	case wire.Bin32:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return u.unpackBytes(r, int(n))
	case wire.Ext8:
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return u.unpackExt(r, int(n), depth)
	case wire.Ext16:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return u.unpackExt(r, int(n), depth)
	case wire.Ext32:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return u.unpackExt(r, int(n), depth)
	case wire.Float32:
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return float64(v), nil
	case wire.Float64:
		return r.ReadF64()
	case wire.Uint8:
		v, err := r.ReadU8()
		return uint64(v), err
	case wire.Uint16:
		v, err := r.ReadU16()
		return uint64(v), err
	case wire.Uint32:
		v, err := r.ReadU32()
		return uint64(v), err
	case wire.Uint64:
		return r.ReadU64()
	case wire.Int8:
		v, err := r.ReadI8()
		return int64(v), err
	case wire.Int16:
		v, err := r.ReadI16()
		return int64(v), err
	case wire.Int32:
		v, err := r.ReadI32()
		return int64(v), err
	case wire.Int64:
		return r.ReadI64()
	case wire.FixExt1, wire.FixExt2, wire.FixExt4, wire.FixExt8, wire.FixExt16:
		return u.unpackExt(r, wire.FixextSize(wire.Tag(b)), depth)
	case wire.Str8:
		n, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return u.unpackString(r, int(n))
	case wire.Str16:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return u.unpackString(r, int(n))
	case wire.Str32:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return u.unpackString(r, int(n))
	case wire.Array16:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return u.unpackArray(r, int(n), depth)
	case wire.Array32:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return u.unpackArray(r, int(n), depth)
	case wire.Map16:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return u.unpackMap(r, int(n), depth)
	case wire.Map32:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return u.unpackMap(r, int(n), depth)
	default:
		return nil, fmt.Errorf("%w: unknown tag 0x%02x", errs.ErrInvalidType, b)
	}
}

func capHint(n int) int {
	if n > maxPreallocatedElements {
		return maxPreallocatedElements
	}
	return n
}

func (u *Unpacker) unpackArray(r *reader.Reader, n int, depth int) ([]any, error) {
	items := make([]any, 0, capHint(n))
	for i := 0; i < n; i++ {
		v, err := u.UnpackValue(r, depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}

	return items, nil
}

func (u *Unpacker) unpackMap(r *reader.Reader, n int, depth int) (*container.OrderedMap, error) {
	om := container.NewOrderedMap()
	for i := 0; i < n; i++ {
		k, err := u.UnpackValue(r, depth+1)
		if err != nil {
			return nil, err
		}
		v, err := u.UnpackValue(r, depth+1)
		if err != nil {
			return nil, err
		}
		if err := om.Set(k, v); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecode, err)
		}
	}

	return om, nil
}

func (u *Unpacker) unpackBytes(r *reader.Reader, n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

func (u *Unpacker) unpackString(r *reader.Reader, n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid utf-8 in string payload", errs.ErrDecode)
	}

	return string(b), nil
}

func (u *Unpacker) unpackExt(r *reader.Reader, size int, depth int) (any, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	tag := wire.ExtTag(tagByte)
	if !tag.InReservedRange() {
		return nil, fmt.Errorf("%w: tag 0x%02x", errs.ErrInvalidExtension, tagByte)
	}

	payload, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}

	return ext.Decode(u, u.reg, tag, payload, depth)
}
