// Package pack implements the codec's packer (spec.md §4.2, component E):
// type-dispatch of an input value to its minimal MessagePack wire form.
package pack

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
	"github.com/arloliu/msgpack/ext"
	"github.com/arloliu/msgpack/internal/options"
	"github.com/arloliu/msgpack/registry"
	"github.com/arloliu/msgpack/wire"
	"github.com/arloliu/msgpack/writer"
)

// ReducerFunc decomposes a host value this package has no primary or
// built-in extension handling for into a Reduced shape, the functional
// equivalent of implementing ext.Reducible without defining a named type.
type ReducerFunc func(v any) (ext.Reduced, error)

// Packer type-dispatches values to their wire form. The zero value is not
// usable; construct one with NewPacker. A Packer is safe to reuse across
// calls but is NOT safe for concurrent use.
type Packer struct {
	reg             *registry.Registry
	reducerFallback ReducerFunc
}

// Option configures a Packer.
type Option = options.Option[*Packer]

// WithRegistry sets the class/singleton registry consulted when encoding
// extension values. The default is an empty registry.
func WithRegistry(reg *registry.Registry) Option {
	return options.NoError(func(p *Packer) { p.reg = reg })
}

// WithReducerFallback installs a reducer invoked for values that match no
// primary category, no built-in extension type, and do not implement
// ext.Reducible directly.
func WithReducerFallback(fn ReducerFunc) Option {
	return options.NoError(func(p *Packer) { p.reducerFallback = fn })
}

// NewPacker builds a Packer from opts.
func NewPacker(opts ...Option) (*Packer, error) {
	p := &Packer{reg: registry.New()}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Pack encodes v to a new byte slice.
func (p *Packer) Pack(v any) ([]byte, error) {
	w := writer.Get()
	defer w.Release()

	if err := p.PackValue(w, v); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// Pack encodes v using a one-shot Packer built from opts.
func Pack(v any, opts ...Option) ([]byte, error) {
	p, err := NewPacker(opts...)
	if err != nil {
		return nil, err
	}

	return p.Pack(v)
}

// PackValue writes v's minimal wire form to w, dispatching by category in
// the precedence spec.md §4.2 requires: nil, bool, integer, float, bytes,
// string, sequence, mapping are primary; everything else routes through
// the extension protocol. Packer implements ext.ValuePacker via this
// method, so extension payloads that nest further values call back here.
func (p *Packer) PackValue(w *writer.Writer, v any) error {
	switch tv := v.(type) {
	case nil:
		w.WriteByte(byte(wire.Nil))
		return nil
	case bool:
		return packBool(w, tv)
	case int:
		return packSigned(w, int64(tv))
	case int8:
		return packSigned(w, int64(tv))
	case int16:
		return packSigned(w, int64(tv))
	case int32:
		return packSigned(w, int64(tv))
	case int64:
		return packSigned(w, tv)
	case uint:
		return packUnsigned(w, uint64(tv))
	case uint8:
		return packUnsigned(w, uint64(tv))
	case uint16:
		return packUnsigned(w, uint64(tv))
	case uint32:
		return packUnsigned(w, uint64(tv))
	case uint64:
		return packUnsigned(w, tv)
	case float32:
		return packFloat(w, float64(tv))
	case float64:
		return packFloat(w, tv)
	case []byte:
		return packBytes(w, tv)
	case string:
		return packString(w, tv)
	case []any:
		return p.packSequence(w, tv)
	case *container.OrderedMap:
		return p.packOrderedMap(w, tv)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			w.WriteByte(byte(wire.Nil))
			return nil
		}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return packBytes(w, rv.Bytes())
		}
		return p.packReflectSequence(w, rv)
	case reflect.Array:
		return p.packReflectSequence(w, rv)
	case reflect.Map:
		return p.packReflectMap(w, rv)
	}

	return p.packExtension(w, v)
}

func packBool(w *writer.Writer, b bool) error {
	if b {
		w.WriteByte(byte(wire.True))
	} else {
		w.WriteByte(byte(wire.False))
	}

	return nil
}

// packSigned encodes a negative int64 per spec.md §4.2's signed ladder.
// Non-negative values are delegated to packUnsigned: the wire format
// never uses a signed tag for a non-negative value.
func packSigned(w *writer.Writer, i int64) error {
	if i >= 0 {
		return packUnsigned(w, uint64(i))
	}

	switch {
	case i >= wire.PosFixMin:
		w.WriteByte(byte(int8(i)))
	case i >= wire.Int8Min:
		w.WriteByte(byte(wire.Int8))
		w.WriteI8(int8(i))
	case i >= wire.Int16Min:
		w.WriteByte(byte(wire.Int16))
		w.WriteI16(int16(i))
	case i >= wire.Int32Min:
		w.WriteByte(byte(wire.Int32))
		w.WriteI32(int32(i))
	default:
		w.WriteByte(byte(wire.Int64))
		w.WriteI64(i)
	}

	return nil
}

// packUnsigned encodes a non-negative integer per spec.md §4.2's unsigned
// ladder. u is the full magnitude, whether it arrived as a Go signed or
// unsigned integer type.
func packUnsigned(w *writer.Writer, u uint64) error {
	switch {
	case u <= wire.PosFixMax:
		w.WriteByte(byte(u))
	case u <= wire.Uint8OnlyMax:
		w.WriteByte(byte(wire.Uint8))
		w.WriteU8(uint8(u))
	case u <= wire.Uint16Max:
		w.WriteByte(byte(wire.Uint16))
		w.WriteU16(uint16(u))
	case u <= wire.Uint32Max:
		w.WriteByte(byte(wire.Uint32))
		w.WriteU32(uint32(u))
	default:
		w.WriteByte(byte(wire.Uint64))
		w.WriteU64(u)
	}

	return nil
}

// packFloat always emits the binary64 form; spec.md §4.2 never narrows on
// encode even when the input arrived as a 32-bit float.
func packFloat(w *writer.Writer, f float64) error {
	w.WriteByte(byte(wire.Float64))
	w.WriteF64(f)

	return nil
}

func packBytes(w *writer.Writer, b []byte) error {
	n := len(b)

	switch {
	case n <= wire.Uint8Max:
		w.WriteByte(byte(wire.Bin8))
		w.WriteU8(uint8(n))
	case n <= wire.Uint16Max:
		w.WriteByte(byte(wire.Bin16))
		w.WriteU16(uint16(n))
	case n <= wire.Uint32Max:
		w.WriteByte(byte(wire.Bin32))
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("%w: bytes length %d exceeds 2^32-1", errs.ErrOverflow, n)
	}

	w.WriteBytes(b)

	return nil
}

func packString(w *writer.Writer, s string) error {
	b := []byte(s)
	n := len(b)

	switch {
	case n <= wire.Fixstr7Max:
		w.WriteByte(wire.FixstrTag | byte(n))
	case n <= wire.Uint8Max:
		w.WriteByte(byte(wire.Str8))
		w.WriteU8(uint8(n))
	case n <= wire.Uint16Max:
		w.WriteByte(byte(wire.Str16))
		w.WriteU16(uint16(n))
	case n <= wire.Uint32Max:
		w.WriteByte(byte(wire.Str32))
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("%w: string length %d exceeds 2^32-1", errs.ErrOverflow, n)
	}

	w.WriteBytes(b)

	return nil
}

func writeSequenceHeader(w *writer.Writer, n int) error {
	switch {
	case n <= wire.Fix4Max:
		w.WriteByte(wire.FixarrayTag | byte(n))
	case n <= wire.Uint16Max:
		w.WriteByte(byte(wire.Array16))
		w.WriteU16(uint16(n))
	case n <= wire.Uint32Max:
		w.WriteByte(byte(wire.Array32))
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("%w: sequence length %d exceeds 2^32-1", errs.ErrOverflow, n)
	}

	return nil
}

func writeMapHeader(w *writer.Writer, n int) error {
	switch {
	case n <= wire.Fix4Max:
		w.WriteByte(wire.FixmapTag | byte(n))
	case n <= wire.Uint16Max:
		w.WriteByte(byte(wire.Map16))
		w.WriteU16(uint16(n))
	case n <= wire.Uint32Max:
		w.WriteByte(byte(wire.Map32))
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("%w: map length %d exceeds 2^32-1", errs.ErrOverflow, n)
	}

	return nil
}

func (p *Packer) packSequence(w *writer.Writer, items []any) error {
	if err := writeSequenceHeader(w, len(items)); err != nil {
		return err
	}

	for _, item := range items {
		if err := p.PackValue(w, item); err != nil {
			return err
		}
	}

	return nil
}

func (p *Packer) packReflectSequence(w *writer.Writer, rv reflect.Value) error {
	n := rv.Len()
	if err := writeSequenceHeader(w, n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if err := p.PackValue(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}

	return nil
}

func (p *Packer) packReflectMap(w *writer.Writer, rv reflect.Value) error {
	if err := writeMapHeader(w, rv.Len()); err != nil {
		return err
	}

	iter := rv.MapRange()
	for iter.Next() {
		if err := p.PackValue(w, iter.Key().Interface()); err != nil {
			return err
		}
		if err := p.PackValue(w, iter.Value().Interface()); err != nil {
			return err
		}
	}

	return nil
}

func (p *Packer) packOrderedMap(w *writer.Writer, m *container.OrderedMap) error {
	if err := writeMapHeader(w, m.Len()); err != nil {
		return err
	}

	for _, pair := range m.Pairs() {
		if err := p.PackValue(w, pair.Key); err != nil {
			return err
		}
		if err := p.PackValue(w, pair.Value); err != nil {
			return err
		}
	}

	return nil
}

// reducerAdapter lets a ReducerFunc stand in for an ext.Reducible without
// the caller defining a named type.
type reducerAdapter struct {
	fn ReducerFunc
	v  any
}

func (a reducerAdapter) Reduce() (ext.Reduced, error) {
	return a.fn(a.v)
}

func (p *Packer) packExtension(w *writer.Writer, v any) error {
	tag, payload, err := ext.Encode(p, p.reg, v)
	if err != nil {
		if errors.Is(err, errs.ErrUnsupportedType) && p.reducerFallback != nil {
			return p.packExtension(w, reducerAdapter{fn: p.reducerFallback, v: v})
		}

		return err
	}

	return writeExtFrame(w, tag, payload)
}

// writeExtFrame frames an already-produced (ext_tag, payload) pair per
// spec.md §4.2's extension size ladder.
func writeExtFrame(w *writer.Writer, tag wire.ExtTag, payload []byte) error {
	n := len(payload)

	if fixTag, ok := wire.FixextTagForSize(n); ok {
		w.WriteByte(byte(fixTag))
		w.WriteByte(byte(tag))
		w.WriteBytes(payload)
		return nil
	}

	switch {
	case n <= wire.Uint8Max:
		w.WriteByte(byte(wire.Ext8))
		w.WriteU8(uint8(n))
	case n <= wire.Uint16Max:
		w.WriteByte(byte(wire.Ext16))
		w.WriteU16(uint16(n))
	case n <= wire.Uint32Max:
		w.WriteByte(byte(wire.Ext32))
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("%w: extension payload length %d exceeds 2^32-1", errs.ErrOverflow, n)
	}

	w.WriteByte(byte(tag))
	w.WriteBytes(payload)

	return nil
}
