// Package ext implements the codec's extension protocol (spec.md §4.4,
// component G): encoding and decoding the reserved EXT tag range
// {0x01..0x7f, 0xff} that carries host types the primary MessagePack
// categories cannot express — complex numbers, mutable buffers and
// sequences, sets, class and singleton references, generic reducible
// objects, and timestamps.
//
// ext does not itself recurse into the packer/unpacker; it is handed a
// ValuePacker/ValueUnpacker callback so list, set, class, singleton, and
// reduce payloads can nest arbitrary values without an import cycle
// between ext and the pack/unpack packages.
package ext

import (
	"fmt"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
	"github.com/arloliu/msgpack/reader"
	"github.com/arloliu/msgpack/registry"
	"github.com/arloliu/msgpack/timestamp"
	"github.com/arloliu/msgpack/wire"
	"github.com/arloliu/msgpack/writer"
)

// ValuePacker packs a single value, dispatching through the full primary
// category + extension logic. The pack package's Packer implements this.
type ValuePacker interface {
	PackValue(w *writer.Writer, v any) error
}

// ValueUnpacker unpacks a single framed value starting at the reader's
// current position, recursing through containers and extensions.
// depth is the current recursion depth, checked against the configured
// cap. The unpack package's Unpacker implements this.
type ValueUnpacker interface {
	UnpackValue(r *reader.Reader, depth int) (any, error)
}

// ReducedKind distinguishes the two shapes a Reducible's Reduce can
// return (spec.md §9).
type ReducedKind int

const (
	// ReducedSingleton carries only a qualified singleton name.
	ReducedSingleton ReducedKind = iota
	// ReducedConstruct carries a full (class, args, state?, list_items?,
	// dict_items?) reconstruction tuple.
	ReducedConstruct
)

// Reduced is the result of decomposing a host object that matches no
// primary or built-in extension category, the Go rendering of the
// "(class, args, state?, list_items?, dict_items?) or name" union
// described in spec.md §4.4 and §9.
type Reduced struct {
	Kind ReducedKind

	// SingletonName is set when Kind == ReducedSingleton.
	SingletonName string

	// Class, Args, State, ListItems, and DictItems are set when
	// Kind == ReducedConstruct. State, ListItems, and DictItems are
	// optional; HasState distinguishes an explicit nil state from no
	// state at all.
	Class     registry.ClassRef
	Args      []any
	HasState  bool
	State     any
	ListItems []any
	DictItems []container.Pair
}

// Singleton builds a ReducedSingleton result.
func Singleton(name string) Reduced {
	return Reduced{Kind: ReducedSingleton, SingletonName: name}
}

// Construct builds a ReducedConstruct result for class with the given
// positional args. Use WithState/WithListItems/WithDictItems to attach
// the optional fields.
func Construct(class registry.ClassRef, args []any) Reduced {
	return Reduced{Kind: ReducedConstruct, Class: class, Args: args}
}

// WithState attaches reducer state, distinguishing an explicit value from
// its absence.
func (r Reduced) WithState(state any) Reduced {
	r.HasState = true
	r.State = state
	return r
}

// WithListItems attaches list_items to append to the constructed object.
func (r Reduced) WithListItems(items []any) Reduced {
	r.ListItems = items
	return r
}

// WithDictItems attaches dict_items to apply to the constructed object.
func (r Reduced) WithDictItems(items []container.Pair) Reduced {
	r.DictItems = items
	return r
}

// Reducible is implemented by host values that are not otherwise
// representable, and must be decomposed into a Reduced before they can be
// packed (spec.md §9's "trait Reducible" design note).
type Reducible interface {
	Reduce() (Reduced, error)
}

// Encode produces the (ext_tag, payload) pair for v (spec.md §3, §4.4).
// reg is consulted first so that a registered singleton always encodes as
// EXT 0x07, even if v would otherwise also satisfy Reducible. vp packs
// nested values for the container-shaped extension kinds.
func Encode(vp ValuePacker, reg *registry.Registry, v any) (wire.ExtTag, []byte, error) {
	if name, ok := reg.SingletonName(v); ok {
		return encodeSingleton(vp, name)
	}

	switch tv := v.(type) {
	case complex64:
		return encodeComplex(complex128(tv))
	case complex128:
		return encodeComplex(tv)
	case *container.Buffer:
		return wire.ExtBuffer, tv.Bytes(), nil
	case *container.List:
		return encodeList(vp, tv.Items)
	case *container.FrozenSet:
		_, payload, err := encodeList(vp, tv.Items())
		if err != nil {
			return 0, nil, err
		}
		return wire.ExtFrozenSet, payload, nil
	case *container.Set:
		_, payload, err := encodeList(vp, tv.Items())
		if err != nil {
			return 0, nil, err
		}
		return wire.ExtSet, payload, nil
	case registry.ClassRef:
		return encodeClassRef(vp, tv)
	case timestamp.Timestamp:
		return wire.ExtTimestamp, tv.Encode(), nil
	}

	reducible, ok := v.(Reducible)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedType, v)
	}

	reduced, err := reducible.Reduce()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", errs.ErrReduceFailed, err)
	}

	switch reduced.Kind {
	case ReducedSingleton:
		return encodeSingleton(vp, reduced.SingletonName)
	case ReducedConstruct:
		return encodeReduced(vp, reduced)
	default:
		return 0, nil, fmt.Errorf("%w: unknown reduced kind %d", errs.ErrReduceFailed, reduced.Kind)
	}
}

func encodeComplex(c complex128) (wire.ExtTag, []byte, error) {
	w := writer.Get()
	defer w.Release()

	w.WriteF64(real(c))
	w.WriteF64(imag(c))

	return wire.ExtComplex, w.Bytes(), nil
}

func encodeList(vp ValuePacker, items []any) (wire.ExtTag, []byte, error) {
	w := writer.Get()
	defer w.Release()

	if err := vp.PackValue(w, items); err != nil {
		return 0, nil, err
	}

	return wire.ExtList, w.Bytes(), nil
}

func encodeSingleton(vp ValuePacker, name string) (wire.ExtTag, []byte, error) {
	w := writer.Get()
	defer w.Release()

	if err := vp.PackValue(w, name); err != nil {
		return 0, nil, err
	}

	return wire.ExtSingleton, w.Bytes(), nil
}

func encodeClassRef(vp ValuePacker, ref registry.ClassRef) (wire.ExtTag, []byte, error) {
	w := writer.Get()
	defer w.Release()

	if err := vp.PackValue(w, ref.Module); err != nil {
		return 0, nil, err
	}
	if err := vp.PackValue(w, ref.Name); err != nil {
		return 0, nil, err
	}

	return wire.ExtClass, w.Bytes(), nil
}

func encodeReduced(vp ValuePacker, r Reduced) (wire.ExtTag, []byte, error) {
	items := []any{r.Class, r.Args}

	if r.HasState {
		items = append(items, r.State)
	}
	if len(r.ListItems) > 0 {
		for len(items) < 3 {
			items = append(items, nil)
		}
		items = append(items, r.ListItems)
	}
	if len(r.DictItems) > 0 {
		for len(items) < 4 {
			items = append(items, nil)
		}
		pairs := make([]any, len(r.DictItems))
		for i, p := range r.DictItems {
			pairs[i] = []any{p.Key, p.Value}
		}
		items = append(items, pairs)
	}

	w := writer.Get()
	defer w.Release()

	if err := vp.PackValue(w, items); err != nil {
		return 0, nil, err
	}

	return wire.ExtReduce, w.Bytes(), nil
}

// Decode reconstructs the value carried by an EXT record with the given
// tag and payload (spec.md §4.4). up unpacks any nested framed values.
// depth is the enclosing recursion depth.
func Decode(up ValueUnpacker, reg *registry.Registry, tag wire.ExtTag, payload []byte, depth int) (any, error) {
	switch tag {
	case wire.ExtComplex:
		return decodeComplex(payload)
	case wire.ExtBuffer:
		return container.NewBuffer(append([]byte(nil), payload...)), nil
	case wire.ExtList:
		items, err := decodeArray(up, payload, depth)
		if err != nil {
			return nil, err
		}
		return container.NewList(items), nil
	case wire.ExtSet:
		items, err := decodeArray(up, payload, depth)
		if err != nil {
			return nil, err
		}
		return container.NewSet(items...)
	case wire.ExtFrozenSet:
		items, err := decodeArray(up, payload, depth)
		if err != nil {
			return nil, err
		}
		return container.NewFrozenSet(items...)
	case wire.ExtClass:
		return decodeClassRef(up, reg, payload, depth)
	case wire.ExtSingleton:
		return decodeSingleton(up, reg, payload, depth)
	case wire.ExtReduce:
		return decodeReduced(up, payload, depth)
	case wire.ExtTimestamp:
		return timestamp.Decode(payload)
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", errs.ErrInvalidExtension, byte(tag))
	}
}

func decodeComplex(payload []byte) (complex128, error) {
	if len(payload) != 16 {
		return 0, fmt.Errorf("%w: complex payload must be 16 bytes, got %d", errs.ErrDecode, len(payload))
	}

	r := reader.New(payload)
	re, err := r.ReadF64()
	if err != nil {
		return 0, err
	}
	im, err := r.ReadF64()
	if err != nil {
		return 0, err
	}

	return complex(re, im), nil
}

func decodeArray(up ValueUnpacker, payload []byte, depth int) ([]any, error) {
	r := reader.New(payload)
	v, err := up.UnpackValue(r, depth+1)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array payload, got %T", errs.ErrDecode, v)
	}

	return items, nil
}

func decodeClassRef(up ValueUnpacker, reg *registry.Registry, payload []byte, depth int) (*registry.Class, error) {
	r := reader.New(payload)

	mv, err := up.UnpackValue(r, depth+1)
	if err != nil {
		return nil, err
	}
	nv, err := up.UnpackValue(r, depth+1)
	if err != nil {
		return nil, err
	}

	module, ok := mv.(string)
	name, ok2 := nv.(string)
	if !ok || !ok2 {
		return nil, fmt.Errorf("%w: class reference must be two strings", errs.ErrDecode)
	}

	return reg.ResolveClass(module, name)
}

func decodeSingleton(up ValueUnpacker, reg *registry.Registry, payload []byte, depth int) (any, error) {
	r := reader.New(payload)

	nv, err := up.UnpackValue(r, depth+1)
	if err != nil {
		return nil, err
	}

	name, ok := nv.(string)
	if !ok {
		return nil, fmt.Errorf("%w: singleton reference must be a string", errs.ErrDecode)
	}

	return reg.ResolveSingleton(name)
}

func decodeReduced(up ValueUnpacker, payload []byte, depth int) (any, error) {
	items, err := decodeArray(up, payload, depth)
	if err != nil {
		return nil, err
	}
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: reduce tuple needs at least (class, args), got %d elements", errs.ErrDecode, len(items))
	}

	class, ok := items[0].(*registry.Class)
	if !ok {
		return nil, fmt.Errorf("%w: reduce tuple's first element must be a class reference", errs.ErrDecode)
	}
	args, ok := items[1].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: reduce tuple's second element must be an args array", errs.ErrDecode)
	}
	if class.New == nil {
		return nil, fmt.Errorf("%w: class %s.%s has no constructor", errs.ErrDecode, class.Ref.Module, class.Ref.Name)
	}

	obj, err := class.New(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecode, err)
	}

	if len(items) >= 3 && items[2] != nil {
		if class.SetState != nil {
			if err := class.SetState(obj, items[2]); err != nil {
				return nil, fmt.Errorf("%w: %v", errs.ErrDecode, err)
			}
		}
	}

	if len(items) >= 4 && items[3] != nil {
		listItems, ok := items[3].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: reduce tuple's list_items must be an array", errs.ErrDecode)
		}
		if class.Extend != nil {
			if err := class.Extend(obj, listItems); err != nil {
				return nil, fmt.Errorf("%w: %v", errs.ErrDecode, err)
			}
		}
	}

	if len(items) >= 5 && items[4] != nil {
		dictItems, ok := items[4].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: reduce tuple's dict_items must be an array", errs.ErrDecode)
		}
		pairs := make([]container.Pair, 0, len(dictItems))
		for _, di := range dictItems {
			pair, ok := di.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("%w: reduce tuple's dict_items entries must be 2-element arrays", errs.ErrDecode)
			}
			pairs = append(pairs, container.Pair{Key: pair[0], Value: pair[1]})
		}
		if class.Update != nil {
			if err := class.Update(obj, pairs); err != nil {
				return nil, fmt.Errorf("%w: %v", errs.ErrDecode, err)
			}
		}
	}

	return obj, nil
}
