// Package msgpack implements a MessagePack codec with a closed set of
// extensions for host-language types that the primary wire categories
// can't express: complex numbers, mutable byte buffers, mutable
// sequences, sets and frozen sets, class and singleton references,
// generic reducible objects, and timestamps.
//
// # Basic usage
//
// Packing and unpacking a value:
//
//	data, err := msgpack.Pack(map[string]any{"name": "gizmo", "count": 3})
//	if err != nil {
//	    // handle err
//	}
//
//	v, err := msgpack.Unpack(data)
//	if err != nil {
//	    // handle err
//	}
//
// Decoded mappings come back as *container.OrderedMap rather than a
// plain Go map, since MessagePack allows arbitrary hashable keys
// (including byte strings) that Go's native map can't always represent
// directly.
//
// # Extensions
//
// A host type becomes packable one of three ways: it matches a built-in
// extension shape (complex128, *container.Buffer, *container.List,
// *container.Set, *container.FrozenSet, timestamp.Timestamp), it is a
// registered singleton (see Register), or it implements ext.Reducible.
//
// Classes and singletons referenced by an encoded stream must be
// registered with the same process before decoding that stream; the
// default registry is empty.
//
// # Package structure
//
// This package is a convenience façade over pack, unpack, ext, registry,
// and archive. Programs that need finer control over options — a custom
// registry, a depth limit, a reducer fallback — should use those
// packages directly.
package msgpack

import (
	"github.com/arloliu/msgpack/pack"
	"github.com/arloliu/msgpack/registry"
	"github.com/arloliu/msgpack/unpack"
)

var defaultRegistry = registry.New()

// DefaultRegistry returns the process-wide registry consulted by Pack
// and Unpack when no WithRegistry option is given.
func DefaultRegistry() *registry.Registry {
	return defaultRegistry
}

// Register adds classes and singletons to the default registry. See
// registry.Registry.Register for idempotency rules.
func Register(entries ...registry.Entry) error {
	return defaultRegistry.Register(entries...)
}

// Pack encodes v to its minimal MessagePack wire form.
func Pack(v any, opts ...pack.Option) ([]byte, error) {
	opts = append([]pack.Option{pack.WithRegistry(defaultRegistry)}, opts...)
	return pack.Pack(v, opts...)
}

// Unpack decodes exactly one framed value from data, ignoring any
// trailing bytes.
func Unpack(data []byte, opts ...unpack.Option) (any, error) {
	opts = append([]unpack.Option{unpack.WithRegistry(defaultRegistry)}, opts...)
	return unpack.Unpack(data, opts...)
}
