// Package registry implements the codec's class/singleton registry
// (spec.md §4.5, component H): a bidirectional mapping between qualified
// class names and class handles, plus a singleton name table, consulted by
// the extension protocol on both encode and decode.
//
// The registry is read-mostly: lookups (ResolveClass, ResolveSingleton,
// SingletonName) are safe for concurrent use with each other; Register calls
// are expected to complete at process startup before concurrent decoding
// begins, per spec.md §5.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arloliu/msgpack/container"
	"github.com/arloliu/msgpack/errs"
)

// ClassRef names a class by its module and qualified name, the payload of
// EXT tag 0x06 (spec.md §3).
type ClassRef struct {
	Module string
	Name   string
}

func (r ClassRef) key() string {
	return r.Module + "." + r.Name
}

// Class is the registry's handle for a reducible host type: enough
// information to reconstruct an instance from a reducer's construct tuple
// (spec.md §4.4).
type Class struct {
	Ref ClassRef

	// New constructs a new instance from the reducer's positional args.
	New func(args []any) (any, error)

	// SetState applies reducer state to obj, if the reducer produced one.
	// May be nil if the class never carries state.
	SetState func(obj any, state any) error

	// Extend appends list_items to obj, if the reducer produced any.
	// May be nil if the class is never list-like.
	Extend func(obj any, items []any) error

	// Update applies dict_items to obj, if the reducer produced any.
	// May be nil if the class is never dict-like.
	Update func(obj any, items []container.Pair) error
}

// Entry is implemented by ClassEntry and SingletonEntry, the two kinds of
// value Register accepts.
type Entry interface {
	register(*Registry) error
}

// ClassEntry registers a Class under its Ref.
type ClassEntry struct {
	Class *Class
}

// SingletonEntry registers a singleton value under a qualified name,
// resolved by EXT tag 0x07 on decode and matched by identity on encode.
type SingletonEntry struct {
	Name  string
	Value any
}

// Registry holds the process-wide class and singleton tables.
type Registry struct {
	mu               sync.RWMutex
	classes          map[string]*Class
	singletonsByName map[string]any
	namesBySingleton map[any]string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		classes:          make(map[string]*Class),
		singletonsByName: make(map[string]any),
		namesBySingleton: make(map[any]string),
	}
}

// Register adds one or more class/singleton entries. Registration is
// idempotent: registering the same qualified name with the same handle
// twice is a no-op; registering it with a different handle fails with
// errs.ErrClassConflict.
func (r *Registry) Register(entries ...Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if err := e.register(r); err != nil {
			return err
		}
	}

	return nil
}

func (e ClassEntry) register(r *Registry) error {
	if e.Class == nil {
		return fmt.Errorf("%w: nil class", errs.ErrClassConflict)
	}

	key := e.Class.Ref.key()
	if existing, ok := r.classes[key]; ok {
		if existing == e.Class {
			return nil
		}
		return fmt.Errorf("%w: %s.%s", errs.ErrClassConflict, e.Class.Ref.Module, e.Class.Ref.Name)
	}

	r.classes[key] = e.Class

	return nil
}

func (e SingletonEntry) register(r *Registry) error {
	if e.Value == nil || !reflect.TypeOf(e.Value).Comparable() {
		return fmt.Errorf("%w: singleton %s has an incomparable value", errs.ErrClassConflict, e.Name)
	}

	if existing, ok := r.singletonsByName[e.Name]; ok {
		if existing == e.Value {
			return nil
		}
		return fmt.Errorf("%w: singleton %s", errs.ErrClassConflict, e.Name)
	}

	r.singletonsByName[e.Name] = e.Value
	r.namesBySingleton[e.Value] = e.Name

	return nil
}

// ResolveClass looks up a class by (module, name), as referenced by an
// EXT 0x06 record.
func (r *Registry) ResolveClass(module, name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[(ClassRef{Module: module, Name: name}).key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", errs.ErrUnknownClass, module, name)
	}

	return c, nil
}

// ResolveSingleton looks up a singleton by qualified name, as referenced
// by an EXT 0x07 record.
func (r *Registry) ResolveSingleton(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.singletonsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownSingleton, name)
	}

	return v, nil
}

// SingletonName reports the qualified name a value was registered under,
// if any. The packer uses this to encode a registered singleton as EXT
// 0x07 instead of falling through to the reducer protocol, preserving
// identity on decode (spec.md §8 property 3).
//
// Only comparable values can be looked up this way; incomparable dynamic
// types (slices, maps, funcs) can never have been registered as
// singletons in the first place, since Go map keys must be comparable.
func (r *Registry) SingletonName(v any) (string, bool) {
	if v == nil || !reflect.TypeOf(v).Comparable() {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.namesBySingleton[v]

	return name, ok
}
