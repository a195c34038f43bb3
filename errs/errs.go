// Package errs defines the sentinel errors returned by the msgpack codec.
//
// Every error the codec returns wraps one of these sentinels, so callers
// should match kinds with errors.Is rather than string comparison or type
// assertions:
//
//	_, err := unpack.Unpack(data)
//	if errors.Is(err, errs.ErrTruncation) {
//	    // ask for more bytes
//	}
package errs

import "errors"

var (
	// ErrOverflow is returned when an integer falls outside [-2^63, 2^64-1],
	// or a string/bytes/sequence/mapping/extension payload exceeds 2^32-1
	// elements or bytes.
	ErrOverflow = errors.New("msgpack: value out of encodable range")

	// ErrUnsupportedType is returned when the packer finds no primary,
	// extension, or reducer path for a value.
	ErrUnsupportedType = errors.New("msgpack: unsupported type")

	// ErrReduceFailed is returned when a Reducible implementation returns a
	// shape other than a singleton name or a well-formed construct tuple.
	ErrReduceFailed = errors.New("msgpack: reducer returned an invalid shape")

	// ErrTruncation is returned when the unpacker runs past the end of the
	// input buffer.
	ErrTruncation = errors.New("msgpack: truncated input")

	// ErrInvalidType is returned for the reserved 0xc1 tag or a malformed
	// header.
	ErrInvalidType = errors.New("msgpack: invalid type tag")

	// ErrInvalidExtension is returned for ext_tag 0x00 or any tag outside
	// the reserved {0x01..0x7f, 0xff} range.
	ErrInvalidExtension = errors.New("msgpack: invalid extension tag")

	// ErrUnknownClass is returned when an ext 0x06 record names a
	// (module, qualified_name) pair absent from the registry.
	ErrUnknownClass = errors.New("msgpack: unknown class")

	// ErrUnknownSingleton is returned when an ext 0x07 record names a
	// qualified name absent from the registry.
	ErrUnknownSingleton = errors.New("msgpack: unknown singleton")

	// ErrDecode covers payload shape violations: invalid UTF-8, a malformed
	// reducer tuple, a timestamp payload of the wrong size, or
	// non-canonical nanoseconds.
	ErrDecode = errors.New("msgpack: decode error")

	// ErrDepthExceeded is returned when recursive container decoding
	// exceeds the configured depth cap.
	ErrDepthExceeded = errors.New("msgpack: recursion depth exceeded")

	// ErrUnhashableKey is returned when a decoded mapping key is a
	// container (sequence, mapping, or extension value) that the key
	// hashing contract in internal/keyhash does not support.
	ErrUnhashableKey = errors.New("msgpack: map key is not hashable")

	// ErrClassConflict is returned by Registry.Register when a qualified
	// name is re-registered with a different handle than the one already
	// on file.
	ErrClassConflict = errors.New("msgpack: class already registered with a different handle")
)
