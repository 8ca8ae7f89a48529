// Package types implements the type registry: scalar and nullable type
// descriptors, their binary encoding, and the Value sum type.
//
// EDUCATIONAL NOTES:
// ------------------
// Every column is declared with a type name such as "UInt32" or
// "Nullable(String)". Resolve turns that name into a DataType descriptor,
// which knows the type's display name, its in-memory footprint and how to
// encode a single Value into bytes.
//
// Fixed-width scalars are encoded by copying their in-memory representation
// verbatim. There is no endianness normalization, so the bytes are only
// readable on a machine with the same byte order. Strings are encoded as a
// 4-byte native-order length followed by the raw bytes. Nullable descriptors
// do not encode at all; both directions fail with ErrNotImplemented.
package types

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"unsafe"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
)

// TypeID identifies a descriptor. Scalar IDs share their numeric value with
// the matching Value Kind.
type TypeID uint8

const (
	TypeInt8     = TypeID(KindInt8)
	TypeInt16    = TypeID(KindInt16)
	TypeInt32    = TypeID(KindInt32)
	TypeInt64    = TypeID(KindInt64)
	TypeUInt8    = TypeID(KindUInt8)
	TypeUInt16   = TypeID(KindUInt16)
	TypeUInt32   = TypeID(KindUInt32)
	TypeUInt64   = TypeID(KindUInt64)
	TypeFloat32  = TypeID(KindFloat32)
	TypeFloat64  = TypeID(KindFloat64)
	TypeString   = TypeID(KindString)
	TypeNullable = TypeID(KindString + 1)
)

// Kind returns the Value variant stored by a scalar type.
func (id TypeID) Kind() Kind {
	if id == TypeNullable {
		return KindNull
	}
	return Kind(id)
}

// DataType describes one column type.
type DataType interface {
	ID() TypeID
	Name() string

	// Size is the in-memory footprint of one value in bytes. For String it
	// is the size of the string header, not of the payload.
	Size() int

	IsNullable() bool

	// Serialize appends the encoding of v to buf.
	Serialize(buf []byte, v Value) ([]byte, error)

	// Deserialize decodes one value from the front of buf.
	Deserialize(buf []byte) (Value, error)
}

// fixedType is the descriptor for every fixed-width numeric type.
type fixedType[T Number] struct {
	id   TypeID
	name string
}

func (t fixedType[T]) ID() TypeID       { return t.id }
func (t fixedType[T]) Name() string     { return t.name }
func (t fixedType[T]) IsNullable() bool { return false }
func (t fixedType[T]) String() string   { return t.name }

func (t fixedType[T]) Size() int {
	var x T
	return int(unsafe.Sizeof(x))
}

func (t fixedType[T]) Serialize(buf []byte, v Value) ([]byte, error) {
	x, err := Get[T](v)
	if err != nil {
		return buf, fmt.Errorf("serialize %s: %w", t.name, err)
	}
	return append(buf, unsafe.Slice((*byte)(unsafe.Pointer(&x)), t.Size())...), nil
}

func (t fixedType[T]) Deserialize(buf []byte) (Value, error) {
	size := t.Size()
	if len(buf) < size {
		return Value{}, fmt.Errorf("deserialize %s: need %d bytes, have %d: %w",
			t.name, size, len(buf), dberr.ErrTruncatedData)
	}
	var x T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&x)), size), buf)
	return ValueOf(x), nil
}

// stringType encodes as a uint32 length prefix plus payload.
type stringType struct{}

const stringPrefixSize = 4

func (stringType) ID() TypeID       { return TypeString }
func (stringType) Name() string     { return "String" }
func (stringType) IsNullable() bool { return false }
func (stringType) String() string   { return "String" }
func (stringType) Size() int        { return int(unsafe.Sizeof("")) }

func (stringType) Serialize(buf []byte, v Value) ([]byte, error) {
	s, err := Get[string](v)
	if err != nil {
		return buf, fmt.Errorf("serialize String: %w", err)
	}
	buf = binary.NativeEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...), nil
}

func (stringType) Deserialize(buf []byte) (Value, error) {
	if len(buf) < stringPrefixSize {
		return Value{}, fmt.Errorf("deserialize String: need %d byte length prefix, have %d: %w",
			stringPrefixSize, len(buf), dberr.ErrTruncatedData)
	}
	n := int(binary.NativeEndian.Uint32(buf))
	payload := buf[stringPrefixSize:]
	if len(payload) < n {
		return Value{}, fmt.Errorf("deserialize String: need %d payload bytes, have %d: %w",
			n, len(payload), dberr.ErrTruncatedData)
	}
	return ValueOf(string(payload[:n])), nil
}

// NullableType wraps another descriptor.
type NullableType struct {
	nested DataType
}

// Nullable wraps nested in a Nullable descriptor.
func Nullable(nested DataType) *NullableType {
	return &NullableType{nested: nested}
}

func (t *NullableType) ID() TypeID       { return TypeNullable }
func (t *NullableType) Name() string     { return "Nullable(" + t.nested.Name() + ")" }
func (t *NullableType) IsNullable() bool { return true }
func (t *NullableType) String() string   { return t.Name() }

// Size adds one byte for the null flag.
func (t *NullableType) Size() int { return 1 + t.nested.Size() }

// Nested returns the wrapped descriptor.
func (t *NullableType) Nested() DataType { return t.nested }

func (t *NullableType) Serialize(buf []byte, _ Value) ([]byte, error) {
	return buf, fmt.Errorf("serialize %s: %w", t.Name(), dberr.ErrNotImplemented)
}

func (t *NullableType) Deserialize([]byte) (Value, error) {
	return Value{}, fmt.Errorf("deserialize %s: %w", t.Name(), dberr.ErrNotImplemented)
}

// Scalar descriptors.
var (
	Int8    DataType = fixedType[int8]{TypeInt8, "Int8"}
	Int16   DataType = fixedType[int16]{TypeInt16, "Int16"}
	Int32   DataType = fixedType[int32]{TypeInt32, "Int32"}
	Int64   DataType = fixedType[int64]{TypeInt64, "Int64"}
	UInt8   DataType = fixedType[uint8]{TypeUInt8, "UInt8"}
	UInt16  DataType = fixedType[uint16]{TypeUInt16, "UInt16"}
	UInt32  DataType = fixedType[uint32]{TypeUInt32, "UInt32"}
	UInt64  DataType = fixedType[uint64]{TypeUInt64, "UInt64"}
	Float32 DataType = fixedType[float32]{TypeFloat32, "Float32"}
	Float64 DataType = fixedType[float64]{TypeFloat64, "Float64"}
	String  DataType = stringType{}
)

var registry = map[string]DataType{}

func init() {
	for _, dt := range []DataType{Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float32, Float64, String} {
		registry[dt.Name()] = dt
	}
}

// Resolve maps a type name to its descriptor. Names are case-sensitive.
// Nullable(<name>) resolves recursively.
func Resolve(name string) (DataType, error) {
	name = strings.TrimSpace(name)
	if dt, ok := registry[name]; ok {
		return dt, nil
	}

	if inner, ok := strings.CutPrefix(name, "Nullable("); ok {
		if inner, ok = strings.CutSuffix(inner, ")"); ok {
			nested, err := Resolve(inner)
			if err != nil {
				return nil, err
			}
			return Nullable(nested), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", dberr.ErrUnknownType, name)
}

// MustResolve is Resolve for names known at compile time.
func MustResolve(name string) DataType {
	dt, err := Resolve(name)
	if err != nil {
		panic(err)
	}
	return dt
}

// Names lists the scalar type names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two descriptors describe the same type.
func Equal(a, b DataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID() != b.ID() {
		return false
	}
	na, okA := a.(*NullableType)
	nb, okB := b.(*NullableType)
	if okA && okB {
		return Equal(na.nested, nb.nested)
	}
	return true
}

// ScalarOf returns the innermost non-nullable descriptor of dt.
func ScalarOf(dt DataType) DataType {
	for {
		n, ok := dt.(*NullableType)
		if !ok {
			return dt
		}
		dt = n.nested
	}
}
