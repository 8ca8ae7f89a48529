package types

import (
	"fmt"
	"strconv"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
)

// Kind identifies the active variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat32
	KindFloat64
	KindString
)

var kindNames = [...]string{
	KindNull:    "Null",
	KindInt8:    "Int8",
	KindInt16:   "Int16",
	KindInt32:   "Int32",
	KindInt64:   "Int64",
	KindUInt8:   "UInt8",
	KindUInt16:  "UInt16",
	KindUInt32:  "UInt32",
	KindUInt64:  "UInt64",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindString:  "String",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Number is the closed set of numeric Go types a column can hold.
type Number interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Scalar is every Go type a plain column can hold.
type Scalar interface {
	Number | string
}

// Value holds exactly one scalar or NULL.
//
// Values are immutable. Signed integers live in i, unsigned in u and both
// float widths in f; float32 survives the round trip through float64
// exactly. The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	s    string
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// ValueOf wraps a native scalar.
func ValueOf[T Scalar](x T) Value {
	switch v := any(x).(type) {
	case int8:
		return Value{kind: KindInt8, i: int64(v)}
	case int16:
		return Value{kind: KindInt16, i: int64(v)}
	case int32:
		return Value{kind: KindInt32, i: int64(v)}
	case int64:
		return Value{kind: KindInt64, i: v}
	case uint8:
		return Value{kind: KindUInt8, u: uint64(v)}
	case uint16:
		return Value{kind: KindUInt16, u: uint64(v)}
	case uint32:
		return Value{kind: KindUInt32, u: uint64(v)}
	case uint64:
		return Value{kind: KindUInt64, u: v}
	case float32:
		return Value{kind: KindFloat32, f: float64(v)}
	case float64:
		return Value{kind: KindFloat64, f: v}
	case string:
		return Value{kind: KindString, s: v}
	}
	panic("unreachable")
}

// KindOf reports the variant a Go scalar type maps to.
func KindOf[T Scalar]() Kind {
	var zero T
	return ValueOf(zero).kind
}

// Get returns the native payload of v. It fails with ErrWrongVariant when
// v does not hold a T; there are no implicit conversions.
func Get[T Scalar](v Value) (T, error) {
	var zero T
	want := KindOf[T]()
	if v.kind != want {
		return zero, fmt.Errorf("%w: want %s, have %s", dberr.ErrWrongVariant, want, v.kind)
	}

	var out any
	switch want {
	case KindInt8:
		out = int8(v.i)
	case KindInt16:
		out = int16(v.i)
	case KindInt32:
		out = int32(v.i)
	case KindInt64:
		out = v.i
	case KindUInt8:
		out = uint8(v.u)
	case KindUInt16:
		out = uint16(v.u)
	case KindUInt32:
		out = uint32(v.u)
	case KindUInt64:
		out = v.u
	case KindFloat32:
		out = float32(v.f)
	case KindFloat64:
		out = v.f
	case KindString:
		out = v.s
	}
	return out.(T), nil
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int64 returns the payload of an Int64 value.
func (v Value) Int64() (int64, error) { return Get[int64](v) }

// UInt64 returns the payload of a UInt64 value.
func (v Value) UInt64() (uint64, error) { return Get[uint64](v) }

// Float64 returns the payload of a Float64 value.
func (v Value) Float64() (float64, error) { return Get[float64](v) }

// Str returns the payload of a String value.
func (v Value) Str() (string, error) { return Get[string](v) }

// Interface returns the payload as a native Go value, or nil for NULL.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt8:
		return int8(v.i)
	case KindInt16:
		return int16(v.i)
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindUInt8:
		return uint8(v.u)
	case KindUInt16:
		return uint16(v.u)
	case KindUInt32:
		return uint32(v.u)
	case KindUInt64:
		return v.u
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	default:
		return v.s
	}
}

// String renders the value for display. Floats use six decimal places.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.u, 10)
	case KindFloat32, KindFloat64:
		return strconv.FormatFloat(v.f, 'f', 6, 64)
	default:
		return v.s
	}
}
