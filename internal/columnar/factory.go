package columnar

import (
	"fmt"
	"strconv"
	"strings"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

func vector[T types.Scalar](dt types.DataType) Column { return NewVector[T](dt) }

func nullable[T types.Scalar](dt *types.NullableType) Column { return NewNullable[T](dt) }

var vectorConstructors = map[types.TypeID]func(types.DataType) Column{
	types.TypeInt8:    vector[int8],
	types.TypeInt16:   vector[int16],
	types.TypeInt32:   vector[int32],
	types.TypeInt64:   vector[int64],
	types.TypeUInt8:   vector[uint8],
	types.TypeUInt16:  vector[uint16],
	types.TypeUInt32:  vector[uint32],
	types.TypeUInt64:  vector[uint64],
	types.TypeFloat32: vector[float32],
	types.TypeFloat64: vector[float64],
	types.TypeString:  vector[string],
}

var nullableConstructors = map[types.TypeID]func(*types.NullableType) Column{
	types.TypeInt8:    nullable[int8],
	types.TypeInt16:   nullable[int16],
	types.TypeInt32:   nullable[int32],
	types.TypeInt64:   nullable[int64],
	types.TypeUInt8:   nullable[uint8],
	types.TypeUInt16:  nullable[uint16],
	types.TypeUInt32:  nullable[uint32],
	types.TypeUInt64:  nullable[uint64],
	types.TypeFloat32: nullable[float32],
	types.TypeFloat64: nullable[float64],
	types.TypeString:  nullable[string],
}

// New creates an empty column for dt. Nullable(Nullable(T)) resolves as a
// type but has no column representation.
func New(dt types.DataType) (Column, error) {
	if n, ok := dt.(*types.NullableType); ok {
		if ctor, ok := nullableConstructors[n.Nested().ID()]; ok {
			return ctor(n), nil
		}
		return nil, fmt.Errorf("%w: %s", dberr.ErrUnsupportedType, dt.Name())
	}
	if ctor, ok := vectorConstructors[dt.ID()]; ok {
		return ctor(dt), nil
	}
	return nil, fmt.Errorf("%w: %s", dberr.ErrUnsupportedType, dt.Name())
}

// parseLiteral converts SQL literal text into T. Values outside T's range
// are conversion errors rather than wrapping.
func parseLiteral[T types.Scalar](text string) (T, error) {
	var zero T
	var out any
	var err error

	s := strings.TrimSpace(text)
	switch any(zero).(type) {
	case int8:
		var n int64
		n, err = strconv.ParseInt(s, 10, 8)
		out = int8(n)
	case int16:
		var n int64
		n, err = strconv.ParseInt(s, 10, 16)
		out = int16(n)
	case int32:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		out = int32(n)
	case int64:
		out, err = strconv.ParseInt(s, 10, 64)
	case uint8:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 8)
		out = uint8(n)
	case uint16:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 16)
		out = uint16(n)
	case uint32:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 32)
		out = uint32(n)
	case uint64:
		out, err = strconv.ParseUint(s, 10, 64)
	case float32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		out = float32(f)
	case float64:
		out, err = strconv.ParseFloat(s, 64)
	case string:
		out = text
	}

	if err != nil {
		return zero, fmt.Errorf("%w: cannot convert '%s' to %s", dberr.ErrValueConversion, text, types.KindOf[T]())
	}
	return out.(T), nil
}
