package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		wantID   TypeID
		wantName string
	}{
		{"Int8", TypeInt8, "Int8"},
		{"UInt64", TypeUInt64, "UInt64"},
		{"Float32", TypeFloat32, "Float32"},
		{"String", TypeString, "String"},
		{" Int32 ", TypeInt32, "Int32"},
		{"Nullable(Int32)", TypeNullable, "Nullable(Int32)"},
		{"Nullable(Nullable(String))", TypeNullable, "Nullable(Nullable(String))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, dt.ID())
			assert.Equal(t, tt.wantName, dt.Name())
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, name := range []string{"", "int32", "Decimal(10,2)", "Nullable(Foo)", "Nullable(Int32"} {
		_, err := Resolve(name)
		assert.ErrorIs(t, err, dberr.ErrUnknownType, "Resolve(%q)", name)
	}
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 2, UInt16.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, 1+Int32.Size(), Nullable(Int32).Size())
}

func roundTrip(t *testing.T, dt DataType, v Value) {
	t.Helper()
	buf, err := dt.Serialize(nil, v)
	require.NoError(t, err)
	got, err := dt.Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, v, got, "%s round trip", dt.Name())
}

func TestSerializeRoundTrip(t *testing.T) {
	roundTrip(t, Int8, ValueOf(int8(math.MinInt8)))
	roundTrip(t, Int16, ValueOf(int16(-1234)))
	roundTrip(t, Int32, ValueOf(int32(math.MaxInt32)))
	roundTrip(t, Int64, ValueOf(int64(math.MinInt64)))
	roundTrip(t, UInt8, ValueOf(uint8(255)))
	roundTrip(t, UInt16, ValueOf(uint16(65535)))
	roundTrip(t, UInt32, ValueOf(uint32(4000000000)))
	roundTrip(t, UInt64, ValueOf(uint64(math.MaxUint64)))
	roundTrip(t, Float32, ValueOf(float32(3.25)))
	roundTrip(t, Float64, ValueOf(-0.125))
	roundTrip(t, String, ValueOf(""))
	roundTrip(t, String, ValueOf("héllo, 北京"))
}

func TestSerializeAppends(t *testing.T) {
	buf := []byte{0xAA}
	buf, err := UInt8.Serialize(buf, ValueOf(uint8(7)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 7}, buf)
}

func TestSerializeWrongVariant(t *testing.T) {
	_, err := Int32.Serialize(nil, ValueOf(int64(1)))
	assert.ErrorIs(t, err, dberr.ErrWrongVariant)

	_, err = String.Serialize(nil, Null())
	assert.ErrorIs(t, err, dberr.ErrWrongVariant)
}

func TestDeserializeTruncated(t *testing.T) {
	fixed := []DataType{Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float32, Float64}
	for _, dt := range fixed {
		t.Run(dt.Name(), func(t *testing.T) {
			_, err := dt.Deserialize(make([]byte, dt.Size()-1))
			assert.ErrorIs(t, err, dberr.ErrTruncatedData)

			_, err = dt.Deserialize(make([]byte, dt.Size()))
			assert.NoError(t, err)
		})
	}

	_, err := String.Deserialize([]byte{1, 0})
	assert.ErrorIs(t, err, dberr.ErrTruncatedData)

	buf, err := String.Serialize(nil, ValueOf("abcdef"))
	require.NoError(t, err)
	_, err = String.Deserialize(buf[:len(buf)-1])
	assert.ErrorIs(t, err, dberr.ErrTruncatedData)
}

func TestNullableNotImplemented(t *testing.T) {
	dt := Nullable(String)
	_, err := dt.Serialize(nil, ValueOf("x"))
	assert.ErrorIs(t, err, dberr.ErrNotImplemented)

	_, err = dt.Deserialize([]byte{0, 0, 0, 0})
	assert.ErrorIs(t, err, dberr.ErrNotImplemented)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int32, MustResolve("Int32")))
	assert.True(t, Equal(Nullable(Int32), MustResolve("Nullable(Int32)")))
	assert.False(t, Equal(Nullable(Int32), Nullable(String)))
	assert.False(t, Equal(Int32, Nullable(Int32)))
	assert.False(t, Equal(Int32, nil))
}

func TestScalarOf(t *testing.T) {
	assert.Equal(t, String, ScalarOf(MustResolve("Nullable(Nullable(String))")))
	assert.Equal(t, UInt8, ScalarOf(UInt8))
}

func TestValueAccessors(t *testing.T) {
	v := ValueOf(int32(42))
	assert.Equal(t, KindInt32, v.Kind())
	assert.False(t, v.IsNull())

	got, err := Get[int32](v)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got)

	_, err = Get[int64](v)
	assert.ErrorIs(t, err, dberr.ErrWrongVariant)

	_, err = v.Str()
	assert.ErrorIs(t, err, dberr.ErrWrongVariant)

	_, err = Null().Float64()
	assert.ErrorIs(t, err, dberr.ErrWrongVariant)
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "NULL"},
		{ValueOf(int8(-5)), "-5"},
		{ValueOf(uint64(math.MaxUint64)), "18446744073709551615"},
		{ValueOf(2.5), "2.500000"},
		{ValueOf(float32(1.5)), "1.500000"},
		{ValueOf("abc"), "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestValueInterface(t *testing.T) {
	assert.Nil(t, Null().Interface())
	assert.Equal(t, uint16(9), ValueOf(uint16(9)).Interface())
	assert.Equal(t, "s", ValueOf("s").Interface())
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 11)
	assert.Contains(t, names, "UInt32")
	assert.Equal(t, "Float32", names[0])
}
