package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

func TestVectorBasics(t *testing.T) {
	c := NewVector[int32](types.Int32)
	assert.Equal(t, 0, c.Len())

	c.Append(1)
	c.Append(2)
	c.AppendDefault()
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []int32{1, 2, 0}, c.Data())
	assert.Equal(t, types.ValueOf(int32(2)), c.ValueAt(1))

	c.PopBack()
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	// PopBack on an empty column is a no-op.
	c.PopBack()
	assert.Equal(t, 0, c.Len())
}

func TestVectorCloneIsIndependent(t *testing.T) {
	c := VectorOf(types.String, "a", "b")
	clone := c.Clone()
	clone.PopBack()
	clone.AppendDefault()

	assert.Equal(t, []string{"a", "b"}, c.Data())
	assert.Equal(t, types.ValueOf(""), clone.ValueAt(1))
}

func TestVectorAppendFrom(t *testing.T) {
	src := VectorOf[uint8](types.UInt8, 10, 20, 30)
	dst := NewVector[uint8](types.UInt8)
	dst.AppendFrom(src, 2)
	dst.AppendFrom(src, 0)
	assert.Equal(t, []uint8{30, 10}, dst.Data())
}

func TestAppendFromMismatchPanics(t *testing.T) {
	dst := NewVector[int32](types.Int32)
	assert.Panics(t, func() { dst.AppendFrom(VectorOf[int64](types.Int64, 1), 0) })

	n := NewNullable[int32](types.Nullable(types.Int32))
	assert.Panics(t, func() { n.AppendFrom(VectorOf[int32](types.Int32, 1), 0) })
}

func TestAppendLiteral(t *testing.T) {
	tests := []struct {
		typ  string
		text string
		want types.Value
	}{
		{"Int8", "-128", types.ValueOf(int8(-128))},
		{"Int64", "9000000000", types.ValueOf(int64(9000000000))},
		{"UInt16", "65535", types.ValueOf(uint16(65535))},
		{"Float32", "2.5", types.ValueOf(float32(2.5))},
		{"Float64", "3", types.ValueOf(float64(3))},
		{"String", "hello", types.ValueOf("hello")},
		{"String", "NULL", types.ValueOf("NULL")},
		{"Nullable(Int32)", "7", types.ValueOf(int32(7))},
		{"Nullable(Int32)", "null", types.Null()},
		{"Nullable(String)", "NULL", types.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.typ+"/"+tt.text, func(t *testing.T) {
			col, err := New(types.MustResolve(tt.typ))
			require.NoError(t, err)
			require.NoError(t, col.AppendLiteral(tt.text))
			assert.Equal(t, tt.want, col.ValueAt(0))
		})
	}
}

func TestAppendLiteralErrors(t *testing.T) {
	tests := []struct {
		typ  string
		text string
	}{
		{"Int8", "128"},
		{"UInt8", "-1"},
		{"Int32", "abc"},
		{"Int32", "1.5"},
		{"Float64", "x1"},
		{"Nullable(UInt32)", "oops"},
	}

	for _, tt := range tests {
		col, err := New(types.MustResolve(tt.typ))
		require.NoError(t, err)
		err = col.AppendLiteral(tt.text)
		assert.ErrorIs(t, err, dberr.ErrValueConversion, "%s <- %q", tt.typ, tt.text)
		assert.Contains(t, err.Error(), tt.text)
		assert.Equal(t, 0, col.Len(), "failed literal must not append")
	}
}

func TestNewUnsupported(t *testing.T) {
	_, err := New(types.MustResolve("Nullable(Nullable(Int8))"))
	assert.ErrorIs(t, err, dberr.ErrUnsupportedType)
}

func TestNullableColumn(t *testing.T) {
	c := NewNullable[float64](types.Nullable(types.Float64))
	c.Append(1.5)
	c.AppendNull()
	c.Append(-2)
	c.AppendDefault()

	require.Equal(t, 4, c.Len())
	assert.Equal(t, c.Nested().Len(), c.NullMap().Len())
	assert.Equal(t, types.ValueOf(1.5), c.ValueAt(0))
	assert.True(t, c.ValueAt(1).IsNull())
	assert.True(t, c.IsNull(3))
	assert.False(t, c.IsNull(2))
	assert.Equal(t, "Nullable(Float64)", c.Type().Name())

	clone := c.Clone().(*Nullable[float64])
	clone.PopBack()
	clone.PopBack()
	assert.Equal(t, 2, clone.Len())
	assert.Equal(t, clone.Nested().Len(), clone.NullMap().Len())
	assert.Equal(t, 4, c.Len())

	dst := NewNullable[float64](types.Nullable(types.Float64))
	dst.AppendFrom(c, 1)
	dst.AppendFrom(c, 2)
	assert.True(t, dst.ValueAt(0).IsNull())
	assert.Equal(t, types.ValueOf(float64(-2)), dst.ValueAt(1))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.NullMap().Len())
}

func TestBlock(t *testing.T) {
	b := NewBlock()
	assert.Equal(t, 0, b.RowCount())
	assert.True(t, b.IsValid())

	b.AddColumn("id", VectorOf[uint32](types.UInt32, 1, 2, 3))
	b.AddColumn("name", VectorOf(types.String, "a", "b", "c"))

	assert.Equal(t, 2, b.ColumnCount())
	assert.Equal(t, 3, b.RowCount())
	assert.True(t, b.IsValid())
	assert.Equal(t, []string{"id", "name"}, b.Names())
	assert.True(t, b.HasColumn("name"))

	col, err := b.ColumnByName("name")
	require.NoError(t, err)
	assert.Equal(t, types.ValueOf("b"), col.ValueAt(1))

	_, err = b.ColumnByName("missing")
	assert.ErrorIs(t, err, dberr.ErrColumnNotFound)

	assert.Equal(t, []types.Value{types.ValueOf(uint32(3)), types.ValueOf("c")}, b.Row(2))

	b.AddColumn("short", VectorOf[int8](types.Int8, 1))
	assert.False(t, b.IsValid())
}

func TestBlockCloneAndTruncate(t *testing.T) {
	b := NewBlock()
	b.AddColumn("x", VectorOf[int64](types.Int64, 1, 2, 3, 4))
	b.AddColumn("y", VectorOf(types.String, "a", "b", "c", "d"))

	clone := b.Clone()
	clone.Truncate(2)

	assert.Equal(t, 2, clone.RowCount())
	assert.True(t, clone.IsValid())
	assert.Equal(t, 4, b.RowCount())
	assert.Equal(t, types.ValueOf("b"), clone.Row(1)[1])
}
