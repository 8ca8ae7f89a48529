package columnar

import (
	"fmt"
	"strings"

	"github.com/cabewaldrop/lightoladb/internal/types"
)

// NullLiteral is the literal text that inserts NULL into a nullable column.
const NullLiteral = "NULL"

// Nullable composes a data vector and a null map of equal length.
type Nullable[T types.Scalar] struct {
	typ     *types.NullableType
	nested  *Vector[T]
	nullMap *Vector[uint8]
}

// NewNullable creates an empty nullable column. typ.Nested() must be the
// scalar type held by T.
func NewNullable[T types.Scalar](typ *types.NullableType) *Nullable[T] {
	return &Nullable[T]{
		typ:     typ,
		nested:  NewVector[T](typ.Nested()),
		nullMap: NewVector[uint8](types.UInt8),
	}
}

func (c *Nullable[T]) Type() types.DataType { return c.typ }
func (c *Nullable[T]) Len() int             { return c.nested.Len() }

func (c *Nullable[T]) Clear() {
	c.nested.Clear()
	c.nullMap.Clear()
}

func (c *Nullable[T]) Clone() Column {
	return &Nullable[T]{
		typ:     c.typ,
		nested:  c.nested.Clone().(*Vector[T]),
		nullMap: c.nullMap.Clone().(*Vector[uint8]),
	}
}

// AppendDefault appends NULL.
func (c *Nullable[T]) AppendDefault() {
	c.nested.AppendDefault()
	c.nullMap.Append(1)
}

func (c *Nullable[T]) PopBack() {
	c.nested.PopBack()
	c.nullMap.PopBack()
}

func (c *Nullable[T]) AppendFrom(src Column, i int) {
	other, ok := src.(*Nullable[T])
	if !ok {
		panic(fmt.Sprintf("columnar: AppendFrom %T into %T", src, c))
	}
	c.nested.AppendFrom(other.nested, i)
	c.nullMap.AppendFrom(other.nullMap, i)
}

func (c *Nullable[T]) ValueAt(i int) types.Value {
	if c.IsNull(i) {
		return types.Null()
	}
	return c.nested.ValueAt(i)
}

// AppendLiteral treats NULL (any case) as a null row.
func (c *Nullable[T]) AppendLiteral(text string) error {
	if strings.EqualFold(text, NullLiteral) {
		c.AppendNull()
		return nil
	}
	if err := c.nested.AppendLiteral(text); err != nil {
		return err
	}
	c.nullMap.Append(0)
	return nil
}

// Append adds a non-null value.
func (c *Nullable[T]) Append(x T) {
	c.nested.Append(x)
	c.nullMap.Append(0)
}

// AppendNull adds a null row.
func (c *Nullable[T]) AppendNull() { c.AppendDefault() }

// IsNull reports whether row i is NULL.
func (c *Nullable[T]) IsNull(i int) bool { return c.nullMap.At(i) != 0 }

// Nested returns the data vector. Rows flagged in the null map hold zero values.
func (c *Nullable[T]) Nested() *Vector[T] { return c.nested }

// NullMap returns the null flags, one per row.
func (c *Nullable[T]) NullMap() *Vector[uint8] { return c.nullMap }
