// Package columnar holds the in-memory column representations and the Block
// that groups them.
//
// EDUCATIONAL NOTES:
// ------------------
// A row store keeps each row's fields together. A column store keeps each
// column's values together in one contiguous slice:
//
//	id:   [1, 2, 3]
//	name: ["a", "b", "c"]
//
// Aggregates such as SUM(id) then walk a single []uint32 instead of hopping
// between rows, which is what makes analytical queries cheap.
//
// There are two column families. Vector[T] is a plain slice of one Go
// scalar type. Nullable[T] pairs a Vector[T] with a parallel null map of the
// same length; a set flag means the row is NULL and the data slot holds the
// zero value.
package columnar

import (
	"fmt"

	"github.com/cabewaldrop/lightoladb/internal/types"
)

// Column is an ordered, homogeneous sequence of values.
//
// Columns returned by storage reads are shared with the stored Block.
// Callers must Clone before mutating one.
type Column interface {
	Type() types.DataType
	Len() int
	Clear()
	Clone() Column
	AppendDefault()
	PopBack()

	// AppendFrom appends row i of src. src must be the same concrete column
	// type as the receiver; anything else panics.
	AppendFrom(src Column, i int)

	ValueAt(i int) types.Value

	// AppendLiteral parses text into the column's native type and appends it.
	AppendLiteral(text string) error
}

// Vector is a plain column backed by a Go slice.
type Vector[T types.Scalar] struct {
	typ  types.DataType
	data []T
}

// NewVector creates an empty vector column of the given descriptor.
func NewVector[T types.Scalar](typ types.DataType) *Vector[T] {
	return &Vector[T]{typ: typ}
}

// VectorOf creates a vector column holding values.
func VectorOf[T types.Scalar](typ types.DataType, values ...T) *Vector[T] {
	return &Vector[T]{typ: typ, data: append([]T(nil), values...)}
}

func (c *Vector[T]) Type() types.DataType { return c.typ }
func (c *Vector[T]) Len() int             { return len(c.data) }
func (c *Vector[T]) Clear()               { c.data = c.data[:0] }

func (c *Vector[T]) Clone() Column {
	return &Vector[T]{typ: c.typ, data: append([]T(nil), c.data...)}
}

func (c *Vector[T]) AppendDefault() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *Vector[T]) PopBack() {
	if len(c.data) > 0 {
		c.data = c.data[:len(c.data)-1]
	}
}

func (c *Vector[T]) AppendFrom(src Column, i int) {
	other, ok := src.(*Vector[T])
	if !ok {
		panic(fmt.Sprintf("columnar: AppendFrom %T into %T", src, c))
	}
	c.data = append(c.data, other.data[i])
}

func (c *Vector[T]) ValueAt(i int) types.Value {
	return types.ValueOf(c.data[i])
}

func (c *Vector[T]) AppendLiteral(text string) error {
	x, err := parseLiteral[T](text)
	if err != nil {
		return err
	}
	c.data = append(c.data, x)
	return nil
}

// Append adds x to the end of the column.
func (c *Vector[T]) Append(x T) { c.data = append(c.data, x) }

// At returns row i.
func (c *Vector[T]) At(i int) T { return c.data[i] }

// Data exposes the backing slice for read-only scans.
func (c *Vector[T]) Data() []T { return c.data }
