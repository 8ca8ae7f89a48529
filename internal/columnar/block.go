package columnar

import (
	"fmt"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// NamedColumn pairs a column with its name inside a Block.
type NamedColumn struct {
	Name   string
	Column Column
}

// Block is an ordered set of named, equal-length columns. It is the unit of
// data exchanged between storage and the executor.
type Block struct {
	columns []NamedColumn
	index   map[string]int
}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{index: make(map[string]int)}
}

// AddColumn appends a column. Adding a name twice leaves the name pointing
// at the newest position; callers are expected to deduplicate.
func (b *Block) AddColumn(name string, col Column) {
	b.index[name] = len(b.columns)
	b.columns = append(b.columns, NamedColumn{Name: name, Column: col})
}

// ColumnCount returns the number of columns.
func (b *Block) ColumnCount() int { return len(b.columns) }

// Columns returns the named columns in order.
func (b *Block) Columns() []NamedColumn { return b.columns }

// ColumnAt returns the i-th column.
func (b *Block) ColumnAt(i int) NamedColumn { return b.columns[i] }

// Names returns the column names in order.
func (b *Block) Names() []string {
	names := make([]string, len(b.columns))
	for i, c := range b.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with this name exists.
func (b *Block) HasColumn(name string) bool {
	_, ok := b.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (b *Block) ColumnIndex(name string) (int, error) {
	i, ok := b.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: '%s'", dberr.ErrColumnNotFound, name)
	}
	return i, nil
}

// ColumnByName returns the named column.
func (b *Block) ColumnByName(name string) (Column, error) {
	i, err := b.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	return b.columns[i].Column, nil
}

// RowCount is the length of the first column, or 0 for a block without columns.
func (b *Block) RowCount() int {
	if len(b.columns) == 0 {
		return 0
	}
	return b.columns[0].Column.Len()
}

// IsValid reports whether every column has the same length.
func (b *Block) IsValid() bool {
	rows := b.RowCount()
	for _, c := range b.columns {
		if c.Column.Len() != rows {
			return false
		}
	}
	return true
}

// Row materializes row i as Values, in column order.
func (b *Block) Row(i int) []types.Value {
	row := make([]types.Value, len(b.columns))
	for j, c := range b.columns {
		row[j] = c.Column.ValueAt(i)
	}
	return row
}

// Clone deep-copies every column.
func (b *Block) Clone() *Block {
	out := NewBlock()
	for _, c := range b.columns {
		out.AddColumn(c.Name, c.Column.Clone())
	}
	return out
}

// Truncate clips the block to n rows in place.
func (b *Block) Truncate(n int) {
	for _, c := range b.columns {
		for c.Column.Len() > n {
			c.Column.PopBack()
		}
	}
}
