// Package table defines the table structure: the ordered list of column
// names and types fixed at CREATE TABLE time.
//
// EDUCATIONAL NOTES:
// ------------------
// The structure is the contract every stored Block must satisfy. Column
// order matters: the storage engine checks that column i of an inserted
// Block has the name and type of column i here. A name lookup map makes
// "which position is column x" a constant-time question.
//
// There is no ALTER TABLE, so a Schema never changes after it is built.

package table

import (
	"fmt"

	"github.com/cabewaldrop/lightoladb/internal/columnar"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// Column is one column definition.
type Column struct {
	Name string
	Type types.DataType
}

// Schema defines the structure of a table.
type Schema struct {
	Name         string
	Columns      []Column
	ColumnLookup map[string]int
}

// NewSchema creates an empty schema for the named table.
func NewSchema(name string) *Schema {
	return &Schema{
		Name:         name,
		ColumnLookup: make(map[string]int),
	}
}

// AddColumn appends a column definition. Names must be unique.
func (s *Schema) AddColumn(name string, dt types.DataType) error {
	if _, exists := s.ColumnLookup[name]; exists {
		return fmt.Errorf("%w: '%s' in table '%s'", dberr.ErrDuplicateColumn, name, s.Name)
	}
	s.ColumnLookup[name] = len(s.Columns)
	s.Columns = append(s.Columns, Column{Name: name, Type: dt})
	return nil
}

// GetColumnIndex returns the index of a column by name.
func (s *Schema) GetColumnIndex(name string) (int, bool) {
	idx, ok := s.ColumnLookup[name]
	return idx, ok
}

// GetColumn returns the definition of the named column.
func (s *Schema) GetColumn(name string) (Column, error) {
	idx, ok := s.ColumnLookup[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: '%s' in table '%s'", dberr.ErrColumnNotFound, name, s.Name)
	}
	return s.Columns[idx], nil
}

// HasColumn reports whether the named column exists.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.ColumnLookup[name]
	return ok
}

// ColumnCount returns the number of columns.
func (s *Schema) ColumnCount() int { return len(s.Columns) }

// ColumnNames returns the column names in declared order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// NewBlock returns an empty block with one fresh column per schema column,
// in declared order.
func (s *Schema) NewBlock() (*columnar.Block, error) {
	block := columnar.NewBlock()
	for _, c := range s.Columns {
		col, err := columnar.New(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", c.Name, err)
		}
		block.AddColumn(c.Name, col)
	}
	return block, nil
}
