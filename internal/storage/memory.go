package storage

import (
	"fmt"
	"sync"

	"github.com/cabewaldrop/lightoladb/internal/columnar"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/table"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// Memory keeps a table's blocks in a slice guarded by one mutex. Every call
// holds the lock for its whole duration, so a single insert is atomic with
// respect to reads. There is no isolation across calls.
type Memory struct {
	schema *table.Schema

	mu     sync.Mutex
	blocks []*columnar.Block
	rows   int
}

// NewMemory creates an empty in-memory engine.
func NewMemory(schema *table.Schema) *Memory {
	return &Memory{schema: schema}
}

func (m *Memory) Name() string          { return EngineMemory }
func (m *Memory) Schema() *table.Schema { return m.schema }

func (m *Memory) Insert(block *columnar.Block) error {
	if err := m.validate(block); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = append(m.blocks, block)
	m.rows += block.RowCount()
	return nil
}

// validate checks the block against the schema positionally.
func (m *Memory) validate(block *columnar.Block) error {
	if block.ColumnCount() != m.schema.ColumnCount() {
		return fmt.Errorf("%w: table '%s' has %d columns, block has %d",
			dberr.ErrSchemaMismatch, m.schema.Name, m.schema.ColumnCount(), block.ColumnCount())
	}

	for i, want := range m.schema.Columns {
		got := block.ColumnAt(i)
		if got.Name != want.Name {
			return fmt.Errorf("%w: column %d is '%s', expected '%s'",
				dberr.ErrSchemaMismatch, i, got.Name, want.Name)
		}
		if !types.Equal(got.Column.Type(), want.Type) {
			return fmt.Errorf("%w: column '%s' has type %s, expected %s",
				dberr.ErrSchemaMismatch, want.Name, got.Column.Type().Name(), want.Type.Name())
		}
	}

	if !block.IsValid() {
		return fmt.Errorf("%w: block columns have different lengths", dberr.ErrSchemaMismatch)
	}
	return nil
}

func (m *Memory) ReadAll() ([]*columnar.Block, error) {
	return m.Read(m.schema.ColumnNames())
}

func (m *Memory) Read(columnNames []string) ([]*columnar.Block, error) {
	positions := make([]int, len(columnNames))
	for i, name := range columnNames {
		idx, ok := m.schema.GetColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' in table '%s'", dberr.ErrColumnNotFound, name, m.schema.Name)
		}
		positions[i] = idx
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*columnar.Block, 0, len(m.blocks))
	for _, stored := range m.blocks {
		block := columnar.NewBlock()
		for i, name := range columnNames {
			block.AddColumn(name, stored.ColumnAt(positions[i]).Column)
		}
		result = append(result, block)
	}
	return result, nil
}

func (m *Memory) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows
}

// BlockCount returns the number of stored blocks.
func (m *Memory) BlockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}
