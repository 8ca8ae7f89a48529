package executor

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/cabewaldrop/lightoladb/internal/columnar"
	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/sql/parser"
	"github.com/cabewaldrop/lightoladb/internal/sql/planner"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// aggregator folds one column across every block into a single-row column.
type aggregator func(out planner.Output, blocks []*columnar.Block) (columnar.Column, error)

// accumulator is the type SUM and AVG add into.
type accumulator interface {
	int64 | uint64 | float64
}

// aggregators is keyed by the operand's scalar type; nullable columns use
// the entry of their inner type. The constructor picks the SUM width:
// signed integers sum into Int64, unsigned into UInt64, floats into Float64.
var aggregators = map[types.TypeID]aggregator{
	types.TypeInt8:    signed[int8](),
	types.TypeInt16:   signed[int16](),
	types.TypeInt32:   signed[int32](),
	types.TypeInt64:   signed[int64](),
	types.TypeUInt8:   unsigned[uint8](),
	types.TypeUInt16:  unsigned[uint16](),
	types.TypeUInt32:  unsigned[uint32](),
	types.TypeUInt64:  unsigned[uint64](),
	types.TypeFloat32: floating[float32](),
	types.TypeFloat64: floating[float64](),
	types.TypeString:  nonNumeric,
}

func signed[T interface {
	types.Number
	constraints.Signed
}]() aggregator {
	return numeric[T, int64](types.Int64)
}

func unsigned[T interface {
	types.Number
	constraints.Unsigned
}]() aggregator {
	return numeric[T, uint64](types.UInt64)
}

func floating[T interface {
	types.Number
	constraints.Float
}]() aggregator {
	return numeric[T, float64](types.Float64)
}

// aggregate computes every output of an aggregate plan into one block.
func aggregate(plan *planner.QueryPlan, blocks []*columnar.Block) (*columnar.Block, error) {
	block := columnar.NewBlock()
	for _, out := range plan.Outputs {
		col, err := computeAggregate(out, blocks)
		if err != nil {
			return nil, err
		}
		block.AddColumn(out.Name, col)
	}
	return block, nil
}

func computeAggregate(out planner.Output, blocks []*columnar.Block) (columnar.Column, error) {
	if out.Aggregate == parser.AggCount {
		n, err := count(out.Column, blocks)
		if err != nil {
			return nil, err
		}
		return columnar.VectorOf(types.UInt64, n), nil
	}

	if out.Type == nil {
		return nil, fmt.Errorf("%w: %s(%s)", dberr.ErrUnsupportedAggregate, out.Aggregate, out.Column)
	}
	agg, ok := aggregators[types.ScalarOf(out.Type).ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s over %s column '%s'",
			dberr.ErrUnsupportedAggregate, out.Aggregate, out.Type.Name(), out.Column)
	}
	return agg(out, blocks)
}

// count implements COUNT(*) and COUNT(column). The latter skips NULLs.
func count(name string, blocks []*columnar.Block) (uint64, error) {
	var n uint64
	for _, b := range blocks {
		if name == parser.StarColumn {
			n += uint64(b.RowCount())
			continue
		}
		col, err := b.ColumnByName(name)
		if err != nil {
			return 0, err
		}
		n += uint64(col.Len())
		if nc, ok := col.(interface{ NullMap() *columnar.Vector[uint8] }); ok {
			for _, isNull := range nc.NullMap().Data() {
				if isNull != 0 {
					n--
				}
			}
		}
	}
	return n, nil
}

func numeric[T types.Number, A accumulator](sumType types.DataType) aggregator {
	return func(out planner.Output, blocks []*columnar.Block) (columnar.Column, error) {
		switch out.Aggregate {
		case parser.AggSum:
			var sum A
			if err := scan(out.Column, blocks, func(x T) { sum += A(x) }); err != nil {
				return nil, err
			}
			return columnar.VectorOf(sumType, sum), nil

		case parser.AggAvg:
			var (
				sum A
				n   uint64
			)
			err := scan(out.Column, blocks, func(x T) {
				sum += A(x)
				n++
			})
			if err != nil {
				return nil, err
			}
			avg := 0.0
			if n > 0 {
				avg = float64(sum) / float64(n)
			}
			return columnar.VectorOf(types.Float64, avg), nil

		case parser.AggMin, parser.AggMax:
			return extreme[T](out, blocks)
		}
		return nil, fmt.Errorf("%w: %s", dberr.ErrUnsupportedAggregate, out.Aggregate)
	}
}

// extreme implements MIN and MAX. The result has the operand's scalar type.
func extreme[T types.Number](out planner.Output, blocks []*columnar.Block) (columnar.Column, error) {
	var (
		best  T
		found bool
	)
	isMin := out.Aggregate == parser.AggMin
	err := scan(out.Column, blocks, func(x T) {
		if !found || (isMin && x < best) || (!isMin && x > best) {
			best = x
			found = true
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s(%s) has no non-NULL values",
			dberr.ErrEmptyAggregateInput, out.Aggregate, out.Column)
	}
	return columnar.VectorOf(types.ScalarOf(out.Type), best), nil
}

func nonNumeric(out planner.Output, _ []*columnar.Block) (columnar.Column, error) {
	return nil, fmt.Errorf("%w: %s is not supported for %s column '%s'",
		dberr.ErrUnsupportedAggregate, out.Aggregate, out.Type.Name(), out.Column)
}

// scan calls fn for every non-NULL value of the named column.
func scan[T types.Scalar](name string, blocks []*columnar.Block, fn func(T)) error {
	for _, b := range blocks {
		col, err := b.ColumnByName(name)
		if err != nil {
			return err
		}
		switch c := col.(type) {
		case *columnar.Vector[T]:
			for _, x := range c.Data() {
				fn(x)
			}
		case *columnar.Nullable[T]:
			nulls := c.NullMap().Data()
			for i, x := range c.Nested().Data() {
				if nulls[i] == 0 {
					fn(x)
				}
			}
		default:
			panic(fmt.Sprintf("column '%s' is %T, expected %s values", name, col, types.KindOf[T]()))
		}
	}
	return nil
}
