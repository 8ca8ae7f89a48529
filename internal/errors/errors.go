// Package errors defines the error taxonomy shared by every layer of the
// engine.
//
// Errors are plain sentinels. Call sites wrap them with fmt.Errorf and %w so
// that the message names the offending table, column or literal while
// errors.Is still matches the sentinel. Classify groups them into the broad
// categories used for metrics and HTTP status codes.
package errors

import (
	"errors"
)

// Category is the broad class an error belongs to.
type Category int

const (
	CategoryNone Category = iota
	CategoryParse
	CategorySchema
	CategoryData
	CategoryAggregate
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryParse:
		return "parse"
	case CategorySchema:
		return "schema"
	case CategoryData:
		return "data"
	case CategoryAggregate:
		return "aggregate"
	default:
		return "internal"
	}
}

var (
	// ErrParse reports malformed SQL.
	ErrParse = errors.New("parse error")

	// Schema errors
	ErrUnknownType         = errors.New("unknown type")
	ErrUnknownEngine       = errors.New("unknown storage engine")
	ErrTableAlreadyExists  = errors.New("table already exists")
	ErrTableNotFound       = errors.New("table not found")
	ErrColumnNotFound      = errors.New("column not found")
	ErrColumnCountMismatch = errors.New("column count mismatch")
	ErrSchemaMismatch      = errors.New("schema mismatch")
	ErrDuplicateColumn     = errors.New("duplicate column")

	// Data errors
	ErrValueConversion  = errors.New("value conversion error")
	ErrTruncatedData    = errors.New("truncated data")
	ErrNotImplemented   = errors.New("not implemented")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrWrongVariant     = errors.New("wrong value variant")
	ErrNoValuesToInsert = errors.New("no values to insert")

	// Aggregate errors
	ErrUnsupportedAggregate = errors.New("unsupported aggregate")
	ErrEmptyAggregateInput  = errors.New("empty aggregate input")
)

var categories = []struct {
	category Category
	errs     []error
}{
	{CategoryParse, []error{ErrParse}},
	{CategorySchema, []error{
		ErrUnknownType, ErrUnknownEngine, ErrTableAlreadyExists, ErrTableNotFound,
		ErrColumnNotFound, ErrColumnCountMismatch, ErrSchemaMismatch, ErrDuplicateColumn,
	}},
	{CategoryData, []error{
		ErrValueConversion, ErrTruncatedData, ErrNotImplemented, ErrUnsupportedType,
		ErrWrongVariant, ErrNoValuesToInsert,
	}},
	{CategoryAggregate, []error{ErrUnsupportedAggregate, ErrEmptyAggregateInput}},
}

// Classify returns the category of err. Unknown errors are internal.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	for _, c := range categories {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.category
			}
		}
	}
	return CategoryInternal
}
