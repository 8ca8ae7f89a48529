package web

import (
	"errors"
	"net/http"
	"strings"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/storage"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeUnavailable    = "UNAVAILABLE"
	codeRateLimited    = "RATE_LIMITED"
)

// ErrorCode returns the API error code of a database error, e.g. "SCHEMA_ERROR".
func ErrorCode(err error) string {
	return strings.ToUpper(dberr.Classify(err).String()) + "_ERROR"
}

// StatusFor maps a database error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dberr.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, dberr.ErrTableAlreadyExists):
		return http.StatusConflict
	}
	switch dberr.Classify(err) {
	case dberr.CategoryParse, dberr.CategorySchema, dberr.CategoryAggregate:
		return http.StatusBadRequest
	case dberr.CategoryData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorHint returns a helpful hint for common SQL errors.
// Returns empty string if no hint is available.
func GetErrorHint(err error) string {
	switch {
	case errors.Is(err, dberr.ErrTableNotFound):
		return "Check table name spelling or run SHOW TABLES to see available tables."
	case errors.Is(err, dberr.ErrColumnNotFound):
		return "Check column name or run DESCRIBE tablename to see columns."
	case errors.Is(err, dberr.ErrParse):
		return "Check SQL syntax near the indicated position."
	case errors.Is(err, dberr.ErrUnknownType):
		return "Supported types: " + strings.Join(types.Names(), ", ") + ", or Nullable(T) of any of them."
	case errors.Is(err, dberr.ErrUnknownEngine):
		return "Supported engines: " + strings.Join(storage.Engines(), ", ") + "."
	case errors.Is(err, dberr.ErrColumnCountMismatch):
		return "Each VALUES row needs one value per target column."
	case errors.Is(err, dberr.ErrValueConversion):
		return "Check that the literal fits the column type."
	case errors.Is(err, dberr.ErrEmptyAggregateInput):
		return "MIN and MAX need at least one non-NULL value."
	case errors.Is(err, dberr.ErrUnsupportedAggregate):
		return "SUM, AVG, MIN and MAX need a numeric column; COUNT works on any column."
	default:
		return ""
	}
}
