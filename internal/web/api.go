// Package web provides the HTTP API of the database.
//
// This file contains the JSON API endpoints for programmatic access.

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-msgpack/codec"

	"github.com/cabewaldrop/lightoladb/internal/sql/executor"
)

// ============================================================================
// API Response Types
// ============================================================================

// APIResponse wraps all API responses with success/error info.
type APIResponse struct {
	Success bool      `json:"success" codec:"success"`
	Data    any       `json:"data,omitempty" codec:"data,omitempty"`
	Error   *APIError `json:"error,omitempty" codec:"error,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code" codec:"code"`
	Message string `json:"message" codec:"message"`
	Hint    string `json:"hint,omitempty" codec:"hint,omitempty"`
}

// TableListResponse contains the list of tables.
type TableListResponse struct {
	Tables []string `json:"tables" codec:"tables"`
}

// QueryRequest is the body for query execution.
type QueryRequest struct {
	SQL string `json:"sql"`
}

// QueryResponse contains query results.
type QueryResponse struct {
	QueryID   string   `json:"query_id" codec:"query_id"`
	Columns   []string `json:"columns,omitempty" codec:"columns,omitempty"`
	Rows      [][]any  `json:"rows,omitempty" codec:"rows,omitempty"`
	RowCount  int      `json:"row_count" codec:"row_count"`
	Message   string   `json:"message,omitempty" codec:"message,omitempty"`
	ElapsedMS float64  `json:"elapsed_ms" codec:"elapsed_ms"`
}

// maxQueryBody caps the size of a POST /api/query body.
const maxQueryBody = 1 << 20

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
)

// ============================================================================
// Helper Functions
// ============================================================================

// wantsMsgpack reports whether the client asked for MessagePack.
func wantsMsgpack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, contentTypeMsgpack) || strings.Contains(accept, "application/x-msgpack")
}

// writeResponse encodes resp as JSON or MessagePack with the given status.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	if wantsMsgpack(r) {
		w.Header().Set("Content-Type", contentTypeMsgpack)
		w.WriteHeader(status)
		codec.NewEncoder(w, new(codec.MsgpackHandle)).Encode(resp)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeSuccess writes a successful API response.
func writeSuccess(w http.ResponseWriter, r *http.Request, data any) {
	writeResponse(w, r, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error API response.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeResponse(w, r, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// writeQueryError maps a database error to its status, code and hint.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	writeResponse(w, r, StatusFor(err), APIResponse{
		Success: false,
		Error: &APIError{
			Code:    ErrorCode(err),
			Message: err.Error(),
			Hint:    GetErrorHint(err),
		},
	})
}

// resultRows converts every row of a result to encoder-friendly values.
func resultRows(res *executor.QueryResult) [][]any {
	rows := res.Rows()
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v.Interface()
		}
	}
	return out
}

// ============================================================================
// API Handlers
// ============================================================================

// handleAPITables returns a list of all tables.
// GET /api/tables
func handleAPITables(w http.ResponseWriter, r *http.Request) {
	db := GetDatabase(r)
	writeSuccess(w, r, TableListResponse{Tables: db.Tables()})
}

// handleAPITableSchema returns the schema and size of a specific table.
// GET /api/tables/{name}
func handleAPITableSchema(w http.ResponseWriter, r *http.Request) {
	tableName := chi.URLParam(r, "name")
	if !IsValidIdentifier(tableName) {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest,
			fmt.Sprintf("invalid table name %q", tableName))
		return
	}

	info, err := GetDatabase(r).Table(tableName)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	writeSuccess(w, r, info)
}

// handleAPIQuery executes an arbitrary SQL statement.
// POST /api/query
func handleAPIQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBody)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(w, r, http.StatusBadRequest, codeInvalidRequest, "sql field is required")
		return
	}

	res := GetDatabase(r).Query(req.SQL)
	w.Header().Set("X-Query-ID", res.QueryID)
	if !res.Success {
		writeQueryError(w, r, res.Err)
		return
	}

	resp := QueryResponse{
		QueryID:   res.QueryID,
		RowCount:  res.RowCount(),
		Message:   res.Message,
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
	}
	if res.ColumnCount() > 0 {
		resp.Columns = res.ColumnNames
		resp.Rows = resultRows(res.QueryResult)
	}
	writeSuccess(w, r, resp)
}
