package executor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cabewaldrop/lightoladb/internal/columnar"
	"github.com/cabewaldrop/lightoladb/internal/types"
)

// QueryResult is the outcome of one statement. A failed statement has
// Success false, a human-readable ErrorMessage and the underlying Err.
type QueryResult struct {
	Success      bool
	ErrorMessage string
	Err          error

	// Message is the informational text of statements that return no rows.
	Message string

	Blocks      []*columnar.Block
	ColumnNames []string
}

// Failure wraps err as a failed result.
func Failure(err error) *QueryResult {
	return &QueryResult{Success: false, ErrorMessage: err.Error(), Err: err}
}

func success(msg string) *QueryResult {
	return &QueryResult{Success: true, Message: msg}
}

func rowsResult(names []string, blocks ...*columnar.Block) *QueryResult {
	return &QueryResult{Success: true, ColumnNames: names, Blocks: blocks}
}

// RowCount sums the rows of every block.
func (r *QueryResult) RowCount() int {
	n := 0
	for _, b := range r.Blocks {
		n += b.RowCount()
	}
	return n
}

// ColumnCount is the number of output columns.
func (r *QueryResult) ColumnCount() int { return len(r.ColumnNames) }

// Rows materializes every row across all blocks.
func (r *QueryResult) Rows() [][]types.Value {
	rows := make([][]types.Value, 0, r.RowCount())
	for _, b := range r.Blocks {
		for i := 0; i < b.RowCount(); i++ {
			rows = append(rows, b.Row(i))
		}
	}
	return rows
}

// String formats the result for display.
func (r *QueryResult) String() string {
	if !r.Success {
		return "Error: " + r.ErrorMessage
	}
	if len(r.ColumnNames) == 0 {
		if r.Message == "" {
			return "OK"
		}
		return "OK: " + r.Message
	}

	rows := r.Rows()
	cells := make([][]string, len(rows))
	widths := make([]int, len(r.ColumnNames))
	for i, name := range r.ColumnNames {
		widths[i] = runewidth.StringWidth(name)
	}
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			s := v.String()
			cells[i][j] = s
			if j < len(widths) && runewidth.StringWidth(s) > widths[j] {
				widths[j] = runewidth.StringWidth(s)
			}
		}
	}

	var sb strings.Builder
	border := func() {
		sb.WriteString("+")
		for _, w := range widths {
			sb.WriteString(strings.Repeat("-", w+2))
			sb.WriteString("+")
		}
		sb.WriteString("\n")
	}
	line := func(values []string) {
		sb.WriteString("|")
		for i, w := range widths {
			s := ""
			if i < len(values) {
				s = values[i]
			}
			fmt.Fprintf(&sb, " %s |", runewidth.FillRight(s, w))
		}
		sb.WriteString("\n")
	}

	border()
	line(r.ColumnNames)
	border()
	for _, row := range cells {
		line(row)
	}
	border()

	if len(rows) == 1 {
		sb.WriteString("1 row in set")
	} else {
		fmt.Fprintf(&sb, "%d rows in set", len(rows))
	}
	return sb.String()
}
