// Package web - Input validation for web handlers
//
// EDUCATIONAL NOTES:
// ------------------
// The only user-supplied name the API routes on is the table in
// GET /api/tables/{name}. Checking it before touching the database turns
// a typo into a 400 with a clear message instead of a 404 that suggests
// the table might exist under that spelling.
//
// A name is accepted only if CREATE TABLE could have produced it: ASCII
// letters, digits and underscores, not starting with a digit, and not a
// reserved word (the lexer turns "select" or "Tables" into keyword tokens,
// so no table can carry those names).

package web

import (
	"regexp"

	"github.com/cabewaldrop/lightoladb/internal/sql/lexer"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier reports whether s can name a table or column.
func IsValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s) && !lexer.IsKeyword(s)
}
