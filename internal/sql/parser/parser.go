// Package parser - SQL Parser implementation
//
// EDUCATIONAL NOTES:
// ------------------
// A parser reads tokens from the lexer and builds an Abstract Syntax Tree (AST).
// This is the second phase of compilation/interpretation, after lexing.
//
// We use a "recursive descent" parser, which is one of the simplest and most
// intuitive parsing techniques. Each grammar rule becomes a function:
// - parseStatement() picks the statement kind from the first keyword
// - parseSelectStatement() handles the SELECT grammar specifically
// - parseTypeName() handles nested types such as Nullable(Int32)
//
// The parser maintains a "current token" and can "peek" at the next token.
// This allows it to make decisions about what to parse next.

package parser

import (
	"fmt"
	"strconv"
	"strings"

	dberr "github.com/cabewaldrop/lightoladb/internal/errors"
	"github.com/cabewaldrop/lightoladb/internal/sql/lexer"
)

// Parser parses SQL tokens into an AST.
type Parser struct {
	lexer     *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: []string{},
	}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a single SQL statement.
func Parse(sql string) (Statement, error) {
	return New(lexer.New(sql)).Parse()
}

// Parse parses the input and returns the AST. Errors wrap ErrParse.
func (p *Parser) Parse() (Statement, error) {
	stmt := p.parseStatement()
	if len(p.errors) == 0 {
		if p.peekTokenIs(lexer.TokenSemicolon) {
			p.nextToken()
		}
		if !p.peekTokenIs(lexer.TokenEOF) {
			p.errorAt(p.peekToken, "unexpected %q after end of statement", p.peekToken.Literal)
		}
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("%w: %s", dberr.ErrParse, strings.Join(p.errors, "; "))
	}
	return stmt, nil
}

// Errors returns any parsing errors encountered.
func (p *Parser) Errors() []string {
	return p.errors
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if the next token is of the given type.
func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token is of the expected type.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// peekError records an error for unexpected token type.
func (p *Parser) peekError(t lexer.TokenType) {
	p.errorAt(p.peekToken, "expected %s, got %s", lexer.TypeName(t), describe(p.peekToken))
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) {
	msg := fmt.Sprintf("line %d, column %d: ", tok.Line, tok.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenEOF:
		return "end of input"
	case lexer.TokenError:
		return tok.Literal
	default:
		return fmt.Sprintf("%s %q", lexer.TypeName(tok.Type), tok.Literal)
	}
}

// parseStatement parses a SQL statement.
//
// EDUCATIONAL NOTE:
// -----------------
// This is the entry point for parsing. We look at the first token
// to determine what kind of statement we're parsing.
func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.TokenSelect:
		return p.nilIfFailed(p.parseSelectStatement())
	case lexer.TokenInsert:
		return p.nilIfFailed(p.parseInsertStatement())
	case lexer.TokenCreate:
		return p.nilIfFailed(p.parseCreateStatement())
	case lexer.TokenDrop:
		return p.nilIfFailed(p.parseDropStatement())
	case lexer.TokenShow:
		if !p.expectPeek(lexer.TokenTables) {
			return nil
		}
		return &ShowTablesStatement{}
	case lexer.TokenDescribe, lexer.TokenDesc:
		if !p.expectPeek(lexer.TokenIdent) {
			return nil
		}
		return &DescribeStatement{Table: p.curToken.Literal}
	case lexer.TokenExplain:
		if !p.expectPeek(lexer.TokenSelect) {
			return nil
		}
		sel := p.parseSelectStatement()
		if sel == nil {
			return nil
		}
		return &ExplainStatement{Statement: sel}
	case lexer.TokenEOF:
		p.errorAt(p.curToken, "empty statement")
		return nil
	default:
		p.errorAt(p.curToken, "unexpected token: %s", describe(p.curToken))
		return nil
	}
}

// nilIfFailed converts a typed nil statement into an untyped nil.
func (p *Parser) nilIfFailed(stmt Statement) Statement {
	if len(p.errors) > 0 {
		return nil
	}
	return stmt
}

// parseCreateStatement parses: CREATE TABLE name (col type, ...) [ENGINE [=] name]
func (p *Parser) parseCreateStatement() *CreateTableStatement {
	if !p.expectPeek(lexer.TokenTable) {
		return nil
	}
	if !p.expectPeek(lexer.TokenIdent) {
		return nil
	}
	stmt := &CreateTableStatement{Table: p.curToken.Literal, Engine: DefaultEngine}

	if !p.expectPeek(lexer.TokenLeftParen) {
		return nil
	}

	for {
		if !p.expectPeek(lexer.TokenIdent) {
			return nil
		}
		col := ColumnDefinition{Name: p.curToken.Literal}

		p.nextToken()
		typeName, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		col.TypeName = typeName
		stmt.Columns = append(stmt.Columns, col)

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(lexer.TokenRightParen) {
			return nil
		}
		break
	}

	if p.peekTokenIs(lexer.TokenEngine) {
		p.nextToken()
		if p.peekTokenIs(lexer.TokenEquals) {
			p.nextToken()
		}
		if !p.expectPeek(lexer.TokenIdent) {
			return nil
		}
		stmt.Engine = p.curToken.Literal
	}

	return stmt
}

// parseTypeName reads a type starting at the current token and returns it
// as canonical text: Name or Name(arg, ...). Arguments are nested types or
// numbers. Whether the type exists is decided later by the type registry.
func (p *Parser) parseTypeName() (string, bool) {
	if !p.curTokenIs(lexer.TokenIdent) {
		p.errorAt(p.curToken, "expected type name, got %s", describe(p.curToken))
		return "", false
	}
	name := p.curToken.Literal

	if !p.peekTokenIs(lexer.TokenLeftParen) {
		return name, true
	}
	p.nextToken()

	var args []string
	for {
		p.nextToken()
		switch p.curToken.Type {
		case lexer.TokenIdent:
			arg, ok := p.parseTypeName()
			if !ok {
				return "", false
			}
			args = append(args, arg)
		case lexer.TokenNumber:
			args = append(args, p.curToken.Literal)
		default:
			p.errorAt(p.curToken, "expected type argument, got %s", describe(p.curToken))
			return "", false
		}

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(lexer.TokenRightParen) {
			return "", false
		}
		break
	}

	return name + "(" + strings.Join(args, ", ") + ")", true
}

// parseInsertStatement parses: INSERT INTO table [(cols)] VALUES (vals), ...
func (p *Parser) parseInsertStatement() *InsertStatement {
	if !p.expectPeek(lexer.TokenInto) {
		return nil
	}
	if !p.expectPeek(lexer.TokenIdent) {
		return nil
	}
	stmt := &InsertStatement{Table: p.curToken.Literal}

	// Optional column list
	if p.peekTokenIs(lexer.TokenLeftParen) {
		p.nextToken()
		names, ok := p.parseIdentifierList()
		if !ok {
			return nil
		}
		if !p.expectPeek(lexer.TokenRightParen) {
			return nil
		}
		stmt.Columns = names
	}

	if !p.expectPeek(lexer.TokenValues) {
		return nil
	}

	for {
		if !p.expectPeek(lexer.TokenLeftParen) {
			return nil
		}
		row, ok := p.parseValueRow()
		if !ok {
			return nil
		}
		stmt.Rows = append(stmt.Rows, row)

		if !p.peekTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}

	return stmt
}

// parseValueRow parses literals up to and including the closing paren. The
// current token is the opening paren.
func (p *Parser) parseValueRow() ([]string, bool) {
	if p.peekTokenIs(lexer.TokenRightParen) {
		p.errorAt(p.peekToken, "empty VALUES row")
		return nil, false
	}

	var row []string
	for {
		p.nextToken()
		lit, ok := p.parseLiteral()
		if !ok {
			return nil, false
		}
		row = append(row, lit)

		if p.peekTokenIs(lexer.TokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(lexer.TokenRightParen) {
			return nil, false
		}
		return row, true
	}
}

// parseLiteral returns the text of the literal at the current token.
func (p *Parser) parseLiteral() (string, bool) {
	switch p.curToken.Type {
	case lexer.TokenNumber, lexer.TokenString, lexer.TokenBoolean, lexer.TokenIdent:
		return p.curToken.Literal, true
	case lexer.TokenNull:
		return "NULL", true
	default:
		p.errorAt(p.curToken, "expected literal value, got %s", describe(p.curToken))
		return "", false
	}
}

// parseIdentifierList parses ident {, ident}; the current token precedes
// the first identifier.
func (p *Parser) parseIdentifierList() ([]string, bool) {
	var names []string
	for {
		if !p.expectPeek(lexer.TokenIdent) {
			return nil, false
		}
		names = append(names, p.curToken.Literal)
		if !p.peekTokenIs(lexer.TokenComma) {
			return names, true
		}
		p.nextToken()
	}
}

// parseSelectStatement parses:
//
//	SELECT {* | expr [, expr]} FROM table [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT n]
func (p *Parser) parseSelectStatement() *SelectStatement {
	stmt := &SelectStatement{}

	if p.peekTokenIs(lexer.TokenAsterisk) {
		p.nextToken()
		stmt.SelectAll = true
	} else {
		for {
			p.nextToken()
			expr, ok := p.parseColumnExpression()
			if !ok {
				return nil
			}
			stmt.Columns = append(stmt.Columns, expr)
			if !p.peekTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
		}
	}

	// Expect FROM
	if !p.expectPeek(lexer.TokenFrom) {
		return nil
	}

	// Parse table name
	if !p.expectPeek(lexer.TokenIdent) {
		return nil
	}
	stmt.Table = p.curToken.Literal

	if p.peekTokenIs(lexer.TokenWhere) {
		p.nextToken()
		where, ok := p.captureWhere()
		if !ok {
			return nil
		}
		stmt.Where = where
	}

	if p.peekTokenIs(lexer.TokenGroup) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenBy) {
			return nil
		}
		names, ok := p.parseIdentifierList()
		if !ok {
			return nil
		}
		stmt.GroupBy = names
	}

	if p.peekTokenIs(lexer.TokenOrder) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenBy) {
			return nil
		}
		stmt.OrderBy = p.parseOrderBy()
		if stmt.OrderBy == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.TokenLimit) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenNumber) {
			return nil
		}
		limit, err := strconv.ParseUint(p.curToken.Literal, 10, 64)
		if err != nil {
			p.errorAt(p.curToken, "invalid LIMIT %q", p.curToken.Literal)
			return nil
		}
		stmt.Limit = limit
	}

	return stmt
}

// parseColumnExpression parses col [AS alias] or AGG(col|*) [AS alias],
// starting at the current token.
func (p *Parser) parseColumnExpression() (ColumnExpression, bool) {
	var expr ColumnExpression

	if !p.curTokenIs(lexer.TokenIdent) {
		p.errorAt(p.curToken, "expected column name, got %s", describe(p.curToken))
		return expr, false
	}

	if p.peekTokenIs(lexer.TokenLeftParen) {
		fn, ok := LookupAggregate(p.curToken.Literal)
		if !ok {
			p.errorAt(p.curToken, "unknown function %s", p.curToken.Literal)
			return expr, false
		}
		expr.Aggregate = fn
		p.nextToken() // (
		p.nextToken()

		switch {
		case p.curTokenIs(lexer.TokenAsterisk):
			if fn != AggCount {
				p.errorAt(p.curToken, "%s(*) is not supported, only COUNT(*)", fn)
				return expr, false
			}
			expr.Column = StarColumn
		case p.curTokenIs(lexer.TokenIdent):
			expr.Column = p.curToken.Literal
		default:
			p.errorAt(p.curToken, "expected column name in %s(), got %s", fn, describe(p.curToken))
			return expr, false
		}

		if !p.expectPeek(lexer.TokenRightParen) {
			return expr, false
		}
	} else {
		expr.Column = p.curToken.Literal
	}

	if p.peekTokenIs(lexer.TokenAs) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenIdent) {
			return expr, false
		}
		expr.Alias = p.curToken.Literal
	}

	return expr, true
}

// captureWhere returns the source text of the WHERE clause. The current
// token is WHERE; the clause runs until GROUP, ORDER, LIMIT, ';' or the end.
func (p *Parser) captureWhere() (string, bool) {
	start, end := -1, -1
	for !p.peekTokenIs(lexer.TokenGroup) && !p.peekTokenIs(lexer.TokenOrder) &&
		!p.peekTokenIs(lexer.TokenLimit) && !p.peekTokenIs(lexer.TokenSemicolon) &&
		!p.peekTokenIs(lexer.TokenEOF) {
		if p.peekTokenIs(lexer.TokenError) || p.peekTokenIs(lexer.TokenIllegal) {
			p.errorAt(p.peekToken, "invalid WHERE clause: %s", describe(p.peekToken))
			return "", false
		}
		p.nextToken()
		if start < 0 {
			start = p.curToken.Pos
		}
		end = p.curToken.End
	}

	if start < 0 {
		p.errorAt(p.peekToken, "expected expression after WHERE")
		return "", false
	}
	return p.lexer.Input()[start:end], true
}

// parseOrderBy parses col [ASC|DESC] {, col [ASC|DESC]}.
func (p *Parser) parseOrderBy() []OrderByClause {
	var clauses []OrderByClause
	for {
		if !p.expectPeek(lexer.TokenIdent) {
			return nil
		}
		clause := OrderByClause{Column: p.curToken.Literal}
		if p.peekTokenIs(lexer.TokenAsc) {
			p.nextToken()
		} else if p.peekTokenIs(lexer.TokenDesc) {
			p.nextToken()
			clause.Descending = true
		}
		clauses = append(clauses, clause)

		if !p.peekTokenIs(lexer.TokenComma) {
			return clauses
		}
		p.nextToken()
	}
}

// parseDropStatement parses: DROP TABLE [IF EXISTS] name
func (p *Parser) parseDropStatement() *DropTableStatement {
	if !p.expectPeek(lexer.TokenTable) {
		return nil
	}
	stmt := &DropTableStatement{}

	if p.peekTokenIs(lexer.TokenIf) {
		p.nextToken()
		if !p.expectPeek(lexer.TokenExists) {
			return nil
		}
		stmt.IfExists = true
	}

	if !p.expectPeek(lexer.TokenIdent) {
		return nil
	}
	stmt.Table = p.curToken.Literal
	return stmt
}
