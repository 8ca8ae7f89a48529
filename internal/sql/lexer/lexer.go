// Package lexer implements a lexical analyzer (tokenizer) for SQL.
//
// EDUCATIONAL NOTES:
// ------------------
// A lexer (also called tokenizer or scanner) is the first phase of parsing.
// It reads the raw input string and converts it into a stream of tokens.
//
// For example, the input:
//   SELECT SUM(score) FROM users LIMIT 10
//
// Becomes these tokens:
//   [SELECT] [IDENT:SUM] [(] [IDENT:score] [)] [FROM] [IDENT:users] [LIMIT] [NUMBER:10]
//
// Type names (UInt32, Nullable, ...) and aggregate names (COUNT, SUM, ...)
// are ordinary identifiers here; the parser decides what they mean from
// context, so a column may still be called "count".
//
// Every token records its byte offset so the parser can slice the original
// text, which is how an unevaluated WHERE clause is kept verbatim.

package lexer

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenIllegal

	// Literals
	TokenIdent   // column names, table names, type names, functions
	TokenNumber  // 123, -45.67
	TokenString  // 'hello' or "hello"
	TokenBoolean // TRUE, FALSE

	// Keywords
	TokenSelect
	TokenInsert
	TokenCreate
	TokenDrop
	TokenInto
	TokenValues
	TokenFrom
	TokenWhere
	TokenAnd
	TokenOr
	TokenNot
	TokenTable
	TokenNull
	TokenOrder
	TokenGroup
	TokenBy
	TokenAsc
	TokenDesc
	TokenLimit
	TokenEngine
	TokenIf
	TokenExists
	TokenShow
	TokenTables
	TokenDescribe
	TokenAs
	TokenExplain

	// Operators
	TokenEquals         // =
	TokenNotEquals      // != or <>
	TokenLessThan       // <
	TokenGreaterThan    // >
	TokenLessOrEqual    // <=
	TokenGreaterOrEqual // >=
	TokenPlus           // +
	TokenMinus          // -
	TokenAsterisk       // *
	TokenSlash          // /
	TokenDot            // .

	// Punctuation
	TokenComma      // ,
	TokenSemicolon  // ;
	TokenLeftParen  // (
	TokenRightParen // )
)

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int

	// Pos and End are byte offsets of the token in the input.
	Pos int
	End int
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, line:%d, col:%d}",
		TypeName(t.Type), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	TokenEOF:            "EOF",
	TokenError:          "ERROR",
	TokenIllegal:        "ILLEGAL",
	TokenIdent:          "IDENT",
	TokenNumber:         "NUMBER",
	TokenString:         "STRING",
	TokenBoolean:        "BOOLEAN",
	TokenSelect:         "SELECT",
	TokenInsert:         "INSERT",
	TokenCreate:         "CREATE",
	TokenDrop:           "DROP",
	TokenInto:           "INTO",
	TokenValues:         "VALUES",
	TokenFrom:           "FROM",
	TokenWhere:          "WHERE",
	TokenAnd:            "AND",
	TokenOr:             "OR",
	TokenNot:            "NOT",
	TokenTable:          "TABLE",
	TokenNull:           "NULL",
	TokenOrder:          "ORDER",
	TokenGroup:          "GROUP",
	TokenBy:             "BY",
	TokenAsc:            "ASC",
	TokenDesc:           "DESC",
	TokenLimit:          "LIMIT",
	TokenEngine:         "ENGINE",
	TokenIf:             "IF",
	TokenExists:         "EXISTS",
	TokenShow:           "SHOW",
	TokenTables:         "TABLES",
	TokenDescribe:       "DESCRIBE",
	TokenAs:             "AS",
	TokenExplain:        "EXPLAIN",
	TokenEquals:         "EQUALS",
	TokenNotEquals:      "NOT_EQUALS",
	TokenLessThan:       "LESS_THAN",
	TokenGreaterThan:    "GREATER_THAN",
	TokenLessOrEqual:    "LESS_OR_EQUAL",
	TokenGreaterOrEqual: "GREATER_OR_EQUAL",
	TokenPlus:           "PLUS",
	TokenMinus:          "MINUS",
	TokenAsterisk:       "ASTERISK",
	TokenSlash:          "SLASH",
	TokenDot:            "DOT",
	TokenComma:          "COMMA",
	TokenSemicolon:      "SEMICOLON",
	TokenLeftParen:      "LEFT_PAREN",
	TokenRightParen:     "RIGHT_PAREN",
}

// TypeName returns the name of a token type.
func TypeName(t TokenType) string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// keywords maps SQL keywords to their token types.
// SQL is case-insensitive, so we store them in uppercase.
var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"INSERT":   TokenInsert,
	"CREATE":   TokenCreate,
	"DROP":     TokenDrop,
	"INTO":     TokenInto,
	"VALUES":   TokenValues,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"TABLE":    TokenTable,
	"NULL":     TokenNull,
	"TRUE":     TokenBoolean,
	"FALSE":    TokenBoolean,
	"ORDER":    TokenOrder,
	"GROUP":    TokenGroup,
	"BY":       TokenBy,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
	"LIMIT":    TokenLimit,
	"ENGINE":   TokenEngine,
	"IF":       TokenIf,
	"EXISTS":   TokenExists,
	"SHOW":     TokenShow,
	"TABLES":   TokenTables,
	"DESCRIBE": TokenDescribe,
	"AS":       TokenAs,
	"EXPLAIN":  TokenExplain,
}

// IsKeyword reports whether s is a reserved word, in any case. Reserved
// words never lex as identifiers, so they cannot name a table or column.
func IsKeyword(s string) bool {
	_, ok := keywords[strings.ToUpper(s)]
	return ok
}

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar() // Initialize first character
	return l
}

// Input returns the text being tokenized.
func (l *Lexer) Input() string {
	return l.input
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL signifies EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar looks at the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token from the input.
//
// EDUCATIONAL NOTE:
// -----------------
// This is the main lexer function. It examines the current character
// and decides what type of token it starts. This is essentially a
// big switch statement with some helper functions.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.pos
	line, column := l.line, l.column

	var tok Token
	switch l.ch {
	case '=':
		tok = l.single(TokenEquals)
	case '+':
		tok = l.single(TokenPlus)
	case '-':
		// Could be minus or negative number
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		tok = l.single(TokenMinus)
	case '*':
		tok = l.single(TokenAsterisk)
	case '/':
		tok = l.single(TokenSlash)
	case '.':
		tok = l.single(TokenDot)
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.double(TokenLessOrEqual)
		case '>':
			tok = l.double(TokenNotEquals)
		default:
			tok = l.single(TokenLessThan)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.double(TokenGreaterOrEqual)
		} else {
			tok = l.single(TokenGreaterThan)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.double(TokenNotEquals)
		} else {
			tok = l.single(TokenIllegal)
		}
	case ',':
		tok = l.single(TokenComma)
	case ';':
		tok = l.single(TokenSemicolon)
	case '(':
		tok = l.single(TokenLeftParen)
	case ')':
		tok = l.single(TokenRightParen)
	case '\'', '"':
		return l.readString(l.ch)
	case '`':
		return l.readQuotedIdentifier()
	case 0:
		return Token{Type: TokenEOF, Line: line, Column: column, Pos: len(l.input), End: len(l.input)}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.single(TokenIllegal)
	}

	tok.Line, tok.Column, tok.Pos = line, column, start
	l.readChar()
	tok.End = l.pos
	return tok
}

// single makes a one-character token from the current character.
func (l *Lexer) single(tokenType TokenType) Token {
	return Token{Type: tokenType, Literal: string(l.ch)}
}

// double makes a two-character token, consuming the first character.
func (l *Lexer) double(tokenType TokenType) Token {
	first := l.ch
	l.readChar()
	return Token{Type: tokenType, Literal: string(first) + string(l.ch)}
}

// skipWhitespaceAndComments skips spaces, tabs, newlines and "--" comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	startLine := l.line
	startColumn := l.column
	startPos := l.pos

	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	literal := l.input[startPos:l.pos]

	// Check if it's a keyword
	tokenType, isKeyword := keywords[strings.ToUpper(literal)]
	if !isKeyword {
		tokenType = TokenIdent
	}

	return Token{
		Type:    tokenType,
		Literal: literal,
		Line:    startLine,
		Column:  startColumn,
		Pos:     startPos,
		End:     l.pos,
	}
}

// readQuotedIdentifier reads a `backtick quoted` identifier, which is never
// a keyword.
func (l *Lexer) readQuotedIdentifier() Token {
	startLine := l.line
	startColumn := l.column
	startPos := l.pos

	l.readChar() // consume opening backtick
	begin := l.pos
	for l.ch != '`' {
		if l.ch == 0 {
			return Token{Type: TokenError, Literal: "unterminated identifier",
				Line: startLine, Column: startColumn, Pos: startPos, End: l.pos}
		}
		l.readChar()
	}
	literal := l.input[begin:l.pos]
	l.readChar() // consume closing backtick

	return Token{
		Type:    TokenIdent,
		Literal: literal,
		Line:    startLine,
		Column:  startColumn,
		Pos:     startPos,
		End:     l.pos,
	}
}

// readNumber reads a numeric literal (integer or float).
func (l *Lexer) readNumber() Token {
	startLine := l.line
	startColumn := l.column
	startPos := l.pos

	// Handle optional negative sign
	if l.ch == '-' {
		l.readChar()
	}

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Check for decimal point
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Optional exponent
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '-' || next == '+' {
			l.readChar()
			if l.ch == '-' || l.ch == '+' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return Token{
		Type:    TokenNumber,
		Literal: l.input[startPos:l.pos],
		Line:    startLine,
		Column:  startColumn,
		Pos:     startPos,
		End:     l.pos,
	}
}

// readString reads a string literal enclosed in quote.
//
// EDUCATIONAL NOTE:
// -----------------
// SQL uses single quotes for string literals: 'hello world'
// To include a quote in a string, you double it: 'it''s working'
// Double-quoted strings are accepted as values too and follow the same rule.
func (l *Lexer) readString(quote byte) Token {
	startLine := l.line
	startColumn := l.column
	startPos := l.pos

	var sb strings.Builder
	l.readChar() // consume opening quote

	for {
		if l.ch == quote {
			if l.peekChar() == quote {
				// Escaped quote
				sb.WriteByte(quote)
				l.readChar()
				l.readChar()
			} else {
				// End of string
				l.readChar()
				break
			}
		} else if l.ch == 0 {
			// Unexpected EOF
			return Token{
				Type:    TokenError,
				Literal: "unterminated string",
				Line:    startLine,
				Column:  startColumn,
				Pos:     startPos,
				End:     l.pos,
			}
		} else {
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}

	return Token{
		Type:    TokenString,
		Literal: sb.String(),
		Line:    startLine,
		Column:  startColumn,
		Pos:     startPos,
		End:     l.pos,
	}
}

// Tokenize returns all tokens from the input.
// Useful for debugging and testing.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}
	return tokens
}

// isLetter checks if the character can start an identifier.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
