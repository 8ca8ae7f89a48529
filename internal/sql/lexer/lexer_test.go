package lexer

import (
	"testing"
)

func assertTypes(t *testing.T, input string, expected []TokenType) []Token {
	t.Helper()
	tokens := New(input).Tokenize()

	if len(tokens) != len(expected) {
		t.Fatalf("%q: expected %d tokens, got %d: %v", input, len(expected), len(tokens), tokens)
	}

	for i, exp := range expected {
		if tokens[i].Type != exp {
			t.Errorf("token %d: expected %s, got %s (literal: %q)",
				i, TypeName(exp), TypeName(tokens[i].Type), tokens[i].Literal)
		}
	}
	return tokens
}

func TestLexerBasicTokens(t *testing.T) {
	input := "SELECT * FROM users"

	l := New(input)
	tokens := l.Tokenize()

	expected := []struct {
		tokenType TokenType
		literal   string
	}{
		{TokenSelect, "SELECT"},
		{TokenAsterisk, "*"},
		{TokenFrom, "FROM"},
		{TokenIdent, "users"},
		{TokenEOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Type != exp.tokenType {
			t.Errorf("token %d: expected type %s, got %s", i, TypeName(exp.tokenType), TypeName(tokens[i].Type))
		}
		if tokens[i].Literal != exp.literal {
			t.Errorf("token %d: expected literal %q, got %q", i, exp.literal, tokens[i].Literal)
		}
	}
}

func TestLexerCreateTable(t *testing.T) {
	tokens := assertTypes(t, "CREATE TABLE t (id UInt32, score Nullable(Float64)) ENGINE = Memory", []TokenType{
		TokenCreate, TokenTable, TokenIdent,
		TokenLeftParen,
		TokenIdent, TokenIdent, TokenComma,
		TokenIdent, TokenIdent, TokenLeftParen, TokenIdent, TokenRightParen,
		TokenRightParen,
		TokenEngine, TokenEquals, TokenIdent,
		TokenEOF,
	})

	if tokens[8].Literal != "Nullable" {
		t.Errorf("expected type identifier to keep its case, got %q", tokens[8].Literal)
	}
}

func TestLexerSelectAggregates(t *testing.T) {
	assertTypes(t, "select count(*) as n, avg(score) from t group by city order by n desc limit 5;", []TokenType{
		TokenSelect,
		TokenIdent, TokenLeftParen, TokenAsterisk, TokenRightParen, TokenAs, TokenIdent, TokenComma,
		TokenIdent, TokenLeftParen, TokenIdent, TokenRightParen,
		TokenFrom, TokenIdent,
		TokenGroup, TokenBy, TokenIdent,
		TokenOrder, TokenBy, TokenIdent, TokenDesc,
		TokenLimit, TokenNumber,
		TokenSemicolon,
		TokenEOF,
	})
}

func TestLexerStatements(t *testing.T) {
	assertTypes(t, "DROP TABLE IF EXISTS t", []TokenType{TokenDrop, TokenTable, TokenIf, TokenExists, TokenIdent, TokenEOF})
	assertTypes(t, "SHOW TABLES", []TokenType{TokenShow, TokenTables, TokenEOF})
	assertTypes(t, "DESCRIBE t", []TokenType{TokenDescribe, TokenIdent, TokenEOF})
	assertTypes(t, "EXPLAIN SELECT 1", []TokenType{TokenExplain, TokenSelect, TokenNumber, TokenEOF})
}

func TestLexerOperators(t *testing.T) {
	assertTypes(t, "= != <> < > <= >= + - * / .", []TokenType{
		TokenEquals, TokenNotEquals, TokenNotEquals,
		TokenLessThan, TokenGreaterThan, TokenLessOrEqual, TokenGreaterOrEqual,
		TokenPlus, TokenMinus, TokenAsterisk, TokenSlash, TokenDot,
		TokenEOF,
	})
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123", "123"},
		{"-42", "-42"},
		{"3.14", "3.14"},
		{"-0.5", "-0.5"},
		{"1e10", "1e10"},
		{"2.5E-3", "2.5E-3"},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != TokenNumber {
			t.Errorf("%q: expected NUMBER, got %s", tt.input, TypeName(tok.Type))
		}
		if tok.Literal != tt.expected {
			t.Errorf("%q: expected literal %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"'hello'", "hello"},
		{"'it''s'", "it's"},
		{`"double"`, "double"},
		{`"say ""hi"""`, `say "hi"`},
		{"''", ""},
		{"'北京'", "北京"},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != TokenString {
			t.Errorf("%q: expected STRING, got %s", tt.input, TypeName(tok.Type))
		}
		if tok.Literal != tt.expected {
			t.Errorf("%q: expected literal %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tok := New("'oops").NextToken()
	if tok.Type != TokenError {
		t.Fatalf("expected ERROR, got %s", TypeName(tok.Type))
	}
}

func TestLexerQuotedIdentifier(t *testing.T) {
	tokens := assertTypes(t, "SELECT `select` FROM `my table`", []TokenType{
		TokenSelect, TokenIdent, TokenFrom, TokenIdent, TokenEOF,
	})
	if tokens[1].Literal != "select" || tokens[3].Literal != "my table" {
		t.Errorf("unexpected identifiers %q %q", tokens[1].Literal, tokens[3].Literal)
	}
}

func TestLexerComments(t *testing.T) {
	assertTypes(t, "SHOW -- list everything\nTABLES", []TokenType{TokenShow, TokenTables, TokenEOF})
}

func TestLexerOffsets(t *testing.T) {
	input := "SELECT id FROM t WHERE id = 1 LIMIT 2"
	tokens := New(input).Tokenize()

	for _, tok := range tokens {
		if tok.Type == TokenEOF {
			if tok.Pos != len(input) {
				t.Errorf("EOF at %d, want %d", tok.Pos, len(input))
			}
			continue
		}
		if got := input[tok.Pos:tok.End]; got != tok.Literal {
			t.Errorf("token %s: input[%d:%d] = %q, literal %q", TypeName(tok.Type), tok.Pos, tok.End, got, tok.Literal)
		}
	}
}

func TestLexerLineTracking(t *testing.T) {
	tokens := New("SELECT\n  id").Tokenize()
	if tokens[1].Line != 2 {
		t.Errorf("expected id on line 2, got %d", tokens[1].Line)
	}
}

func TestIsKeyword(t *testing.T) {
	for _, s := range []string{"SELECT", "select", "Tables", "explain"} {
		if !IsKeyword(s) {
			t.Errorf("IsKeyword(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"users", "COUNT", "Nullable", ""} {
		if IsKeyword(s) {
			t.Errorf("IsKeyword(%q) = true, want false", s)
		}
	}
}
